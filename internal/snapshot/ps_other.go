//go:build !darwin

package snapshot

// psKeywords maps fields to procps-ng format specifiers.
var psKeywords = [numFields]string{
	FieldPID:     "pid",
	FieldPPID:    "ppid",
	FieldElapsed: "etime",
	FieldCPU:     "%cpu",
	FieldMem:     "%mem",
	FieldRSS:     "rss",
	FieldSize:    "sz",
	FieldVSZ:     "vsz",
	FieldCommand: "command",
}
