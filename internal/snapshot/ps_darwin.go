//go:build darwin

package snapshot

// psKeywords maps fields to BSD ps format specifiers. BSD ps has no sz, rsz
// is the closest core size.
var psKeywords = [numFields]string{
	FieldPID:     "pid",
	FieldPPID:    "ppid",
	FieldElapsed: "etime",
	FieldCPU:     "%cpu",
	FieldMem:     "%mem",
	FieldRSS:     "rss",
	FieldSize:    "rsz",
	FieldVSZ:     "vsz",
	FieldCommand: "command",
}
