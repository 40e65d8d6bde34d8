package snapshot

// PSArgs turns a Descriptor into a ps argument vector listing every process
// with one headerless -o per field.
func PSArgs(d Descriptor) []string {
	args := make([]string, 0, 1+2*len(d.fields))
	args = append(args, "-A")
	for _, f := range d.fields {
		args = append(args, "-o", psKeywords[f]+"=")
	}
	return args
}
