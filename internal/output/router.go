package output

import (
	"errors"
	"strings"
)

// Router fans sample lines out to a primary and an optional mirror
// destination, and raw snapshots to a separate raw destination. Any of them
// may be nil.
type Router struct {
	samples []*Destination
	raw     *Destination
}

// NewRouter builds a router. Nil destinations are ignored.
func NewRouter(primary, mirror, raw *Destination) *Router {
	r := &Router{raw: raw}
	for _, d := range []*Destination{primary, mirror} {
		if d != nil {
			r.samples = append(r.samples, d)
		}
	}
	return r
}

// Destinations returns the number of sample destinations.
func (r *Router) Destinations() int { return len(r.samples) }

// WriteHeader writes the header line to every sample destination.
func (r *Router) WriteHeader(line string, flush bool) error {
	return r.WriteLine(line, flush)
}

// WriteLine writes one newline-terminated line to every sample destination.
func (r *Router) WriteLine(line string, flush bool) error {
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	var errs []error
	for _, d := range r.samples {
		errs = append(errs, write(d, []byte(line), flush))
	}
	return errors.Join(errs...)
}

// WriteRaw writes one unparsed snapshot blob to the raw destination,
// newline-terminated.
func (r *Router) WriteRaw(blob []byte, flush bool) error {
	if r.raw == nil {
		return nil
	}
	if len(blob) == 0 || blob[len(blob)-1] != '\n' {
		blob = append(blob[:len(blob):len(blob)], '\n')
	}
	return write(r.raw, blob, flush)
}

// Flush flushes every destination.
func (r *Router) Flush() error {
	var errs []error
	for _, d := range r.all() {
		errs = append(errs, d.Flush())
	}
	return errors.Join(errs...)
}

// Close flushes and closes every destination.
func (r *Router) Close() error {
	var errs []error
	for _, d := range r.all() {
		errs = append(errs, d.Close())
	}
	return errors.Join(errs...)
}

func (r *Router) all() []*Destination {
	out := append([]*Destination(nil), r.samples...)
	if r.raw != nil {
		out = append(out, r.raw)
	}
	return out
}

func write(d *Destination, p []byte, flush bool) error {
	if _, err := d.Write(p); err != nil {
		return err
	}
	if flush {
		return d.Flush()
	}
	return nil
}
