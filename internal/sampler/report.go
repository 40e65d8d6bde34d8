package sampler

import (
	"fmt"
	"strings"
	"time"
)

const reportTimeLayout = "2006-01-02 15:04:05.000000"

// Report summarizes a finished run for humans.
type Report struct {
	Command string
	Began   time.Time
	Ended   time.Time
}

// RunTime is the wall-clock length of the run.
func (r Report) RunTime() time.Duration {
	if r.Ended.Before(r.Began) {
		return 0
	}
	return r.Ended.Sub(r.Began)
}

func (r Report) String() string {
	d := r.RunTime()
	hours := int(d / time.Hour)
	mins := int(d%time.Hour) / int(time.Minute)
	secs := (d % time.Minute).Seconds()

	var b strings.Builder
	fmt.Fprintf(&b, " Command: %s\n", r.Command)
	fmt.Fprintf(&b, "Began at: %s.\n", r.Began.Format(reportTimeLayout))
	fmt.Fprintf(&b, "Ended at: %s.\n", r.Ended.Format(reportTimeLayout))
	fmt.Fprintf(&b, "Run time: %d hour(s), %d minute(s), %06.3f second(s).\n", hours, mins, secs)
	return b.String()
}
