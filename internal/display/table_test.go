package display

import (
	"strings"
	"testing"
	"time"
)

func peakTable(b Border) string {
	tbl := NewTable("Log", "Mem (%)", "RSS (GB)")
	tbl.Border = b
	tbl.AddRow("a.log", "2.5", "0.0029")
	tbl.AddRow("long-name.log", "10.0", "1.0000")
	var buf strings.Builder
	tbl.Render(&buf)
	return buf.String()
}

func TestTableRender_Borders(t *testing.T) {
	tests := []struct {
		border Border
		want   string
	}{
		{BorderNone, "" +
			"Log            Mem (%)  RSS (GB)\n" +
			"a.log          2.5      0.0029\n" +
			"long-name.log  10.0     1.0000\n"},
		{BorderInner, "" +
			"--------------+---------+---------\n" +
			"Log           | Mem (%) | RSS (GB)\n" +
			"--------------+---------+---------\n" +
			"a.log         | 2.5     | 0.0029\n" +
			"long-name.log | 10.0    | 1.0000\n" +
			"--------------+---------+---------\n"},
		{BorderFull, "" +
			"+---------------+---------+----------+\n" +
			"| Log           | Mem (%) | RSS (GB) |\n" +
			"+---------------+---------+----------+\n" +
			"| a.log         | 2.5     | 0.0029   |\n" +
			"| long-name.log | 10.0    | 1.0000   |\n" +
			"+---------------+---------+----------+\n"},
	}
	for _, tt := range tests {
		if got := peakTable(tt.border); got != tt.want {
			t.Errorf("border %d:\n%s\nwant:\n%s", tt.border, got, tt.want)
		}
	}
}

func TestTableRender_ColorPadsOnRaw(t *testing.T) {
	tbl := NewTable("Name", "Value")
	tbl.Color = true
	tbl.AddColoredRow([]string{"foo", "1"}, []string{Cyan("foo"), "1"})
	var buf strings.Builder
	tbl.Render(&buf)
	out := buf.String()
	if !strings.Contains(out, Bold("Name")) {
		t.Error("header should be bold")
	}
	if !strings.Contains(out, Cyan("foo")+" ") {
		t.Errorf("colored cell should be padded to width: %q", out)
	}
}

func TestParseBorder(t *testing.T) {
	for _, n := range []int{0, 1, 2} {
		if _, err := ParseBorder(n); err != nil {
			t.Errorf("ParseBorder(%d): %v", n, err)
		}
	}
	if _, err := ParseBorder(3); err == nil {
		t.Error("ParseBorder(3) should fail")
	}
}

func TestReasonColor(t *testing.T) {
	if got := ReasonColor("finished"); !strings.Contains(got, "\033[32m") {
		t.Errorf("finished should be green: %q", got)
	}
	if got := ReasonColor("none found"); !strings.Contains(got, "\033[31m") {
		t.Errorf("none found should be red: %q", got)
	}
	if got := ReasonColor("other"); strings.Contains(got, "\033[") {
		t.Errorf("unknown reason should not be colored: %q", got)
	}
}

func TestUnits(t *testing.T) {
	if got := KBToGB(1024 * 1024); got != "1.0000" {
		t.Errorf("KBToGB = %q", got)
	}
	if got := KBToGB(3000); got != "0.0029" {
		t.Errorf("KBToGB = %q", got)
	}
	tests := map[int64]string{512: "512 KB", 2048: "2.0 MB", 3 * 1024 * 1024: "3.0 GB"}
	for kb, want := range tests {
		if got := FormatKB(kb); got != want {
			t.Errorf("FormatKB(%d) = %q, want %q", kb, got, want)
		}
	}
	durs := map[time.Duration]string{
		5 * time.Second:               "5s",
		3*time.Minute + 4*time.Second: "3m 4s",
		time.Hour + 2*time.Minute:     "1h 2m",
		50*time.Hour + 10*time.Minute: "2d 2h",
	}
	for d, want := range durs {
		if got := FormatDuration(d); got != want {
			t.Errorf("FormatDuration(%s) = %q, want %q", d, got, want)
		}
	}
}
