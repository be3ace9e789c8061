package cmd

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"
)

// progressReporter prints single-line, carriage-return overwritten download
// progress. The output is informational only, not machine-parseable.
type progressReporter struct {
	out      io.Writer
	total    int64 // -1 when Content-Length is unknown
	bytes    int64
	start    time.Time
	reported bool
}

func newProgressReporter(out io.Writer, total int64) *progressReporter {
	if out == nil {
		out = os.Stderr
	}
	return &progressReporter{out: out, total: total, start: time.Now()}
}

// Add records n more downloaded bytes and redraws the status line.
func (p *progressReporter) Add(n int) {
	p.bytes += int64(n)
	p.reported = true

	if p.total <= 0 {
		fmt.Fprintf(p.out, "Downloaded %d of ? bytes\r", p.bytes)
		return
	}

	percent := float64(p.bytes) / float64(p.total) * 100
	percent = math.Round(percent*100) / 100
	elapsed := time.Since(p.start).Seconds()
	// The max guards the division when percent rounds down to zero
	remaining := (100 - percent) / math.Max(0.01, percent) * elapsed
	fmt.Fprintf(p.out, "Downloaded %d of %d bytes (%0.2f%%, %d seconds remaining)\r",
		p.bytes, p.total, percent, int(remaining))
}

// Finish terminates the status line so later output starts on a fresh one.
func (p *progressReporter) Finish() {
	if p.reported {
		fmt.Fprint(p.out, "\n")
	}
}
