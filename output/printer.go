// Package output formats command results for the terminal.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Printer writes to out, colouring when enabled.
type Printer struct {
	out       io.Writer
	useColors bool
}

// ResolveColors turns colours off for NO_COLOR, dumb terminals and when the
// caller asks for plain output.
func ResolveColors(plain bool) bool {
	if plain {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

func NewPrinter(out io.Writer, useColors bool) *Printer {
	return &Printer{out: out, useColors: useColors}
}

func (p *Printer) Out() io.Writer { return p.out }

func (p *Printer) Header(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.useColors {
		color.New(color.Bold).Fprintln(p.out, msg)
		return
	}
	fmt.Fprintln(p.out, msg)
}

func (p *Printer) Line(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.useColors {
		color.New(color.FgYellow).Fprintln(p.out, msg)
		return
	}
	fmt.Fprintln(p.out, "[WARN] "+msg)
}

// Star renders the like marker of a row.
func (p *Printer) Star(liked bool) string {
	if !liked {
		return "☆"
	}
	if p.useColors {
		return color.New(color.FgYellow, color.Bold).Sprint("★")
	}
	return "★"
}

// Score highlights scores at or above the recommendation threshold.
func (p *Printer) Score(score string, recommended bool) string {
	if recommended && p.useColors {
		return color.New(color.FgGreen).Sprint(score)
	}
	return score
}
