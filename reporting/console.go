// Package reporting renders step output for manual inspection: section
// headers, pretty-printed response bodies and colored pass/fail markers.
// Formatting is done by pure functions; Console only decides where the
// styled strings go.
package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/text"
)

// FormatSection returns a styled section header for a step
func FormatSection(title string) string {
	return text.FgYellow.Sprintf("\n%s", title)
}

// FormatSuccess returns a styled success marker with a message
func FormatSuccess(message string) string {
	return text.FgGreen.Sprintf("✓ %s", message)
}

// FormatFailure returns a styled failure marker with a message
func FormatFailure(message string) string {
	return text.FgRed.Sprintf("✗ %s", message)
}

// FormatWarning returns a styled advisory marker with a message
func FormatWarning(message string) string {
	return text.FgYellow.Sprintf("! %s", message)
}

// FormatJSON pretty-prints a raw JSON body. Bodies that fail to re-encode
// are returned verbatim so the operator still sees what came over the wire.
func FormatJSON(raw []byte) string {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(out)
}

// Console writes styled step output to a single writer
type Console struct {
	out io.Writer
}

// NewConsole creates a console writing to w. A nil writer defaults to stdout.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{out: w}
}

func (c *Console) Section(format string, args ...interface{}) {
	fmt.Fprintln(c.out, FormatSection(fmt.Sprintf(format, args...)))
}

func (c *Console) Successf(format string, args ...interface{}) {
	fmt.Fprintln(c.out, FormatSuccess(fmt.Sprintf(format, args...)))
}

func (c *Console) Failuref(format string, args ...interface{}) {
	fmt.Fprintln(c.out, FormatFailure(fmt.Sprintf(format, args...)))
}

func (c *Console) Warnf(format string, args ...interface{}) {
	fmt.Fprintln(c.out, FormatWarning(fmt.Sprintf(format, args...)))
}

// JSON pretty-prints a response body
func (c *Console) JSON(raw []byte) {
	if len(raw) == 0 {
		return
	}
	fmt.Fprintln(c.out, FormatJSON(raw))
}

// Printf writes an unstyled line, for plain values like captured IDs
func (c *Console) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format+"\n", args...)
}
