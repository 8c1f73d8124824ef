// pkg/report/console.go

package report

import (
	"fmt"
	"io"
	"os"

	"github.com/jwalton/go-supportscolor"
)

const (
	markPassed = "通过"
	markFailed = "不通过"
)

// ConsolePrinter renders an InspectionReport as operator-facing text
type ConsolePrinter struct {
	Out   io.Writer
	Color bool
}

// NewConsolePrinter creates a printer that colours output written to a
// terminal stdout that supports it
func NewConsolePrinter(out io.Writer) *ConsolePrinter {
	return &ConsolePrinter{
		Out:   out,
		Color: out == io.Writer(os.Stdout) && supportscolor.Stdout().SupportsColor,
	}
}

// PrintGroup writes the header and verdict of one group
func (p *ConsolePrinter) PrintGroup(g GroupOutcome) {
	fmt.Fprintf(p.Out, "———— 检查 %s ————\n", g.Title)
	if g.Passed {
		fmt.Fprintln(p.Out, p.paint(markPassed, "\033[32m"))
	} else {
		fmt.Fprintln(p.Out, p.paint(markFailed, "\033[31m"))
	}
}

// PrintSummary writes the final summary. On failure it points the operator
// at the trace log holding the full command output.
func (p *ConsolePrinter) PrintSummary(r InspectionReport) {
	failures := r.Failures()
	if len(failures) == 0 {
		fmt.Fprintln(p.Out, "巡检项目都通过")
		return
	}

	fmt.Fprintln(p.Out, "\n总结：")
	for _, msg := range failures {
		fmt.Fprintln(p.Out, msg)
	}
	if r.LogName != "" {
		fmt.Fprintf(p.Out, "具体请检查 %s 文件\n", r.LogName)
	}
}

// Print writes every group followed by the summary
func (p *ConsolePrinter) Print(r InspectionReport) {
	for _, g := range r.Groups {
		p.PrintGroup(g)
	}
	p.PrintSummary(r)
}

func (p *ConsolePrinter) paint(text, color string) string {
	if !p.Color {
		return text
	}
	return color + text + "\033[0m"
}
