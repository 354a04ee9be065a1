package ingest

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/Kinetic-Blast/SQL-Import/internal/runlog"
)

// RenderedReport is the deliverable form of a Report: a plain-text body
// and an HTML alternative carrying the same content.
type RenderedReport struct {
	Subject string
	Text    string
	HTML    string
}

const reportSubject = "File Import Report"

var separator = strings.Repeat("-", 80)

var htmlShell = template.Must(template.New("report").Parse(
	`<html><body><h3>Import process report:</h3><pre style="font-family: monospace;">{{.}}</pre></body></html>`))

// BuildReport renders a run report deterministically: one section per
// definition in run order, one line per outcome, successes with row
// counts and failures with their reason. The run's event trail, when
// present, is appended as a final section.
func BuildReport(report Report, events []runlog.Event) RenderedReport {
	var b strings.Builder

	fmt.Fprintf(&b, "Import process report:\n\n")
	fmt.Fprintf(&b, "Run %s started %s\n\n", report.RunID, report.Started.Format("2006-01-02 15:04:05"))

	for _, res := range report.Results {
		def := res.Definition
		fmt.Fprintf(&b, "%s\n", separator)
		fmt.Fprintf(&b, "%s -> %s (delimiter '%s')\n", def.Pattern, def.Target(), def.DelimiterLabel())
		fmt.Fprintf(&b, "%s\n", separator)

		if len(res.Outcomes) == 0 {
			fmt.Fprintf(&b, "  no files selected\n\n")
			continue
		}
		for _, o := range res.Outcomes {
			switch {
			case o.Failed() && o.File == "":
				fmt.Fprintf(&b, "  FAILED  %s\n", o.Err)
			case o.Failed():
				fmt.Fprintf(&b, "  FAILED  %s: %s\n", o.File, o.Err)
			default:
				fmt.Fprintf(&b, "  OK      %s (%d rows)\n", o.File, o.Rows)
			}
		}
		b.WriteString("\n")
	}

	succeeded, failed := report.Counts()
	fmt.Fprintf(&b, "Totals: %d succeeded, %d failed\n", succeeded, failed)

	if len(events) > 0 {
		fmt.Fprintf(&b, "\nRun log:\n")
		for _, e := range events {
			fmt.Fprintf(&b, "  %s %-5s %s\n", e.Time.Format("15:04:05"), e.Level, e.Message)
		}
	}

	text := b.String()
	return RenderedReport{
		Subject: reportSubject,
		Text:    text,
		HTML:    renderHTML(text),
	}
}

// renderHTML wraps the text body in a monospace <pre> block, escaping
// anything a file name or error message might smuggle in.
func renderHTML(text string) string {
	var b strings.Builder
	if err := htmlShell.Execute(&b, text); err != nil {
		// The template takes a plain string; execution cannot fail.
		return "<html><body><pre>" + template.HTMLEscapeString(text) + "</pre></body></html>"
	}
	return b.String()
}
