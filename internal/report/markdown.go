package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/AymanRbati/ExposedInraRecon/internal/model"
)

// maxOutputColumn bounds error strings in tables.
const maxOutputColumn = 60

// MarkdownWriter outputs the summary as a Markdown document.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to output.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the summary.
func (w *MarkdownWriter) Write(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeCounts(md, summary)
	w.writeDomains(md, summary)
	w.writeHosts(md, summary)
	w.writeScans(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, s *model.Summary) {
	md.H1("Recon Summary")
	md.PlainText("")

	rows := [][]string{
		{"Input File", "`" + s.InputFile + "`"},
		{"Started", s.StartedAt.Format("2006-01-02 15:04:05 MST")},
	}
	if !s.FinishedAt.IsZero() {
		rows = append(rows,
			[]string{"Finished", s.FinishedAt.Format("2006-01-02 15:04:05 MST")},
			[]string{"Duration", s.FinishedAt.Sub(s.StartedAt).Round(time.Second).String()},
		)
	}
	rows = append(rows, []string{"Stage", statusText(s)})

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	switch {
	case s.Stage == model.StageAbort:
		md.Warningf("No IPs resolved. Nothing was scanned. (%s)", s.Error)
		md.PlainText("")
	case s.Error != "":
		md.Cautionf("Run stopped: %s", s.Error)
		md.PlainText("")
	}
}

func statusText(s *model.Summary) string {
	switch s.Stage {
	case model.StageDone:
		if s.Error != "" {
			return "❌ " + s.Stage.String()
		}
		return "✅ " + s.Stage.String()
	case model.StageAbort:
		return "⚠️ " + s.Stage.String()
	default:
		return s.Stage.String()
	}
}

func (w *MarkdownWriter) writeCounts(md *markdown.Markdown, s *model.Summary) {
	c := s.Counts

	md.H2("Counts")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Item", "Count"},
		Rows: [][]string{
			{"Domains", strconv.Itoa(c.Domains)},
			{"Failed domains", strconv.Itoa(c.FailedDomains)},
			{"Subdomains", strconv.Itoa(c.Subdomains)},
			{"Unresolved subdomains", strconv.Itoa(c.Unresolved)},
			{"IPv4 addresses", strconv.Itoa(c.IPv4Addresses)},
			{"IPv6 addresses", strconv.Itoa(c.IPv6Addresses)},
			{"Scans", strconv.Itoa(c.Scans)},
			{"Failed scans", strconv.Itoa(c.FailedScans)},
		},
	})
	md.PlainText("")

	if c.IPv4Addresses+c.IPv6Addresses > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Address Families"),
			piechart.WithShowData(true),
		)
		if c.IPv4Addresses > 0 {
			chart.LabelAndIntValue("IPv4", uint64(c.IPv4Addresses))
		}
		if c.IPv6Addresses > 0 {
			chart.LabelAndIntValue("IPv6", uint64(c.IPv6Addresses))
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeDomains(md *markdown.Markdown, s *model.Summary) {
	md.H2("Domains")
	md.PlainText("")

	if len(s.Domains) == 0 {
		md.PlainText("No domains were queried.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(s.Domains))
	for _, d := range s.Domains {
		rows = append(rows, []string{
			"`" + d.Domain + "`",
			d.Outcome.String(),
			strconv.Itoa(d.Subdomains),
			orDash(truncateString(d.Error, maxOutputColumn)),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Domain", "Outcome", "Subdomains", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeHosts(md *markdown.Markdown, s *model.Summary) {
	md.H2("Hosts")
	md.PlainText("")

	if len(s.Hosts) == 0 {
		md.PlainText("No subdomains were resolved.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(s.Hosts))
	for _, h := range s.Hosts {
		rows = append(rows, []string{
			"`" + h.Subdomain + "`",
			orDash(strings.Join(h.IPv4, ", ")),
			orDash(strings.Join(h.IPv6, ", ")),
			h.Outcome.String(),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Subdomain", "IPv4", "IPv6", "Outcome"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeScans(md *markdown.Markdown, s *model.Summary) {
	md.H2("Scans")
	md.PlainText("")

	if len(s.Scans) == 0 {
		md.PlainText("No addresses were scanned.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(s.Scans))
	for _, scan := range s.Scans {
		rows = append(rows, []string{
			"`" + scan.Address + "`",
			string(scan.Family),
			strconv.Itoa(scan.ExitCode),
			strconv.Itoa(scan.OutputSize),
			(time.Duration(scan.DurationMS) * time.Millisecond).String(),
			scan.Outcome.String(),
			orDash(truncateString(scan.Error, maxOutputColumn)),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Address", "Family", "Exit Code", "Output Bytes", "Duration", "Outcome", "Error"},
		Rows:   rows,
	})
	md.PlainText("")

	if s.Counts.FailedScans > 0 {
		md.Importantf("%d scan(s) failed to launch. Their output is missing from nmap.txt.", s.Counts.FailedScans)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Raw results: subdomains.txt, IPs.txt, nmap.txt*")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateString truncates s to maxLen bytes with an ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
