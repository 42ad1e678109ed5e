package report

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/surveydash/internal/chart"
	"github.com/KaramelBytes/surveydash/internal/utils"
)

// Exporter writes a document into a directory and returns the main file path.
type Exporter interface {
	Export(doc *Document, dir string) (string, error)
}

// NewExporter returns the exporter for a format name ("markdown" or "json").
// renderer may be nil to skip chart images.
func NewExporter(format string, renderer *chart.Renderer) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "md", "markdown":
		return &MarkdownExporter{Charts: renderer}, nil
	case "json":
		return &JSONExporter{Charts: renderer}, nil
	}
	return nil, fmt.Errorf("unsupported export format %q (use markdown or json)", format)
}

// MarkdownExporter writes report.md plus one PNG per charted section under charts/.
type MarkdownExporter struct {
	Charts *chart.Renderer
}

// Export implements Exporter.
func (e *MarkdownExporter) Export(doc *Document, dir string) (string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	writeCharts(doc, dir, e.Charts)
	path := filepath.Join(dir, "report.md")
	if err := utils.SafeWriteFile(path, []byte(Markdown(doc))); err != nil {
		return "", err
	}
	slog.Debug("exported markdown report", "path", path, "sections", len(doc.Sections))
	return path, nil
}

// JSONExporter writes report.json, plus chart images when a renderer is set.
type JSONExporter struct {
	Charts *chart.Renderer
}

// Export implements Exporter.
func (e *JSONExporter) Export(doc *Document, dir string) (string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	writeCharts(doc, dir, e.Charts)
	b, err := utils.PrettyJSON(doc)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "report.json")
	if err := utils.SafeWriteFile(path, b); err != nil {
		return "", err
	}
	return path, nil
}

// writeCharts renders every section chart. A chart that fails to render is
// noted on its section and the export carries on.
func writeCharts(doc *Document, dir string, r *chart.Renderer) {
	if r == nil {
		return
	}
	doc.Theme = r.Theme.Name
	for i := range doc.Sections {
		s := &doc.Sections[i]
		if s.Chart == nil {
			continue
		}
		name := fmt.Sprintf("%02d-%s.png", i+1, utils.Slug(s.Title, 40))
		rel := filepath.ToSlash(filepath.Join("charts", name))
		if err := r.SavePNG(filepath.Join(dir, "charts", name), *s.Chart); err != nil {
			slog.Warn("chart not rendered", "section", s.Title, "err", err)
			s.Notice = strings.TrimSpace(s.Notice + " Chart unavailable: " + err.Error())
			continue
		}
		s.ChartFile = rel
	}
}

// Markdown renders the document as a standalone Markdown report.
func Markdown(doc *Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", doc.Title)
	fmt.Fprintf(&b, "Generated on %s", doc.Generated.Format("2006-01-02 15:04"))
	if doc.Source != "" {
		fmt.Fprintf(&b, " from `%s`", doc.Source)
	}
	fmt.Fprintf(&b, ". Report ID `%s`.\n\n", doc.ID)
	if len(doc.Sections) == 0 {
		b.WriteString("_No summaries were produced._\n")
		return b.String()
	}
	for i, s := range doc.Sections {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, s.Title)
		if len(s.Meta) > 0 {
			parts := make([]string, len(s.Meta))
			for j, f := range s.Meta {
				parts[j] = fmt.Sprintf("**%s:** %s", f.Name, mdCell(f.Value))
			}
			b.WriteString(strings.Join(parts, " | "))
			b.WriteString("\n\n")
		}
		if s.Notice != "" {
			fmt.Fprintf(&b, "> %s\n\n", s.Notice)
		}
		if len(s.KPIs) > 0 {
			rows := make([][]string, len(s.KPIs))
			for j, f := range s.KPIs {
				rows[j] = []string{f.Name, f.Value}
			}
			writeMDTable(&b, []string{"Metric", "Value"}, rows)
		}
		if s.Breakdown != nil && len(s.Breakdown.Rows) > 0 {
			writeMDTable(&b, s.Breakdown.Header, s.Breakdown.Rows)
		}
		if s.Body != "" {
			b.WriteString(s.Body)
			b.WriteString("\n\n")
		}
		if s.Recommendation != "" {
			fmt.Fprintf(&b, "**Recommendation:** %s\n\n", s.Recommendation)
		}
		if s.ChartFile != "" {
			caption := s.Caption
			if caption == "" {
				caption = s.Title
			}
			fmt.Fprintf(&b, "![%s](%s)\n\n*%s*\n\n", mdCell(caption), s.ChartFile, mdCell(caption))
		}
	}
	return b.String()
}

func writeMDTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| " + strings.Join(mapCells(header), " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, r := range rows {
		b.WriteString("| " + strings.Join(mapCells(r), " | ") + " |\n")
	}
	b.WriteString("\n")
}

func mapCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = mdCell(c)
	}
	return out
}

func mdCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
