package dashboard

import (
	"log/slog"

	"github.com/KaramelBytes/surveydash/internal/metric"
	"github.com/KaramelBytes/surveydash/internal/report"
	"github.com/KaramelBytes/surveydash/internal/schema"
)

// ReportTitle heads every exported document.
const ReportTitle = "Survey Dashboard Report"

var kindTitles = map[schema.Kind]string{
	schema.YesNo:               "Yes/No",
	schema.Rating:              "Rating",
	schema.CollaborationOption: "Collaboration",
}

// Report builds the full document for a country selection: every yes/no and
// rating question, every collaboration option, and each graduate metric for
// the newest year with its trend. Question types with no columns contribute
// one notice section each.
func (s *Session) Report(country string) (*report.Document, error) {
	if _, err := s.Filter(country); err != nil {
		return nil, err
	}
	doc := report.NewDocument(ReportTitle, s.Table.Source)

	for _, k := range []schema.Kind{schema.YesNo, schema.Rating, schema.CollaborationOption} {
		qs, err := s.Schema.Questions(k)
		if err != nil {
			sec, err := emptyState(kindTitles[k], err)
			if err != nil {
				return nil, err
			}
			doc.Add(sec)
			continue
		}
		for _, q := range qs {
			var sec report.Section
			switch k {
			case schema.YesNo:
				sec, err = s.yesNoSection(q, country)
			case schema.Rating:
				sec, err = s.ratingSection(q, country)
			default:
				sec = s.collaborationSection(q)
			}
			if err != nil {
				return nil, err
			}
			doc.Add(sec)
		}
	}

	year := ""
	if len(s.Years) > 0 {
		year = s.Years[0]
	}
	for _, m := range metric.All() {
		secs, err := s.Graduates(string(m), year, country, true)
		if err != nil {
			return nil, err
		}
		for _, sec := range secs {
			doc.Add(sec)
		}
	}
	slog.Debug("report assembled", "id", doc.ID, "sections", len(doc.Sections), "country", country)
	return doc, nil
}
