package tablemod

import (
	"strings"
	"unicode"

	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/report"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/table"
	"golang.org/x/text/cases"
)

// Run applies the modifier to every table of doc selected by subtype and
// process mode. A table-scope error is recorded in that table's result and
// processing moves on to the next table; only a failure to list the tables
// is returned. info may be nil.
func (m *Modifier) Run(doc table.Document, info *report.Info) (*models.RunSummary, error) {
	if info == nil {
		info = report.NewInfo()
	}
	tables, err := doc.Tables()
	if err != nil {
		return nil, err
	}
	summary := &models.RunSummary{Tables: []models.TableResult{}}
	if named, ok := doc.(interface{ Name() string }); ok {
		summary.BookName = named.Name()
	}

	for _, t := range m.candidates(tables) {
		if !m.matchSubtype(t.Subtype()) {
			continue
		}
		res, err := m.Apply(t, info.ForTable(t.Name()))
		if err != nil {
			m.logger.Error("table modification failed", "table", t.Name(), "err", err)
			res.Error = err.Error()
		}
		summary.Tables = append(summary.Tables, res)
	}
	summary.Messages = info.Messages()
	return summary, nil
}

// candidates returns the tables searched under the process mode: all of
// them, or the trailing run of tables sharing the last table's group.
func (m *Modifier) candidates(tables []table.Table) []table.Table {
	if len(tables) == 0 || m.opts.Process == ProcessAll {
		return tables
	}
	last := tables[len(tables)-1].Group()
	start := len(tables) - 1
	for start > 0 && tables[start-1].Group() == last {
		start--
	}
	return tables[start:]
}

func (m *Modifier) matchSubtype(subtype string) bool {
	if m.subtypes == nil {
		return true
	}
	return m.subtypes[NormalizeSubtype(subtype)]
}

// normalizeSubtypes returns nil when every subtype is selected.
func normalizeSubtypes(subtypes []string) map[string]bool {
	if len(subtypes) == 0 {
		return nil
	}
	set := make(map[string]bool, len(subtypes))
	for _, s := range subtypes {
		n := NormalizeSubtype(s)
		if n == "*" {
			return nil
		}
		set[n] = true
	}
	return set
}

// NormalizeSubtype case-folds s, removes all white space and strips one
// pair of matching outer quotes.
func NormalizeSubtype(s string) string {
	s = cases.Fold().String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	return s
}
