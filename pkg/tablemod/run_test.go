package tablemod

import (
	"reflect"
	"testing"

	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/plugin"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/report"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/table"
)

func newDocument(groups ...[]string) (*table.MemoryDocument, map[string]*table.Memory) {
	doc := &table.MemoryDocument{BookName: "book.xlsx"}
	byName := make(map[string]*table.Memory)
	for g, names := range groups {
		for _, name := range names {
			tbl := newTable(name)
			tbl.TableGroup = string(rune('A' + g))
			tbl.TableSubtype = "Frequencies"
			doc.Items = append(doc.Items, tbl)
			byName[name] = tbl
		}
	}
	return doc, byName
}

func tableNames(summary *models.RunSummary) []string {
	var names []string
	for _, r := range summary.Tables {
		names = append(names, r.Name)
	}
	return names
}

func TestNormalizeSubtype(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Frequencies", "frequencies"},
		{" 'Custom Table' ", "customtable"},
		{`"Crosstab"`, "crosstab"},
		{"'unbalanced", "'unbalanced"},
		{"STRASSE", "strasse"},
		{"*", "*"},
	}

	for _, tt := range tests {
		if got := NormalizeSubtype(tt.input); got != tt.expected {
			t.Errorf("NormalizeSubtype(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestRunProcessModes(t *testing.T) {
	tests := []struct {
		process  Process
		expected []string
	}{
		{ProcessPreceding, []string{"t3", "t4"}},
		{ProcessAll, []string{"t1", "t2", "t3", "t4"}},
	}

	for _, tt := range tests {
		doc, _ := newDocument([]string{"t1", "t2"}, []string{"t3", "t4"})
		m := mustNew(t, options(func(o *Options) {
			o.Process = tt.process
			o.Select = []string{"0"}
			o.TextStyle = models.StyleBold
		}))
		summary, err := m.Run(doc, nil)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if got := tableNames(summary); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("%s: processed %v, expected %v", tt.process, got, tt.expected)
		}
		if summary.BookName != "book.xlsx" {
			t.Errorf("BookName = %q", summary.BookName)
		}
	}
}

func TestRunSelectsSubtypes(t *testing.T) {
	doc, byName := newDocument([]string{"t1", "t2", "t3"})
	byName["t2"].TableSubtype = "Custom Table"

	tests := []struct {
		subtypes []string
		expected []string
	}{
		{[]string{"'custom table'"}, []string{"t2"}},
		{[]string{"FREQUENCIES"}, []string{"t1", "t3"}},
		{[]string{"frequencies", "*"}, []string{"t1", "t2", "t3"}},
		{nil, []string{"t1", "t2", "t3"}},
		{[]string{"Crosstabs"}, nil},
	}

	for _, tt := range tests {
		m := mustNew(t, options(func(o *Options) {
			o.Subtypes = tt.subtypes
			o.Select = []string{"0"}
		}))
		summary, err := m.Run(doc, nil)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if got := tableNames(summary); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("subtypes %v: processed %v, expected %v", tt.subtypes, got, tt.expected)
		}
	}
}

func TestStopHaltsOnlyTheCurrentTable(t *testing.T) {
	doc, byName := newDocument([]string{"t1", "t2"})
	stopper := func(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *plugin.Context) (plugin.Result, error) {
		if ctx.Name() == "t1" && section == models.DataCells && col == 1 {
			return plugin.Stop, nil
		}
		return plugin.Applied, obj.SetTextStyleAt(row, col, models.StyleBold)
	}
	m := mustNew(t, options(func(o *Options) {
		o.Select = []string{"<<ALL>>"}
		o.ApplyTo = ApplyDataCells
		o.Visitors = []plugin.VisitFunc{stopper}
	}))
	summary, err := m.Run(doc, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !summary.Tables[0].Stopped || summary.Tables[1].Stopped {
		t.Errorf("stopped = %v, %v, expected true, false", summary.Tables[0].Stopped, summary.Tables[1].Stopped)
	}
	t1, t2 := byName["t1"].Data(), byName["t2"].Data()
	for c := 0; c < 3; c++ {
		if got, want := bold(t1, 0, c), c == 0; got != want {
			t.Errorf("t1 column %d bold = %v, expected %v", c, got, want)
		}
		if !bold(t2, 0, c) || !bold(t2, 1, c) {
			t.Errorf("t2 column %d not styled", c)
		}
	}
	if byName["t1"].Suspended {
		t.Error("t1 updates left suspended after stop")
	}
}

func TestRunContinuesAfterTableError(t *testing.T) {
	doc, byName := newDocument([]string{"t1", "t2"})
	byName["t1"].Column().HideErr = func(row, col int) error { return table.ErrUnsupported }
	m := mustNew(t, options(func(o *Options) { o.Select = []string{"Percent"} }))
	info := report.NewInfo()
	summary, err := m.Run(doc, info)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.Tables[0].Error == "" {
		t.Error("t1 error not recorded")
	}
	if summary.Tables[1].Error != "" || len(byName["t2"].Column().Hidden) != 1 {
		t.Errorf("t2 = %+v hidden %v, expected one hidden column", summary.Tables[1], byName["t2"].Column().Hidden)
	}
}

func TestScratchIsSharedAcrossTables(t *testing.T) {
	doc, _ := newDocument([]string{"t1", "t2"})
	counter := func(obj table.Section, row, col, numRows, numCols int, section models.SectionTag, ctx *plugin.Context) (plugin.Result, error) {
		n, _ := ctx.Scratch["visits"].(int)
		ctx.Scratch["visits"] = n + 1
		return plugin.Applied, nil
	}
	m := mustNew(t, options(func(o *Options) {
		o.Select = []string{"0"}
		o.ApplyTo = ApplyDataCells
		o.Visitors = []plugin.VisitFunc{counter}
	}))
	if _, err := m.Run(doc, nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := m.ctx.Scratch["visits"]; got != 4 {
		t.Errorf("visits = %v, expected 4", got)
	}
}
