package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
)

func TestInfoTagsTableRows(t *testing.T) {
	info := NewInfo()
	info.AddRow("run level")
	info.ForTable("Sheet1!Table1").AddRow("out of range")

	msgs := info.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Table != "" || msgs[0].Text != "run level" {
		t.Errorf("messages[0] = %+v", msgs[0])
	}
	if msgs[1].Table != "Sheet1!Table1" || msgs[1].Text != "out of range" {
		t.Errorf("messages[1] = %+v", msgs[1])
	}
}

func TestRenderText(t *testing.T) {
	summary := &models.RunSummary{
		BookName: "book.xlsx",
		Tables: []models.TableResult{
			{Name: "Sheet1!T1", Subtype: "crosstab", Region: &models.Region{R1: 1, C1: 1, R2: 4, C2: 3}, Matched: 2, Cells: 6},
			{Name: "Sheet1!T2", Subtype: "crosstab", Error: "boom"},
		},
		Messages: []models.Message{{Table: "Sheet1!T1", Text: "Table Labels: Columns"}},
	}

	var buf bytes.Buffer
	if err := RenderText(&buf, summary); err != nil {
		t.Fatalf("RenderText failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"book.xlsx", "Sheet1!T1", "R1C1:R4C3", "error: boom", "Information", "Table Labels: Columns"} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestToJSON(t *testing.T) {
	summary := &models.RunSummary{Tables: []models.TableResult{{Name: "T", Subtype: "s", Matched: 1}}}
	data, err := ToJSON(summary, true)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if !bytes.Contains(data, []byte("\n  ")) {
		t.Error("pretty output is not indented")
	}

	var decoded models.RunSummary
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Tables[0].Name != "T" || decoded.Tables[0].Matched != 1 {
		t.Errorf("decoded = %+v", decoded.Tables[0])
	}
}
