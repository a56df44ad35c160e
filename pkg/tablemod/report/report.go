// Package report collects the advisory rows produced while tables are modified
// and renders them, together with the per-table outcome, as text or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
)

// Sink receives free-text advisory rows.
type Sink interface {
	AddRow(text string)
}

// Info is the information table of one run.
type Info struct {
	messages []models.Message
}

// NewInfo returns an empty information table.
func NewInfo() *Info {
	return &Info{}
}

// AddRow appends a run-level row.
func (in *Info) AddRow(text string) {
	in.messages = append(in.messages, models.Message{Text: text})
}

// ForTable returns a sink that tags every row with the table name.
func (in *Info) ForTable(name string) Sink {
	return tableSink{info: in, table: name}
}

// Messages returns the rows in the order they were added.
func (in *Info) Messages() []models.Message {
	return in.messages
}

// Len returns the number of rows.
func (in *Info) Len() int { return len(in.messages) }

type tableSink struct {
	info  *Info
	table string
}

func (s tableSink) AddRow(text string) {
	s.info.messages = append(s.info.messages, models.Message{Table: s.table, Text: text})
}

// Discard is a Sink that drops every row.
var Discard Sink = discard{}

type discard struct{}

func (discard) AddRow(string) {}

// RenderText writes the table outcomes and the information rows as text tables.
func RenderText(w io.Writer, summary *models.RunSummary) error {
	if summary.BookName != "" {
		if _, err := fmt.Fprintf(w, "Workbook: %s\n", summary.BookName); err != nil {
			return err
		}
	}

	tables := tablewriter.NewWriter(w)
	tables.Header("Table", "Subtype", "Region", "Matched", "Cells", "Status")
	for _, t := range summary.Tables {
		region := ""
		if t.Region != nil {
			region = t.Region.String()
		}
		status := "ok"
		switch {
		case t.Error != "":
			status = "error: " + t.Error
		case t.Stopped:
			status = "stopped"
		}
		if err := tables.Append([]string{t.Name, t.Subtype, region, strconv.Itoa(t.Matched), strconv.Itoa(t.Cells), status}); err != nil {
			return err
		}
	}
	if err := tables.Render(); err != nil {
		return err
	}

	if len(summary.Messages) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Information"); err != nil {
		return err
	}
	info := tablewriter.NewWriter(w)
	info.Header("Table", "Message")
	for _, m := range summary.Messages {
		if err := info.Append([]string{m.Table, m.Text}); err != nil {
			return err
		}
	}
	return info.Render()
}

// ToJSON serializes v, indented when pretty is set.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
