package models

// RunSummary is the outcome of one modification run over a document.
type RunSummary struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name,omitempty"`
	// Tables lists every table that matched the subtype selection, in processing order.
	Tables []TableResult `json:"tables"`
	// Messages holds the advisory rows produced during the run.
	Messages []Message `json:"messages,omitempty"`
}

// TableResult describes what happened to one table.
type TableResult struct {
	// Name identifies the table (sheet and table name).
	Name string `json:"name"`
	// Subtype is the table subtype used for selection.
	Subtype string `json:"subtype"`
	// Region is the table's sheet bounds when the host is a worksheet.
	Region *Region `json:"region,omitempty"`
	// Matched is the number of selected rows or columns.
	Matched int `json:"matched"`
	// Cells is the number of cell visits on which every style operation ran.
	Cells int `json:"cells"`
	// Stopped is true when a plugin ended processing of the table early.
	Stopped bool `json:"stopped,omitempty"`
	// Error is the table-scope error, if any.
	Error string `json:"error,omitempty"`
}

// Message is one advisory row.
type Message struct {
	// Table is the table the message refers to, empty for run-level messages.
	Table string `json:"table,omitempty"`
	// Text is the message text.
	Text string `json:"text"`
}
