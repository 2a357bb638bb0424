package testutil

import "recworklist/internal/worklist"

// rowData holds everything rendered for one row.
type rowData struct {
	id       string
	series   string
	status   string
	title    string
	seriesT  string
	state    string
	updated  string
	detail   string
	noDataID bool
}

func defaultRow(id string) rowData {
	return rowData{
		id:     id,
		status: worklist.StatusUncheckedHideDetail,
		title:  "Program " + id,
		state:  "Waiting",
	}
}

// RowOption configures a row.
type RowOption func(*rowData)

// Series puts the row in a series group, with the series link text.
func Series(key, title string) RowOption {
	return func(r *rowData) {
		r.series = key
		r.seriesT = title
	}
}

// Status sets the persisted data-tr-status.
func Status(s string) RowOption {
	return func(r *rowData) { r.status = s }
}

// Title sets the episode link text.
func Title(s string) RowOption {
	return func(r *rowData) { r.title = s }
}

// State sets the backend job state cell.
func State(s string) RowOption {
	return func(r *rowData) { r.state = s }
}

// Updated sets the updated cell.
func Updated(s string) RowOption {
	return func(r *rowData) { r.updated = s }
}

// Detail sets the detail block.
func Detail(s string) RowOption {
	return func(r *rowData) { r.detail = s }
}

// IDFromCheckbox omits data-id so the id comes from the checkbox value.
func IDFromCheckbox() RowOption {
	return func(r *rowData) { r.noDataID = true }
}
