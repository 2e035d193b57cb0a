package main

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// tableData holds headers and rows for printTable.
type tableData struct {
	headers []string
	rows    [][]string
}

func newTableData(headers ...string) *tableData {
	return &tableData{headers: headers, rows: make([][]string, 0)}
}

func (t *tableData) addRow(row ...string) {
	t.rows = append(t.rows, row)
}

// printTable writes data as a borderless, left-aligned table.
func printTable(w io.Writer, data *tableData) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(data.headers)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	table.AppendBulk(data.rows)
	table.Render()
}
