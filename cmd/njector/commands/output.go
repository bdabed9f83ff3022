package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func parseFormat(s string) (string, error) {
	switch s {
	case formatTable, formatJSON:
		return s, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table or json)", s)
}

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

func printTable(w io.Writer, data *tableData) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader(data.headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
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
	return nil
}

func printPairs(w io.Writer, pairs [][2]string) error {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator(":")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	for _, p := range pairs {
		table.Append([]string{p[0], p[1]})
	}
	table.Render()
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
