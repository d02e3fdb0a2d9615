package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"routemigrate/internal/audit"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderIssueTable lists one row per problem. Per-stop tags put the stop id in
// its own column.
func renderIssueTable(issues []audit.Issue) string {
	if len(issues) == 0 {
		return ""
	}
	var rows [][]string
	for _, issue := range issues {
		for _, problem := range issue.Problems {
			base := audit.BaseTag(problem)
			stop := ""
			if len(problem) > len(base) {
				stop = problem[len(base)+1:]
			}
			rows = append(rows, []string{issue.ID, humanizeTag(base), stop})
		}
	}
	return renderTable([]string{"Route", "Problem", "Stop"}, rows, nil)
}

// renderCountTable summarizes problem tags by frequency.
func renderCountTable(counts map[string]int, order []string) string {
	rows := make([][]string, 0, len(order))
	for _, tag := range order {
		rows = append(rows, []string{humanizeTag(tag), itoa(counts[tag])})
	}
	return renderTable([]string{"Problem", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
}
