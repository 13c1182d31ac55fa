package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/christopherklint97/worktime/internal/ledger"
)

// RenderStatus draws the most recent days of the ledger, today's
// progress and the running flex total.
func RenderStatus(records []ledger.DayRecord, today string, days int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("worktime status"))
	b.WriteString("\n")

	if len(records) == 0 {
		b.WriteString(subtitleStyle.Render("No work days recorded yet."))
		return b.String()
	}

	recent := records
	if days > 0 && len(recent) > days {
		recent = recent[len(recent)-days:]
	}
	b.WriteString(renderTable(recent, today))
	b.WriteString("\n\n")
	if len(recent) > 1 {
		b.WriteString(renderChart(recent))
		b.WriteString("\n\n")
	}

	for _, r := range records {
		if r.Date == today {
			b.WriteString(renderToday(r))
			b.WriteString("\n")
			break
		}
	}

	minutes, hours := ledger.Total(records)
	total := fmt.Sprintf("Total flex: %dmin (%.2fh)", minutes, hours)
	if minutes < 0 {
		b.WriteString(boxStyle.Render(errorStyle.Render(total)))
	} else {
		b.WriteString(boxStyle.Render(successStyle.Render(total)))
	}
	return b.String()
}

func renderTable(records []ledger.DayRecord, today string) string {
	columns := []table.Column{
		{Title: "Date", Width: 11},
		{Title: "Start", Width: 8},
		{Title: "End", Width: 8},
		{Title: "Overtime", Width: 8},
		{Title: "Type", Width: 9},
		{Title: "Break", Width: 5},
		{Title: "Work", Width: 5},
		{Title: "Status", Width: 7},
	}

	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		date := r.Date
		if date == today {
			date = "*" + date
		}
		rows = append(rows, table.Row{
			date,
			r.Start,
			r.End,
			fmt.Sprintf("%+d", r.Overtime),
			r.Type.String(),
			strconv.Itoa(r.Break),
			strconv.Itoa(r.Work),
			string(r.Status),
		})
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	styles.Selected = lipgloss.NewStyle()

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+3),
		table.WithFocused(false),
		table.WithStyles(styles),
	)
	return t.View()
}

func renderToday(r ledger.DayRecord) string {
	line := fmt.Sprintf("Today: %s since %s", r.Type, r.Start)
	if r.Overtime > 0 {
		return highlightStyle.Render(line) + "  " +
			successStyle.Render(fmt.Sprintf("done, %.2fh over", float64(r.Overtime)/60))
	}
	return highlightStyle.Render(line) + "  " +
		warningStyle.Render(fmt.Sprintf("%.2fh left", float64(-r.Overtime)/60))
}

// workedHours is the time actually worked, break excluded. Flex days
// count as zero.
func workedHours(r ledger.DayRecord) float64 {
	if r.Type == ledger.EntryFlex {
		return 0
	}
	minutes := r.Overtime + r.Work
	if minutes < 0 {
		return 0
	}
	return float64(minutes) / 60
}

func renderChart(records []ledger.DayRecord) string {
	width := len(records) * 4
	if width < 20 {
		width = 20
	}
	chart := barchart.New(width, 10)

	bars := make([]barchart.BarData, 0, len(records))
	for _, r := range records {
		label := r.Date
		if len(label) > 2 {
			label = label[len(label)-2:]
		}
		style := successStyle
		if r.Overtime < 0 {
			style = warningStyle
		}
		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: []barchart.BarValue{{Name: r.Date, Value: workedHours(r), Style: style}},
		})
	}

	chart.PushAll(bars)
	chart.Draw()
	return subtitleStyle.Render("Hours worked") + "\n" + chart.View()
}
