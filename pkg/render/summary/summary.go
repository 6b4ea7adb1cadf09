// Package summary prints run statistics and the algorithm catalog as tables.
package summary

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/sortviz/pkg/sorting"
	"github.com/Sumatoshi-tech/sortviz/pkg/step"
)

// StatsTable renders the statistics of one run. A zero duration omits the
// duration row.
func StatsTable(stats sorting.Stats, duration time.Duration) string {
	tbl := newTable()
	tbl.SetTitle("Run summary")
	tbl.AppendRow(table.Row{"Algorithm", stats.Algorithm.DisplayName()})
	tbl.AppendRow(table.Row{"Input size", humanize.Comma(int64(stats.InputSize))})
	tbl.AppendRow(table.Row{"Events", humanize.Comma(int64(stats.Events))})

	for _, role := range step.Roles() {
		if role == step.RoleNone {
			continue
		}

		if n, ok := stats.ByRole[role]; ok {
			tbl.AppendRow(table.Row{"  " + string(role), humanize.Comma(int64(n))})
		}
	}

	if duration > 0 {
		tbl.AppendRow(table.Row{"Duration", duration.Round(time.Millisecond).String()})
	}

	tbl.AppendFooter(table.Row{"Sorted", yesNo(stats.Sorted)})

	return tbl.Render()
}

// CatalogTable lists every algorithm with its observable granularity.
func CatalogTable() string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"ID", "Name", "Emits", "Events"})

	for _, algo := range sorting.Algorithms() {
		tbl.AppendRow(table.Row{string(algo), algo.DisplayName(), algo.Granularity(), algo.EventBound()})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d algorithms", len(sorting.Algorithms()))})

	return tbl.Render()
}

// WriteStats writes StatsTable followed by a newline.
func WriteStats(w io.Writer, stats sorting.Stats, duration time.Duration) error {
	return writeLine(w, StatsTable(stats, duration))
}

// WriteCatalog writes CatalogTable followed by a newline.
func WriteCatalog(w io.Writer) error {
	return writeLine(w, CatalogTable())
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	return tbl
}

func writeLine(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, s)
	if err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}
