package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/iafilius/PersistencePlot/src/diagram"
	"github.com/iafilius/PersistencePlot/src/intervals"
)

var (
	summaryHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	summaryCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	summaryBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	summaryFootStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func newSummaryCmd(out io.Writer, fl *plotFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary [flags] <intervals>",
		Short: "Print per-dimension feature counts and plot bounds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := intervals.ParseFormat(fl.format)
			if err != nil {
				return err
			}
			c, err := intervals.ParseFile(expandHome(args[0]), format)
			if err != nil {
				return err
			}
			ds, err := diagram.Group(c)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintln(out, renderSummary(ds))
			return nil
		},
	}
	cmd.Flags().StringVarP(&fl.format, "format", "f", "j", "interval file format: s (simple) or j (javaplex)")
	return cmd
}

func renderSummary(ds diagram.Dataset) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(summaryBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return summaryHeaderStyle
			}
			return summaryCellStyle
		}).
		Headers("dim", "finite", "infinite", "total")
	for _, cnt := range ds.Counts() {
		t.Row(
			strconv.Itoa(cnt.Dim),
			strconv.Itoa(cnt.Finite),
			strconv.Itoa(cnt.Infinite),
			strconv.Itoa(cnt.Finite+cnt.Infinite),
		)
	}
	foot := summaryFootStyle.Render(fmt.Sprintf("max_val=%g max_dim=%d", ds.MaxVal, ds.MaxDim))
	return t.String() + "\n" + foot
}
