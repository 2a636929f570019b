package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <exported.csv>",
	Short: "Summarize an exported audit CSV",
	Long:  `Read a CSV produced by the export action and print how many images carry each defect label.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		r := csv.NewReader(f)
		records, err := r.ReadAll()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("%s: empty file", args[0])
		}
		if len(records[0]) < 2 || records[0][0] != "Image URL" {
			return fmt.Errorf("%s: not an audit export", args[0])
		}

		counts := make(map[string]int)
		var order []string
		images, flagged := 0, 0
		for _, rec := range records[1:] {
			if len(rec) < 2 {
				continue
			}
			images++
			if rec[1] == "" {
				continue
			}
			flagged++
			for _, label := range strings.Split(rec[1], "; ") {
				if counts[label] == 0 {
					order = append(order, label)
				}
				counts[label]++
			}
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Defect", "Images"})
		for _, label := range order {
			t.AppendRow(table.Row{label, counts[label]})
		}
		t.AppendFooter(table.Row{"Flagged / total", fmt.Sprintf("%d / %d", flagged, images)})
		t.SetStyle(table.StyleLight)
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
