package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect saved extractions",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved extractions, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openHistory(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		extractions, err := st.List(ctx, historyLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tCATEGORY\tLOCATION\tBUSINESSES\tENRICHED")
		for _, ex := range extractions {
			enriched := "-"
			if ex.EnrichedAt != nil {
				enriched = ex.EnrichedAt.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
				ex.ID,
				ex.Timestamp.Format("2006-01-02 15:04"),
				ex.SearchCriteria.Category,
				ex.SearchCriteria.Location,
				len(ex.Businesses),
				enriched,
			)
		}
		return w.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one extraction as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openHistory(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		ex, err := st.Load(ctx, args[0])
		if err != nil {
			return err
		}
		if ex == nil {
			return eris.Errorf("extraction %s not found", args[0])
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(ex), "write extraction")
	},
}

func init() {
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of extractions to list")
	historyCmd.AddCommand(historyListCmd, historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}
