package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reviewscout/enrich-cli/internal/importer"
	"github.com/reviewscout/enrich-cli/internal/model"
)

var (
	importCategory string
	importLocation string
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import businesses from a CSV or XLSX file into history",
	Long:  "Reads a spreadsheet of businesses and saves it as a new extraction, ready to be enriched with `enrich --extraction <id>`.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		records, err := importer.ReadFile(args[0])
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return eris.Errorf("no business rows found in %s", args[0])
		}

		st, err := openHistory(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		ex := &model.Extraction{
			ID:        model.NewExtractionID(),
			Timestamp: time.Now().UTC(),
			SearchCriteria: model.SearchCriteria{
				Category: importCategory,
				Location: importLocation,
			},
			Businesses: records,
			Statistics: model.ExtractionStatistics{BusinessesFound: len(records)},
		}
		if err := st.Save(ctx, ex); err != nil {
			return eris.Wrap(err, "save extraction")
		}

		zap.L().Info("import finished",
			zap.String("extraction_id", ex.ID),
			zap.Int("businesses", len(records)),
		)
		fmt.Fprintln(cmd.OutOrStdout(), ex.ID)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importCategory, "category", "", "business category to record on the extraction")
	importCmd.Flags().StringVar(&importLocation, "location", "", "location to record on the extraction")
	rootCmd.AddCommand(importCmd)
}
