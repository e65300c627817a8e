package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reviewscout/enrich-cli/internal/history"
	"github.com/reviewscout/enrich-cli/internal/model"
)

var (
	enrichInputPath    string
	enrichOutputPath   string
	enrichExtractionID string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich business records with missing contact data",
	Long:  "Reads businesses from a JSON file or a saved extraction, runs the contact enrichment pipeline, and writes the result back.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if (enrichInputPath == "") == (enrichExtractionID == "") {
			return eris.New("exactly one of --input or --extraction is required")
		}

		enricher, opts := buildEnricher(cfg)

		var (
			records []model.BusinessRecord
			st      history.Store
		)
		if enrichInputPath != "" {
			data, err := os.ReadFile(enrichInputPath)
			if err != nil {
				return eris.Wrap(err, "read input file")
			}
			if err := json.Unmarshal(data, &records); err != nil {
				return eris.Wrap(err, "parse input file")
			}
		} else {
			var err error
			st, err = openHistory(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			ex, err := st.Load(ctx, enrichExtractionID)
			if err != nil {
				return err
			}
			if ex == nil {
				return eris.Errorf("extraction %s not found", enrichExtractionID)
			}
			records = ex.Businesses
		}

		result, err := enricher.Enrich(ctx, records, opts)
		if err != nil {
			return eris.Wrap(err, "enrich batch")
		}

		zap.L().Info("enrichment run finished",
			zap.Int("input", result.Stats.TotalInput),
			zap.Int("with_phone", result.Stats.WithPhone),
			zap.Int("with_website", result.Stats.WithWebsite),
			zap.Int("with_email", result.Stats.WithEmail),
			zap.Bool("success", result.Stats.Success),
		)

		if st != nil {
			if err := st.UpdateEnrichment(ctx, enrichExtractionID, result.Businesses, result.Stats); err != nil {
				return eris.Wrap(err, "update extraction")
			}
		}

		out := os.Stdout
		if enrichOutputPath != "" {
			f, err := os.Create(enrichOutputPath)
			if err != nil {
				return eris.Wrap(err, "create output file")
			}
			defer f.Close() //nolint:errcheck
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(result), "write result")
	},
}

func init() {
	enrichCmd.Flags().StringVar(&enrichInputPath, "input", "", "path to a JSON file with an array of business records")
	enrichCmd.Flags().StringVar(&enrichExtractionID, "extraction", "", "ID of a saved extraction to enrich in place")
	enrichCmd.Flags().StringVar(&enrichOutputPath, "output", "", "write the result JSON here instead of stdout")
	rootCmd.AddCommand(enrichCmd)
}
