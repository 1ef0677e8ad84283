package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/dealer-scout/internal/checkpoint"
	"github.com/sells-group/dealer-scout/internal/county"
	"github.com/sells-group/dealer-scout/internal/extract"
	"github.com/sells-group/dealer-scout/internal/input"
	"github.com/sells-group/dealer-scout/internal/pipeline"
	"github.com/sells-group/dealer-scout/internal/report"
	"github.com/sells-group/dealer-scout/pkg/geocode"
)

var (
	runURLs      []string
	runURLString string
	runURLFile   string
	runCSVFile   string
	runCSVColumn string
	runOutput    string
	runSessionID string
	runResume    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process a batch of dealership URLs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := zap.L()

		checkpoints := checkpoint.NewManager(cfg.Checkpoint.Dir, runSessionID, log)

		var urls []string
		if runResume {
			if err := checkpoints.Resume(); err != nil {
				return eris.Wrap(err, "resume session")
			}
		} else {
			var err error
			urls, err = input.Resolve(input.Sources{
				CLIValues:  runURLs,
				CLIString:  runURLString,
				URLFile:    runURLFile,
				CSVFile:    runCSVFile,
				CSVColumn:  runCSVColumn,
				ConfigURLs: cfg.Input.URLs,
			})
			if err != nil {
				return err
			}
		}

		outputFile := cfg.Output.File
		if runOutput != "" {
			outputFile = runOutput
		}
		writer, err := report.NewWriter(outputFile, cfg.Output.Timezone, log)
		if err != nil {
			return err
		}

		fingerprints, err := extract.DefaultFingerprints()
		if err != nil {
			return err
		}
		if cfg.Fingerprints.ProviderFile != "" {
			if err := fingerprints.LoadProviderFingerprints(cfg.Fingerprints.ProviderFile); err != nil {
				return err
			}
		}
		if cfg.Fingerprints.CreditFile != "" {
			if err := fingerprints.LoadCreditFingerprints(cfg.Fingerprints.CreditFile); err != nil {
				return err
			}
		}

		var counties *county.Service
		if cfg.Census.Enabled {
			geocoder := geocode.NewClient(geocode.WithBaseURL(cfg.Census.APIURL))
			counties = county.NewService(geocoder, log)
		}

		orch := pipeline.New(cfg, checkpoints, writer, counties, fingerprints, log)
		summary, err := orch.Run(ctx, urls)
		if err != nil {
			return eris.Wrap(err, "run batch")
		}

		cmd.Printf("Processed %d dealer(s): %d completed, %d failed (%.1fs)\n",
			summary.Total, summary.Completed, summary.Failed, summary.Elapsed.Seconds())
		return nil
	},
}

func init() {
	runCmd.Flags().StringSliceVar(&runURLs, "url", nil, "dealership URL (repeatable)")
	runCmd.Flags().StringVar(&runURLString, "urls", "", "space-separated dealership URLs")
	runCmd.Flags().StringVar(&runURLFile, "url-file", "", "newline-delimited URL file (# comments)")
	runCmd.Flags().StringVar(&runCSVFile, "csv-file", "", "CSV file containing URLs")
	runCmd.Flags().StringVar(&runCSVColumn, "csv-column", "website", "CSV column holding URLs")
	runCmd.Flags().StringVar(&runOutput, "output", "", "output markdown file (overrides config)")
	runCmd.Flags().StringVar(&runSessionID, "session-id", "", "explicit checkpoint session id")
	runCmd.Flags().BoolVar(&runResume, "resume", false, "resume the most recent checkpoint session")

	rootCmd.AddCommand(runCmd)
}
