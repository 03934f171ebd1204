package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/rxndb-explorer/internal/infrastructure/dataset"
)

func newPreprocessCmd() *cobra.Command {
	var (
		datasetID string
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "preprocess <reactions.csv>",
		Short: "Convert a raw reaction CSV into YAML dataset entries",
		Long:  "Preprocess samples each row's pressure polynomial across its temperature\nrange and writes one YAML entry per reaction into the output directory.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := getContext(cmd)
			if err != nil {
				return err
			}

			p := &dataset.Preprocessor{
				DatasetID: datasetID,
				OutputDir: outputDir,
				Logger:    cliCtx.logger,
			}
			n, err := p.Run(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d entries to %s\n", n, outputDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetID, "dataset-id", "rxn", "prefix for generated entry ids")
	cmd.Flags().StringVar(&outputDir, "out", ".", "output directory for YAML entries")
	return cmd
}
