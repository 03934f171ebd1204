package cli

import (
	"github.com/spf13/cobra"
)

func newPhasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "phases",
		Short: "List every phase appearing in the reaction table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := getContext(cmd)
			if err != nil {
				return err
			}
			svc, cleanup, err := newLocalService(cmd.Context(), cliCtx)
			if err != nil {
				return err
			}
			defer cleanup()

			lex := svc.Lexicon(cmd.Context())
			rows := make([][]string, 0)
			for _, abbrev := range svc.Phases(cmd.Context()) {
				name, formula := "", ""
				if entry, ok := lex.Entry(abbrev); ok {
					name, formula = entry.Name, entry.Formula
				}
				rows = append(rows, []string{abbrev, name, formula})
			}

			if cliCtx.output == "json" {
				return printJSON(cmd, map[string]interface{}{
					"phases":  svc.Phases(cmd.Context()),
					"initial": svc.InitialPhases(cmd.Context()),
				})
			}
			return printResult(cmd, cliCtx.output, []string{"PHASE", "NAME", "FORMULA"}, rows, nil)
		},
	}
}
