package cli

import (
	"github.com/spf13/cobra"

	"github.com/turtacn/rxndb-explorer/internal/application/explorer"
	"github.com/turtacn/rxndb-explorer/internal/domain/reaction"
)

func newFilterCmd() *cobra.Command {
	var (
		reactants []string
		products  []string
		ids       []string
		types     []string
		method    string
		similar   bool
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter reactions by reactant and product phases",
		Long:  "Filter the reaction table by phase selections.  Phases may be given as\nabbreviations, full names, or chemical formulas; empty selections leave the\ncorresponding side unrestricted.",
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

			q := explorer.FilterQuery{
				IDs:       ids,
				Reactants: reactants,
				Products:  products,
				Method:    method,
			}
			for _, t := range types {
				q.Types = append(q.Types, reaction.Type(t))
			}

			var rows []reaction.Reaction
			if similar {
				rows, err = svc.FindSimilar(cmd.Context(), q)
			} else {
				rows, err = svc.Filter(cmd.Context(), q)
			}
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx.output, reactionHeaders, reactionRows(rows), rows)
		},
	}

	f := cmd.Flags()
	f.StringSliceVarP(&reactants, "reactant", "r", nil, "reactant phase (repeatable)")
	f.StringSliceVarP(&products, "product", "p", nil, "product phase (repeatable)")
	f.StringSliceVar(&ids, "id", nil, "restrict to these reaction ids (repeatable)")
	f.StringSliceVar(&types, "type", nil, "restrict to these reaction types (repeatable)")
	f.StringVarP(&method, "method", "m", "", "phase-combination method (and, or)")
	f.BoolVar(&similar, "similar", false, "widen the selection to reactions sharing its phases")
	return cmd
}
