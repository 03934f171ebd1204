package cli

import (
	"github.com/spf13/cobra"
)

func newGroupsCmd() *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Partition the reaction table into similarity groups",
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

			groups, err := svc.Groups(cmd.Context(), method)
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx.output, groupHeaders, groupRows(groups), groups)
		},
	}

	cmd.Flags().StringVarP(&method, "method", "m", "", "phase-combination method (and, or)")
	return cmd
}
