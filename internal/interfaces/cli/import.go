package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/rxndb-explorer/internal/infrastructure/database/postgres"
	"github.com/turtacn/rxndb-explorer/internal/infrastructure/dataset"
)

func newImportCmd() *cobra.Command {
	var (
		dirs    []string
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import YAML dataset entries into PostgreSQL",
		Long:  "Import loads one or more preprocessed YAML dataset directories and upserts\nevery reaction into the configured PostgreSQL database, so the server can run\nwith dataset.source set to postgres.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cliCtx, err := getContext(cmd)
			if err != nil {
				return err
			}
			if len(dirs) == 0 {
				dirs = cliCtx.cfg.Dataset.Dirs
			}

			repo, err := dataset.NewYAMLRepository(dirs, cliCtx.logger)
			if err != nil {
				return err
			}
			rows, err := repo.LoadRows(cmd.Context())
			if err != nil {
				return err
			}

			conn, err := postgres.NewConnection(cmd.Context(), cliCtx.cfg.Database, cliCtx.logger)
			if err != nil {
				return err
			}
			defer conn.Close()

			if migrate {
				if err := conn.RunMigrations(); err != nil {
					return err
				}
			}

			if err := postgres.NewReactionRepository(conn).ImportRows(cmd.Context(), rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d reactions\n", len(rows))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&dirs, "dir", nil, "YAML dataset directory (repeatable; default: dataset.dirs from config)")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "run schema migrations before importing")
	return cmd
}
