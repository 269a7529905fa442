package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"swap-ledger/internal/ledger"
	"swap-ledger/internal/storage/migrations"
	"swap-ledger/internal/storage/postgres"
)

var loadTokensFile string

// tokenSeed is one entry in the seed file.
type tokenSeed struct {
	Name     string `json:"name"`
	IsStable bool   `json:"is_stable"`
}

var loadTokensCmd = &cobra.Command{
	Use:   "load-tokens",
	Short: "Seed the token registry from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(loadTokensFile)
		if err != nil {
			return fmt.Errorf("read seed file: %w", err)
		}
		var seeds []tokenSeed
		if err := json.Unmarshal(data, &seeds); err != nil {
			return fmt.Errorf("parse seed file: %w", err)
		}

		pool, err := postgres.NewPool(ctx, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return err
		}

		svc := ledger.NewService(postgres.NewTokenStore(pool), postgres.NewTransactionStore(pool), logger)

		var created, existing int
		for _, seed := range seeds {
			status, err := svc.RegisterToken(ctx, seed.Name, seed.IsStable)
			if err != nil {
				return fmt.Errorf("register %s: %w", seed.Name, err)
			}
			if status.Created {
				created++
			} else {
				existing++
			}
			fmt.Fprintln(cmd.OutOrStdout(), status.Message)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d created, %d already present\n", created, existing)
		return nil
	},
}

func init() {
	loadTokensCmd.Flags().StringVar(&loadTokensFile, "file", "", "JSON file with [{\"name\": ..., \"is_stable\": ...}] entries")
	loadTokensCmd.MarkFlagRequired("file")
}
