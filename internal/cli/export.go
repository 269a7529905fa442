package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"swap-ledger/internal/reporting"
	"swap-ledger/internal/storage/postgres"
)

var (
	exportCSVPath string
	exportToken   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored transactions as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pool, err := postgres.NewPool(ctx, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		store := postgres.NewTransactionStore(pool)

		txs, err := store.List(ctx)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		if exportToken != "" {
			txs, err = store.GetByToken(ctx, exportToken)
			if err != nil {
				return fmt.Errorf("list transactions for %s: %w", exportToken, err)
			}
		}

		csv := reporting.RenderCSV(txs)
		if exportCSVPath == "" {
			fmt.Fprint(cmd.OutOrStdout(), csv)
			return nil
		}
		if err := os.WriteFile(exportCSVPath, []byte(csv), 0o644); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d transactions to %s\n", len(txs), exportCSVPath)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data (stdout when empty)")
	exportCmd.Flags().StringVar(&exportToken, "token", "", "Only export transactions for one token")
}
