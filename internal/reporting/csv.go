// Package reporting renders stored transactions for export.
package reporting

import (
	"fmt"
	"strings"

	"swap-ledger/internal/domain"
)

// RenderCSV renders transactions as CSV string.
func RenderCSV(txs []*domain.Transaction) string {
	var sb strings.Builder

	// Header
	sb.WriteString("id,timestamp,token,amount,stable_coin,total_usd,created_at\n")

	// Rows
	for _, tx := range txs {
		sb.WriteString(fmt.Sprintf("%d,%s,%s,%v,%s,%v,%s\n",
			tx.ID,
			tx.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			tx.Token,
			tx.Amount,
			tx.StableCoin,
			tx.TotalUSD,
			tx.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		))
	}

	return sb.String()
}
