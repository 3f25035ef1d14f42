package telegram

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AssetLine is one holding shown in a wallet summary.
type AssetLine struct {
	Symbol   string
	Balance  float64
	USDValue float64
}

// FormatWalletSummary formats a wallet address and its holdings as Markdown
// for Telegram.
func FormatWalletSummary(address string, holdings []AssetLine, total int) string {
	var builder strings.Builder

	builder.WriteString("👛 *Wallet*\n")
	builder.WriteString(fmt.Sprintf("`%s`\n", address))

	if len(holdings) == 0 {
		builder.WriteString("\nNo fungible tokens found.")
		return builder.String()
	}

	builder.WriteString("\n📦 *Top holdings*\n")
	for _, h := range holdings {
		builder.WriteString(fmt.Sprintf("• %s: %s", h.Symbol, decimal.NewFromFloat(h.Balance).Round(4).String()))
		if h.USDValue > 0 {
			builder.WriteString(fmt.Sprintf(" (~$%s)", decimal.NewFromFloat(h.USDValue).StringFixed(2)))
		}
		builder.WriteString("\n")
	}
	if total > len(holdings) {
		builder.WriteString(fmt.Sprintf("_…and %d more_", total-len(holdings)))
	}
	return strings.TrimRight(builder.String(), "\n")
}
