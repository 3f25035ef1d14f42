package repository

import (
	"fmt"
	"strings"

	"token-signal-bot/internal/dto"
	"token-signal-bot/internal/model"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

const (
	defaultSystemPrompt = `You are a crypto trading assistant for Solana tokens.
Answer in plain language, keep answers short, and format them for Telegram Markdown.
Never promise returns. When the user asks for a trade idea, state the risk clearly.`

	maxPromptAssets = 10
)

// buildSystemPrompt appends what is known about the user to the configured
// instruction.
func buildSystemPrompt(base string, profile *model.UserProfile, assets []dto.Asset) string {
	if strings.TrimSpace(base) == "" {
		base = defaultSystemPrompt
	}

	var sb strings.Builder
	sb.WriteString(base)

	if profile != nil {
		sb.WriteString("\n\n### User profile\n")
		if profile.WalletAddress != "" {
			sb.WriteString(fmt.Sprintf("- Wallet: %s\n", profile.WalletAddress))
		}
		if profile.Age != nil {
			sb.WriteString(fmt.Sprintf("- Age: %d\n", *profile.Age))
		}
		if profile.RiskTolerance != nil {
			sb.WriteString(fmt.Sprintf("- Risk tolerance (1-10): %d\n", *profile.RiskTolerance))
		}
		if profile.PanicLevel != nil {
			sb.WriteString(fmt.Sprintf("- Panic level (1-10): %d\n", *profile.PanicLevel))
		}
		if profile.TotalAssets != nil {
			sb.WriteString(fmt.Sprintf("- Total assets (USD): %d\n", *profile.TotalAssets))
		}
		if profile.CryptoAssets != nil {
			sb.WriteString(fmt.Sprintf("- Crypto assets (USD): %d\n", *profile.CryptoAssets))
		}
	}

	if len(assets) > 0 {
		sb.WriteString("\n### Wallet holdings\n")
		for i, asset := range assets {
			if i == maxPromptAssets {
				sb.WriteString(fmt.Sprintf("- ...and %d more\n", len(assets)-maxPromptAssets))
				break
			}
			sb.WriteString(fmt.Sprintf("- %s: %s (~$%s)\n",
				asset.Symbol(),
				decimal.NewFromFloat(asset.UIBalance()).Round(6).String(),
				decimal.NewFromFloat(asset.USDValue()).StringFixed(2),
			))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// buildContents maps the session history to Gemini contents. Gemini requires
// the conversation to start with a user turn, so leading model turns are
// dropped.
func buildContents(history []dto.ChatTurn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		if strings.TrimSpace(turn.Content) == "" {
			continue
		}
		role := genai.RoleUser
		if turn.Role == dto.ChatRoleAI {
			if len(contents) == 0 {
				continue
			}
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{genai.NewPartFromText(turn.Content)},
		})
	}
	return contents
}
