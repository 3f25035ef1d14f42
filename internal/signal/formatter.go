package signal

import (
	"context"
	"fmt"
	"math"
	"strings"

	"token-signal-bot/internal/dto"
	"token-signal-bot/pkg/logger"
	"token-signal-bot/pkg/utils"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const noSignalTemplate = `🔍 **[WATCH] $%s**
📊 Status: **Monitoring** | 🎯 Market: **Neutral Range** | ⚠️ Risk: **Low**
⏰ **Next Check**: Regular monitoring mode

📈 **Analysis Summary**
Current technical indicators are within normal parameters. No significant trend breakouts or momentum shifts detected at this time.

🎯 **Suggested Action**
Continue monitoring market conditions. No immediate action required.

⚠️ DYOR - Always do your own research.`

const signalTemplate = `%s
Price: $%s Confidence: %d %%
Timeframe: %s (%s recommended)

🗒️ Market Snapshot
%s

🔍 Why?
%s

🎯 Suggested Action
%s

⚠️ DYOR - Always do your own research.`

// Composer turns a decision and its indicator snapshot into a FinalSignal.
type Composer struct {
	log      *logger.Logger
	buttons  ButtonProvider
	validate *goValidator.Validate
}

func NewComposer(log *logger.Logger, buttons ButtonProvider) *Composer {
	return &Composer{
		log:      log,
		buttons:  buttons,
		validate: goValidator.New(),
	}
}

// Compose never fails. A missing, declined or malformed decision yields the
// monitoring signal.
func (c *Composer) Compose(ctx context.Context, state dto.SignalState) dto.FinalSignal {
	c.log.InfoContext(ctx, "Starting signal formatting",
		logger.StringField("token_address", state.TokenAddress),
		logger.BoolField("has_analysis", state.SignalDecision != nil),
		logger.BoolField("has_technical_analysis", state.TechnicalAnalysis != nil),
	)

	decision := state.SignalDecision
	if decision == nil {
		c.log.InfoContext(ctx, "No signal decision found, returning no signal response",
			logger.StringField("token_address", state.TokenAddress))
		return c.noSignal(state)
	}

	if !decision.ShouldGenerateSignal {
		c.log.InfoContext(ctx, "Signal decision indicates no signal should be generated",
			logger.StringField("token_address", state.TokenAddress),
			logger.StringField("signal_type", decision.SignalType))
		return c.noSignal(state)
	}

	if err := c.validate.Struct(decision); err != nil {
		c.log.WarnContext(ctx, "Signal decision failed validation, returning no signal response",
			logger.StringField("token_address", state.TokenAddress),
			logger.ErrorField(err))
		return c.noSignal(state)
	}

	c.log.InfoContext(ctx, "Using simple template-based signal formatting",
		logger.StringField("token_address", state.TokenAddress),
		logger.StringField("direction", string(decision.Direction)))
	return c.compose(state, decision)
}

func (c *Composer) compose(state dto.SignalState, decision *dto.SignalDecision) dto.FinalSignal {
	title := fmt.Sprintf("%s %s %s - %s Risk",
		decision.Direction.Emoji(),
		decision.Direction,
		strings.ToLower(state.TokenSymbol),
		utils.CapitalizeWord(string(decision.RiskLevel)),
	)

	recheck := decision.Timeframe.RecheckWindow()
	message := fmt.Sprintf(signalTemplate,
		title,
		FormatPrice(state.CurrentPrice),
		ConfidencePercent(decision.Confidence),
		decision.Timeframe.Label(),
		recheck,
		decision.Reasoning,
		whySection(state.TechnicalAnalysis, decision.KeyFactors),
		decision.Direction.SuggestedAction(recheck),
	)

	return dto.FinalSignal{
		Level:    Level(decision.RiskLevel, decision.Confidence),
		Title:    title,
		Message:  message,
		Priority: decision.RiskLevel,
		Tags: []string{
			strings.ToLower(state.TokenSymbol),
			strings.ToLower(string(decision.Direction)),
			strings.ToLower(string(decision.RiskLevel)),
		},
		Buttons: c.buttons.Buttons(state.TokenAddress, state.TokenSymbol),
	}
}

func (c *Composer) noSignal(state dto.SignalState) dto.FinalSignal {
	symbol := strings.ToUpper(state.TokenSymbol)
	return dto.FinalSignal{
		Level:    dto.SignalLevelLow,
		Title:    "🔍 [WATCH] $" + symbol,
		Message:  fmt.Sprintf(noSignalTemplate, symbol),
		Priority: dto.RiskLow,
		Tags:     []string{strings.ToLower(state.TokenSymbol), "monitoring", "neutral"},
		Buttons:  c.buttons.Buttons(state.TokenAddress, state.TokenSymbol),
	}
}

// whySection prefers indicator bullets and falls back to the decision's own
// key factors. Both are capped at MaxBullets.
func whySection(ta *dto.TechnicalAnalysisSnapshot, keyFactors []string) string {
	lines := BulletPoints(ta)
	if len(lines) == 0 {
		lines = keyFactors
		if len(lines) > MaxBullets {
			lines = lines[:MaxBullets]
		}
	}

	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("• ")
		sb.WriteString(line)
	}
	return sb.String()
}

// Level maps risk and confidence to a severity.
func Level(risk dto.RiskLevel, confidence float64) dto.SignalLevel {
	switch {
	case risk == dto.RiskHigh || confidence >= 0.8:
		return dto.SignalLevelHigh
	case risk == dto.RiskMedium || confidence >= 0.6:
		return dto.SignalLevelMedium
	default:
		return dto.SignalLevelLow
	}
}

// FormatPrice renders p with every significant digit and no rounding.
func FormatPrice(p float64) string {
	return decimal.NewFromFloat(p).String()
}

// ConfidencePercent is confidence as a whole percentage, rounded half up.
func ConfidencePercent(confidence float64) int {
	return int(math.Floor(confidence*100 + 0.5))
}
