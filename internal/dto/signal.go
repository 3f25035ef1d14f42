package dto

import (
	"gopkg.in/telebot.v3"
)

type Direction string

const (
	DirectionBuy     Direction = "BUY"
	DirectionSell    Direction = "SELL"
	DirectionNeutral Direction = "NEUTRAL"
)

func (d Direction) Emoji() string {
	switch d {
	case DirectionBuy:
		return "🚀"
	case DirectionSell:
		return "🚨"
	case DirectionNeutral:
		return "📊"
	}
	return ""
}

// SuggestedAction is the sentence shown under "Suggested Action"; recheck is
// the timeframe's re-check window.
func (d Direction) SuggestedAction(recheck string) string {
	switch d {
	case DirectionBuy:
		return "Consider gradual buy entry. Re-check chart after " + recheck
	case DirectionSell:
		return "Consider partial or full sell. Re-check chart after " + recheck
	case DirectionNeutral:
		return "Hold current position. Re-check market after " + recheck
	}
	return ""
}

type Timeframe string

const (
	TimeframeShort  Timeframe = "SHORT"
	TimeframeMedium Timeframe = "MEDIUM"
	TimeframeLong   Timeframe = "LONG"
)

func (t Timeframe) Label() string {
	switch t {
	case TimeframeShort:
		return "Short-term"
	case TimeframeMedium:
		return "Mid-term"
	case TimeframeLong:
		return "Long-term"
	}
	return ""
}

func (t Timeframe) RecheckWindow() string {
	switch t {
	case TimeframeShort:
		return "1-4h re-check"
	case TimeframeMedium:
		return "4-12h re-check"
	case TimeframeLong:
		return "12-24h re-check"
	}
	return ""
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

type ADXDirection string

const (
	ADXUp      ADXDirection = "UP"
	ADXDown    ADXDirection = "DOWN"
	ADXNeutral ADXDirection = "NEUTRAL"
)

// TechnicalAnalysisSnapshot holds precomputed indicator readings. Values
// arrive as JSON numbers, numeric strings or null; any of them may be absent.
type TechnicalAnalysisSnapshot struct {
	RSI           interface{}  `json:"rsi,omitempty"`
	PercentB      interface{}  `json:"percent_b,omitempty"`
	ADX           interface{}  `json:"adx,omitempty"`
	ADXDirection  ADXDirection `json:"adx_direction,omitempty"`
	VWAPDeviation interface{}  `json:"vwap_deviation,omitempty"`
	OBVZScore     interface{}  `json:"obv_zscore,omitempty"`
	ATRPercent    interface{}  `json:"atr_percent,omitempty"`
}

type SignalDecision struct {
	Direction            Direction `json:"direction" validate:"oneof=BUY SELL NEUTRAL"`
	Timeframe            Timeframe `json:"timeframe" validate:"oneof=SHORT MEDIUM LONG"`
	RiskLevel            RiskLevel `json:"riskLevel" validate:"oneof=LOW MEDIUM HIGH"`
	Confidence           float64   `json:"confidence" validate:"gte=0,lte=1"`
	Reasoning            string    `json:"reasoning"`
	KeyFactors           []string  `json:"keyFactors"`
	ShouldGenerateSignal bool      `json:"shouldGenerateSignal"`
	SignalType           string    `json:"signalType"`
}

// SignalState is everything the composer needs for one token. The decision
// is checked by the composer, which degrades to a no-signal message instead
// of rejecting the request.
type SignalState struct {
	TokenSymbol       string                     `json:"token_symbol" validate:"required"`
	TokenAddress      string                     `json:"token_address" validate:"required"`
	CurrentPrice      float64                    `json:"current_price" validate:"gte=0"`
	SignalDecision    *SignalDecision            `json:"signal_decision,omitempty" validate:"-"`
	TechnicalAnalysis *TechnicalAnalysisSnapshot `json:"technical_analysis,omitempty"`
}

type SignalLevel int

const (
	SignalLevelLow    SignalLevel = 1
	SignalLevelMedium SignalLevel = 2
	SignalLevelHigh   SignalLevel = 3
)

type FinalSignal struct {
	Level    SignalLevel          `json:"level"`
	Title    string               `json:"title"`
	Message  string               `json:"message"`
	Priority RiskLevel            `json:"priority"`
	Tags     []string             `json:"tags"`
	Buttons  *telebot.ReplyMarkup `json:"buttons,omitempty"`
}
