package signal

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"token-signal-bot/internal/dto"
	"token-signal-bot/pkg/utils"

	"github.com/shopspring/decimal"
)

// Priority ranks how much a reading matters. Every indicator shares the same
// 0..3 scale so entries stay comparable across indicators.
type Priority int

const (
	PriorityNone   Priority = 0
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

// clampPriority keeps p inside the shared scale.
func clampPriority(p Priority) Priority {
	if p < PriorityNone {
		return PriorityNone
	}
	if p > PriorityHigh {
		return PriorityHigh
	}
	return p
}

// MaxBullets is how many classified indicators surface in a signal.
const MaxBullets = 3

// ClassifiedIndicator is one indicator reading turned into a sentence.
// Value is the tie-break key: absolute magnitude for indicators centered on
// zero, the raw reading otherwise.
type ClassifiedIndicator struct {
	Name      string
	Value     float64
	Condition string
	Priority  Priority
}

func (c ClassifiedIndicator) Bullet() string {
	return c.Name + " - " + c.Condition
}

func newIndicator(name string, value float64, condition string, priority Priority) ClassifiedIndicator {
	return ClassifiedIndicator{
		Name:      name,
		Value:     value,
		Condition: condition,
		Priority:  clampPriority(priority),
	}
}

// ClassifyIndicators evaluates every parseable field of ta independently, in
// the fixed order RSI, %B, ADX, VWAP, OBV, ATR. Missing or malformed fields are
// skipped.
func ClassifyIndicators(ta *dto.TechnicalAnalysisSnapshot) []ClassifiedIndicator {
	if ta == nil {
		return nil
	}

	var out []ClassifiedIndicator
	if n := utils.SafeParseNumber(ta.RSI); n.OK {
		out = append(out, classifyRSI(n.Value))
	}
	if n := utils.SafeParseNumber(ta.PercentB); n.OK {
		out = append(out, classifyPercentB(n.Value))
	}
	if n := utils.SafeParseNumber(ta.ADX); n.OK {
		out = append(out, classifyADX(n.Value, ta.ADXDirection))
	}
	if n := utils.SafeParseNumber(ta.VWAPDeviation); n.OK {
		out = append(out, classifyVWAPDeviation(n.Value))
	}
	if n := utils.SafeParseNumber(ta.OBVZScore); n.OK {
		out = append(out, classifyOBVZScore(n.Value))
	}
	if n := utils.SafeParseNumber(ta.ATRPercent); n.OK {
		out = append(out, classifyATRPercent(n.Value))
	}
	return out
}

// SelectTop orders by priority desc, then Value desc, and keeps at most n.
// Equal keys keep evaluation order.
func SelectTop(indicators []ClassifiedIndicator, n int) []ClassifiedIndicator {
	sorted := make([]ClassifiedIndicator, len(indicators))
	copy(sorted, indicators)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority > sorted[j].Priority
		}
		return sorted[i].Value > sorted[j].Value
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// BulletPoints returns the top indicators of ta formatted "name - condition".
func BulletPoints(ta *dto.TechnicalAnalysisSnapshot) []string {
	top := SelectTop(ClassifyIndicators(ta), MaxBullets)
	bullets := make([]string, 0, len(top))
	for _, indicator := range top {
		bullets = append(bullets, indicator.Bullet())
	}
	return bullets
}

func classifyRSI(rsi float64) ClassifiedIndicator {
	var (
		condition string
		priority  Priority
	)

	switch {
	case rsi >= 80:
		condition, priority = "extremely overbought conditions favor sellers", PriorityHigh
	case rsi >= 70:
		condition, priority = "overbought conditions favor sellers", PriorityMedium
	case rsi <= 20:
		condition, priority = "extremely oversold conditions favor buyers", PriorityHigh
	case rsi <= 30:
		condition, priority = "oversold conditions favor buyers", PriorityMedium
	case rsi >= 45 && rsi <= 55:
		condition, priority = "neutral momentum, no strong bias", PriorityNone
	case rsi > 50:
		condition, priority = "slightly bullish momentum", PriorityLow
	default:
		condition, priority = "slightly bearish momentum", PriorityLow
	}

	return newIndicator("RSI "+fixed(rsi, 0), rsi, condition, priority)
}

func classifyPercentB(percentB float64) ClassifiedIndicator {
	pct := fixed(percentB*100, 0)

	var (
		condition string
		priority  Priority
	)

	switch {
	case percentB >= 1.0:
		condition, priority = "price breaking above upper band (potential reversal)", PriorityMedium
	case percentB >= 0.8:
		condition, priority = "approaching overbought territory", PriorityLow
	case percentB <= 0.0:
		condition, priority = "price touching lower band (potential support)", PriorityMedium
	case percentB <= 0.2:
		condition, priority = "approaching oversold territory", PriorityLow
	default:
		condition, priority = "price within normal trading range ("+pct+"% of band)", PriorityNone
	}

	return newIndicator("Bollinger %B "+pct+"%", percentB, condition, priority)
}

func classifyADX(adx float64, direction dto.ADXDirection) ClassifiedIndicator {
	var (
		condition string
		priority  Priority
	)

	switch {
	case adx >= 50:
		condition, priority = "extremely strong trend - high conviction trade", PriorityHigh
	case adx >= 25:
		condition, priority = "strong trend developing", PriorityMedium
	case adx >= 15:
		condition, priority = "moderate trend strength building", PriorityLow
	default:
		condition, priority = "weak trend - range-bound market", PriorityNone
	}

	if adx >= 20 {
		switch dto.ADXDirection(strings.ToUpper(string(direction))) {
		case dto.ADXUp:
			condition += " (upward)"
		case dto.ADXDown:
			condition += " (downward)"
		}
	}

	return newIndicator("ADX "+fixed(adx, 0), adx, condition, priority)
}

func classifyVWAPDeviation(deviation float64) ClassifiedIndicator {
	abs := math.Abs(deviation)
	side := "discount"
	if deviation > 0 {
		side = "premium"
	}

	var (
		condition string
		priority  Priority
	)

	switch {
	case abs >= 10:
		condition, priority = "extreme "+side+" to volume-weighted average", PriorityHigh
	case abs >= 5:
		condition, priority = "significant "+side+" to VWAP", PriorityMedium
	case abs >= 2:
		condition, priority = "moderate "+side+" to fair value", PriorityLow
	default:
		condition, priority = "trading near volume-weighted fair value", PriorityNone
	}

	return newIndicator("VWAP Dev "+signedFixed(deviation, 1)+"%", abs, condition, priority)
}

func classifyOBVZScore(z float64) ClassifiedIndicator {
	abs := math.Abs(z)
	positive := z > 0

	var (
		condition string
		priority  Priority
	)

	switch {
	case abs >= 2.5:
		condition, priority = "extreme volume "+pick(positive, "accumulation", "distribution")+" detected", PriorityHigh
	case abs >= 1.5:
		condition, priority = "strong volume "+pick(positive, "buying", "selling")+" pressure", PriorityMedium
	case abs >= 0.5:
		condition, priority = "moderate volume "+pick(positive, "inflow", "outflow"), PriorityLow
	default:
		condition, priority = "balanced volume activity", PriorityNone
	}

	return newIndicator("Volume Flow "+signedFixed(z, 1)+"σ", abs, condition, priority)
}

func classifyATRPercent(atr float64) ClassifiedIndicator {
	var (
		condition string
		priority  Priority
	)

	switch {
	case atr >= 8:
		condition, priority = "extremely high volatility - large price swings expected", PriorityMedium
	case atr >= 5:
		condition, priority = "high volatility - increased risk and opportunity", PriorityLow
	case atr >= 3:
		condition, priority = "moderate volatility - normal price movement", PriorityNone
	default:
		condition, priority = "low volatility - range-bound price action", PriorityNone
	}

	return newIndicator("Volatility "+fixed(atr, 1)+"%", atr, condition, priority)
}

// fixed rounds the exact binary value of v, ties away from zero, and keeps
// the sign of negative values that round to zero ("-0").
func fixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', int(places), 64)
	}
	exact := decimal.RequireFromString(strconv.FormatFloat(math.Abs(v), 'f', 1074, 64))
	s := exact.Round(places).StringFixed(places)
	if v < 0 {
		return "-" + s
	}
	return s
}

func signedFixed(v float64, places int32) string {
	if v > 0 {
		return "+" + fixed(v, places)
	}
	return fixed(v, places)
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
