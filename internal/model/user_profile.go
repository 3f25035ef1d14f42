package model

// SetupStep marks which onboarding input the bot is waiting for.
type SetupStep string

const (
	SetupStepWalletAddress SetupStep = "wallet_address"
	SetupStepAge           SetupStep = "age"
	SetupStepRiskTolerance SetupStep = "risk_tolerance"
	SetupStepTotalAssets   SetupStep = "total_assets"
	SetupStepCryptoAssets  SetupStep = "crypto_assets"
	SetupStepPanicLevel    SetupStep = "panic_level"
	SetupStepComplete      SetupStep = "complete"
)

// SetupSteps lists every step in canonical onboarding order.
func SetupSteps() []SetupStep {
	return []SetupStep{
		SetupStepWalletAddress,
		SetupStepAge,
		SetupStepRiskTolerance,
		SetupStepTotalAssets,
		SetupStepCryptoAssets,
		SetupStepPanicLevel,
		SetupStepComplete,
	}
}

func (s SetupStep) IsValid() bool {
	for _, step := range SetupSteps() {
		if s == step {
			return true
		}
	}
	return false
}

const MaxChatHistory = 50

type ChatMessage struct {
	MessageID string `json:"messageId"`
	Timestamp int64  `json:"timestamp"`
	Content   string `json:"content"`
}

// UserProfile is persisted as JSON under "user:<userId>". Timestamps are Unix
// milliseconds.
type UserProfile struct {
	UserID          string        `json:"userId"`
	WalletAddress   string        `json:"walletAddress,omitempty"`
	WaitingForInput *SetupStep    `json:"waitingForInput"`
	Age             *int          `json:"age,omitempty"`
	RiskTolerance   *int          `json:"riskTolerance,omitempty"`
	TotalAssets     *int64        `json:"totalAssets,omitempty"`
	CryptoAssets    *int64        `json:"cryptoAssets,omitempty"`
	PanicLevel      *int          `json:"panicLevel,omitempty"`
	ChatHistory     []ChatMessage `json:"chatHistory,omitempty"`
	LastUpdated     int64         `json:"lastUpdated"`
}

// PendingStep returns the step the user is expected to answer, or "" when no
// setup is in progress.
func (p *UserProfile) PendingStep() SetupStep {
	if p == nil || p.WaitingForInput == nil {
		return ""
	}
	return *p.WaitingForInput
}

func UserProfileKey(userID string) string {
	return "user:" + userID
}
