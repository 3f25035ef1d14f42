package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"token-signal-bot/internal/model"
	"token-signal-bot/internal/repository"
	"token-signal-bot/pkg/logger"
	"token-signal-bot/pkg/metrics"

	"github.com/mr-tron/base58"
)

const (
	solanaAddressLength = 32

	MessageSetupComplete  = "✅ Setup complete! Ask me anything about your tokens."
	MessageSetupCancelled = "Setup cancelled. Send /setup whenever you want to continue."
)

const (
	stepResultAccepted = "accepted"
	stepResultInvalid  = "invalid"
	stepResultFailed   = "failed"
)

// setupStep describes how one onboarding question is asked and answered.
type setupStep struct {
	prompt  string
	invalid string
	// parse validates the raw text and returns the profile change plus the
	// confirmation to send.
	parse func(text string) (repository.ProfileUpdate, string, bool)
}

var setupStepTable = map[model.SetupStep]setupStep{
	model.SetupStepWalletAddress: {
		prompt:  "Please enter your Solana wallet address.",
		invalid: "Please enter a valid wallet address.",
		parse: func(text string) (repository.ProfileUpdate, string, bool) {
			if !IsValidSolanaAddress(text) {
				return nil, "", false
			}
			return repository.WithWalletAddress(text), fmt.Sprintf("Wallet address set to %s!", text), true
		},
	},
	model.SetupStepAge: {
		prompt:  "How old are you?",
		invalid: "Please enter a valid age (numbers only).",
		parse: func(text string) (repository.ProfileUpdate, string, bool) {
			age, err := strconv.Atoi(text)
			if err != nil || age <= 0 || age >= 120 {
				return nil, "", false
			}
			return repository.WithAge(age), fmt.Sprintf("Age set to %d years!", age), true
		},
	},
	model.SetupStepRiskTolerance: {
		prompt:  "On a scale of 1 to 10, how much risk are you comfortable with?",
		invalid: "Please enter a number from 1 to 10.",
		parse: func(text string) (repository.ProfileUpdate, string, bool) {
			level, ok := parseScale(text)
			if !ok {
				return nil, "", false
			}
			return repository.WithRiskTolerance(level), fmt.Sprintf("Risk tolerance set to %d!", level), true
		},
	},
	model.SetupStepTotalAssets: {
		prompt:  "Roughly how much are your total assets worth in USD?",
		invalid: "Please enter a valid amount (numbers only).",
		parse: func(text string) (repository.ProfileUpdate, string, bool) {
			amount, ok := parseAmount(text)
			if !ok {
				return nil, "", false
			}
			return repository.WithTotalAssets(amount), fmt.Sprintf("Total assets set to $%d!", amount), true
		},
	},
	model.SetupStepCryptoAssets: {
		prompt:  "And how much of that is held in crypto (USD)?",
		invalid: "Please enter a valid amount (numbers only).",
		parse: func(text string) (repository.ProfileUpdate, string, bool) {
			amount, ok := parseAmount(text)
			if !ok {
				return nil, "", false
			}
			return repository.WithCryptoAssets(amount), fmt.Sprintf("Crypto assets set to $%d!", amount), true
		},
	},
	model.SetupStepPanicLevel: {
		prompt:  "On a scale of 1 to 10, how likely are you to panic sell when the market drops?",
		invalid: "Please enter a number from 1 to 10.",
		parse: func(text string) (repository.ProfileUpdate, string, bool) {
			level, ok := parseScale(text)
			if !ok {
				return nil, "", false
			}
			return repository.WithPanicLevel(level), fmt.Sprintf("Panic level set to %d!", level), true
		},
	},
}

// IsValidSolanaAddress reports whether s is a base58 encoded 32 byte key.
func IsValidSolanaAddress(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	decoded, err := base58.Decode(s)
	return err == nil && len(decoded) == solanaAddressLength
}

func parseScale(text string) (int, bool) {
	level, err := strconv.Atoi(text)
	if err != nil || level < 1 || level > 10 {
		return 0, false
	}
	return level, true
}

func parseAmount(text string) (int64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, strings.TrimPrefix(text, "$"))
	amount, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil || amount < 0 {
		return 0, false
	}
	return amount, true
}

// OnboardingService walks a user through the configured setup steps. While a
// step is pending, inbound text answers it instead of reaching the agent.
type OnboardingService interface {
	// Begin starts the sequence from its first step.
	Begin(ctx context.Context, userID string, r Replier) error
	// BeginIfNeeded starts the sequence only when no wallet address is
	// stored. It reports whether setup was started.
	BeginIfNeeded(ctx context.Context, userID string, r Replier) (bool, error)
	// Cancel stops a setup in progress. It reports whether one was pending.
	Cancel(ctx context.Context, userID string, r Replier) (bool, error)
	// HandleInput answers the pending step with text. It reports false when
	// nothing was pending, so the text should go to the agent.
	HandleInput(ctx context.Context, profile *model.UserProfile, text string, r Replier) (bool, error)
}

type onboardingService struct {
	log      *logger.Logger
	profiles repository.ProfileRepository
	metrics  *metrics.Recorder
	steps    []model.SetupStep
}

func NewOnboardingService(log *logger.Logger, profiles repository.ProfileRepository, recorder *metrics.Recorder, steps []string) OnboardingService {
	sequence := make([]model.SetupStep, 0, len(steps))
	for _, s := range steps {
		step := model.SetupStep(s)
		if _, ok := setupStepTable[step]; ok {
			sequence = append(sequence, step)
		}
	}
	if len(sequence) == 0 {
		sequence = []model.SetupStep{model.SetupStepWalletAddress}
	}

	return &onboardingService{
		log:      log,
		profiles: profiles,
		metrics:  recorder,
		steps:    sequence,
	}
}

func (s *onboardingService) Begin(ctx context.Context, userID string, r Replier) error {
	return s.advanceTo(ctx, userID, s.steps[0], r)
}

func (s *onboardingService) BeginIfNeeded(ctx context.Context, userID string, r Replier) (bool, error) {
	if profile := s.profiles.Get(ctx, userID); profile != nil && profile.WalletAddress != "" {
		return false, nil
	}
	return true, s.Begin(ctx, userID, r)
}

func (s *onboardingService) Cancel(ctx context.Context, userID string, r Replier) (bool, error) {
	profile := s.profiles.Get(ctx, userID)
	if profile.PendingStep() == "" {
		return false, nil
	}
	if s.profiles.Update(ctx, userID, repository.ClearWaitingForInput()) == nil {
		return true, r.Send(ctx, MessageSaveFailed)
	}
	return true, r.Send(ctx, MessageSetupCancelled)
}

func (s *onboardingService) HandleInput(ctx context.Context, profile *model.UserProfile, text string, r Replier) (bool, error) {
	pending := profile.PendingStep()
	if pending == "" {
		return false, nil
	}

	step, known := setupStepTable[pending]
	if !known {
		// Includes a stored "complete": not an input step, so release the user.
		s.log.WarnContext(ctx, "Clearing unknown pending setup step",
			logger.StringField("user_id", profile.UserID),
			logger.StringField("step", string(pending)))
		s.profiles.Update(ctx, profile.UserID, repository.ClearWaitingForInput())
		return false, nil
	}

	input := strings.TrimSpace(text)
	update, confirmation, ok := step.parse(input)
	if !ok {
		s.log.InfoContext(ctx, "Rejected setup input", logger.StringField("step", string(pending)))
		s.metrics.RecordOnboardingStep(string(pending), stepResultInvalid)
		return true, r.Send(ctx, step.invalid)
	}

	if s.profiles.Update(ctx, profile.UserID, update, repository.ClearWaitingForInput()) == nil {
		s.metrics.RecordOnboardingStep(string(pending), stepResultFailed)
		return true, r.Send(ctx, MessageSaveFailed)
	}
	s.metrics.RecordOnboardingStep(string(pending), stepResultAccepted)

	if err := r.Send(ctx, confirmation); err != nil {
		return true, err
	}
	return true, s.advanceTo(ctx, profile.UserID, s.next(pending), r)
}

// next returns the step configured after current, or complete.
func (s *onboardingService) next(current model.SetupStep) model.SetupStep {
	for i, step := range s.steps {
		if step == current && i+1 < len(s.steps) {
			return s.steps[i+1]
		}
	}
	return model.SetupStepComplete
}

func (s *onboardingService) advanceTo(ctx context.Context, userID string, step model.SetupStep, r Replier) error {
	if step == model.SetupStepComplete {
		s.log.InfoContext(ctx, "Setup complete", logger.StringField("user_id", userID))
		return r.Send(ctx, MessageSetupComplete)
	}

	if s.profiles.Update(ctx, userID, repository.WithWaitingForInput(step)) == nil {
		return r.Send(ctx, MessageSaveFailed)
	}
	return r.Send(ctx, setupStepTable[step].prompt)
}
