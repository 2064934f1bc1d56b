// Package wellness implements check-ins, burnout scoring and AI feedback for
// a single anonymous user.
package wellness

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"mindbridge/backend/internal/ai"
	"mindbridge/backend/internal/analysis"
	"mindbridge/backend/internal/config"
	"mindbridge/backend/internal/models"
	"mindbridge/backend/internal/storage"

	"github.com/rs/zerolog/log"
)

// Message keys of the canned replies used when there is nothing to analyse.
const (
	NoDataDashboard = "analysis.no_data.dashboard"
	NoDataAnalytics = "analysis.no_data.analytics"
)

const maxChatPromptLength = 2000

// ErrEmptyMessage is returned when an AI chat message is blank or too long.
var ErrEmptyMessage = errors.New("message cannot be empty")

// Generator produces AI text; *ai.Gateway satisfies it.
type Generator interface {
	Generate(ctx context.Context, p ai.Prompt) (ai.Reply, error)
}

// CheckInInput is the user-supplied part of a check-in.
type CheckInInput struct {
	Mood   int
	Sleep  float64
	Stress int
	Note   string
}

// DashboardReport is the AI reading of the current burnout window.
type DashboardReport struct {
	Analysis string `json:"analysis"`
	Provider string `json:"provider"`
	Score    int    `json:"score"`
	Status   string `json:"status"`
}

// AnalyticsReport is the AI reading of the whole check-in history.
type AnalyticsReport struct {
	Analysis string         `json:"analysis"`
	Provider string         `json:"provider"`
	Stats    analysis.Stats `json:"stats"`
}

type Service struct {
	store storage.Storage
	ai    Generator
	now   func() time.Time
}

func NewService(store storage.Storage, gen Generator) *Service {
	return &Service{store: store, ai: gen, now: time.Now}
}

// SubmitCheckIn validates and stores a new check-in dated now.
func (s *Service) SubmitCheckIn(ctx context.Context, userID string, in CheckInInput) (*models.CheckIn, error) {
	checkin := &models.CheckIn{
		UserID: userID,
		Mood:   in.Mood,
		Sleep:  in.Sleep,
		Stress: in.Stress,
		Note:   strings.TrimSpace(in.Note),
		Date:   s.now().UTC(),
	}
	if err := checkin.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.SaveCheckIn(ctx, checkin); err != nil {
		return nil, err
	}

	log.Debug().Str("anon_id", userID).Uint("checkin_id", checkin.ID).Msg("check-in saved")
	return checkin, nil
}

// History returns every check-in of the user, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]models.CheckIn, error) {
	return s.store.ListCheckIns(ctx, userID)
}

func (s *Service) window(ctx context.Context, userID string) ([]models.CheckIn, error) {
	since := s.now().Add(-config.ScoreWindow)
	return s.store.ListCheckInsSince(ctx, userID, since)
}

// Burnout scores the trailing seven days.
func (s *Service) Burnout(ctx context.Context, userID string) (analysis.Result, error) {
	checkins, err := s.window(ctx, userID)
	if err != nil {
		return analysis.Result{}, err
	}
	return analysis.Evaluate(checkins), nil
}

// Suggestion returns the suggestion key for the latest check-in.
func (s *Service) Suggestion(ctx context.Context, userID string) (string, error) {
	latest, err := s.store.LatestCheckIn(ctx, userID)
	if err != nil {
		return "", err
	}
	return analysis.Suggestion(latest), nil
}

// Tips returns the tip keys for the latest check-in.
func (s *Service) Tips(ctx context.Context, userID string) ([]string, error) {
	latest, err := s.store.LatestCheckIn(ctx, userID)
	if err != nil {
		return nil, err
	}
	return analysis.Tips(latest), nil
}

// DashboardAnalysis asks the AI gateway to comment on the weekly score. With
// no check-ins in the window it answers with a canned System reply.
func (s *Service) DashboardAnalysis(ctx context.Context, userID string) (*DashboardReport, error) {
	checkins, err := s.window(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := analysis.Evaluate(checkins)
	if len(checkins) == 0 {
		return &DashboardReport{
			Analysis: NoDataDashboard,
			Provider: ai.ProviderSystem,
			Score:    result.Score,
			Status:   result.Status,
		}, nil
	}

	reply, err := s.ai.Generate(ctx, ai.DashboardPrompt(result, analysis.Summarize(checkins)))
	if err != nil {
		return nil, fmt.Errorf("dashboard analysis: %w", err)
	}
	return &DashboardReport{
		Analysis: reply.Text,
		Provider: reply.Provider,
		Score:    result.Score,
		Status:   result.Status,
	}, nil
}

// Analytics asks the AI gateway for patterns across all check-ins.
func (s *Service) Analytics(ctx context.Context, userID string) (*AnalyticsReport, error) {
	checkins, err := s.store.ListCheckIns(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := analysis.Summarize(checkins)
	if len(checkins) == 0 {
		return &AnalyticsReport{Analysis: NoDataAnalytics, Provider: ai.ProviderSystem, Stats: stats}, nil
	}

	reply, err := s.ai.Generate(ctx, ai.AnalyticsPrompt(stats))
	if err != nil {
		return nil, fmt.Errorf("analytics: %w", err)
	}
	return &AnalyticsReport{Analysis: reply.Text, Provider: reply.Provider, Stats: stats}, nil
}

// Chat forwards a free-form message to the AI gateway.
func (s *Service) Chat(ctx context.Context, message string) (ai.Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return ai.Reply{}, ErrEmptyMessage
	}
	if utf8.RuneCountInString(message) > maxChatPromptLength {
		return ai.Reply{}, fmt.Errorf("%w: at most %d characters", ErrEmptyMessage, maxChatPromptLength)
	}
	return s.ai.Generate(ctx, ai.ChatPrompt(message))
}
