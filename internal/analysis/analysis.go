// Package analysis turns recent check-ins into a burnout score, a status label
// and a trend. Everything here is a pure function of its input.
package analysis

import (
	"math"

	"mindbridge/backend/internal/config"
	"mindbridge/backend/internal/models"
)

const (
	StatusHighRisk = "High Risk"
	StatusModerate = "Moderate"
	StatusHealthy  = "Healthy"

	TrendStable    = "stable"
	TrendImproving = "improving"
	TrendDeclining = "declining"
)

// TrendDirection says which mood movement counts as "improving".
type TrendDirection int

const (
	// LatestBelowOldest labels a newest mood lower than the oldest as improving.
	LatestBelowOldest TrendDirection = iota
	// LatestAboveOldest labels a newest mood higher than the oldest as improving.
	LatestAboveOldest
)

// ImprovingWhen is the comparison used by Trend. The deployed behaviour calls a
// falling mood "improving"; flip this to LatestAboveOldest to change it.
const ImprovingWhen = LatestBelowOldest

const stressWeight = 16.67

// Result is the burnout summary returned to clients.
type Result struct {
	Score    int    `json:"score"`
	Status   string `json:"status"`
	Trend    string `json:"trend"`
	CheckIns int    `json:"checkins"`
}

// DayScore is the 0..100 wellness score of a single check-in.
func DayScore(c models.CheckIn) float64 {
	moodScore := float64(c.Mood) * 20
	stressScore := float64(6-c.Stress) * stressWeight
	sleepScore := math.Min(c.Sleep, 8) / 8 * 100
	return (moodScore + stressScore + sleepScore) / 3
}

// Score is the rounded mean DayScore. An empty window scores the default.
func Score(checkins []models.CheckIn) int {
	if len(checkins) == 0 {
		return config.DefaultScore
	}
	var total float64
	for _, c := range checkins {
		total += DayScore(c)
	}
	return int(math.Round(total / float64(len(checkins))))
}

// Status maps a score onto its label.
func Status(score int) string {
	switch {
	case score < config.HighRiskBelow:
		return StatusHighRisk
	case score < config.ModerateBelow:
		return StatusModerate
	default:
		return StatusHealthy
	}
}

// Trend compares the newest and oldest mood of a newest-first window.
func Trend(checkins []models.CheckIn) string {
	return TrendWith(checkins, ImprovingWhen)
}

// TrendWith is Trend with an explicit direction.
func TrendWith(checkins []models.CheckIn, dir TrendDirection) string {
	if len(checkins) < 2 {
		return TrendStable
	}
	newest := checkins[0].Mood
	oldest := checkins[len(checkins)-1].Mood

	improving := newest < oldest
	if dir == LatestAboveOldest {
		improving = newest > oldest
	}
	if improving {
		return TrendImproving
	}
	return TrendDeclining
}

// Evaluate computes the full burnout result for a newest-first window.
func Evaluate(checkins []models.CheckIn) Result {
	score := Score(checkins)
	return Result{
		Score:    score,
		Status:   Status(score),
		Trend:    Trend(checkins),
		CheckIns: len(checkins),
	}
}
