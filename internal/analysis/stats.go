package analysis

import (
	"math"

	"mindbridge/backend/internal/config"
	"mindbridge/backend/internal/models"
)

// Stats aggregates a user's check-in history for the AI prompts.
type Stats struct {
	AvgMood       float64  `json:"avgMood"`
	AvgStress     float64  `json:"avgStress"`
	AvgSleep      float64  `json:"avgSleep"`
	TotalCheckIns int      `json:"totalCheckins"`
	MoodTrend     []int    `json:"moodTrend"`
	StressTrend   []int    `json:"stressTrend"`
	RecentNotes   []string `json:"recentNotes,omitempty"`
}

// Summarize computes averages over all check-ins (newest first) and the trend
// series of the most recent few, oldest to newest.
func Summarize(checkins []models.CheckIn) Stats {
	stats := Stats{TotalCheckIns: len(checkins), MoodTrend: []int{}, StressTrend: []int{}}
	if len(checkins) == 0 {
		return stats
	}

	var mood, stress, sleep float64
	for _, c := range checkins {
		mood += float64(c.Mood)
		stress += float64(c.Stress)
		sleep += c.Sleep
	}
	n := float64(len(checkins))
	stats.AvgMood = round1(mood / n)
	stats.AvgStress = round1(stress / n)
	stats.AvgSleep = round1(sleep / n)

	recent := checkins
	if len(recent) > config.AnalyticsTrendDepth {
		recent = recent[:config.AnalyticsTrendDepth]
	}
	for i := len(recent) - 1; i >= 0; i-- {
		stats.MoodTrend = append(stats.MoodTrend, recent[i].Mood)
		stats.StressTrend = append(stats.StressTrend, recent[i].Stress)
	}
	for _, c := range recent {
		if c.Note != "" {
			stats.RecentNotes = append(stats.RecentNotes, c.Note)
		}
	}
	return stats
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
