package ai

import (
	"fmt"
	"strconv"
	"strings"

	"mindbridge/backend/internal/analysis"
	"mindbridge/backend/internal/config"
)

const studyAssistantPersona = "You are a helpful study assistant for college students. " +
	"Help with academics, exams, stress management, and study tips. Be clear and practical."

// ChatPrompt wraps a free-form student message.
func ChatPrompt(message string) Prompt {
	return Prompt{
		System:    studyAssistantPersona,
		User:      message + "\n\nKeep your response brief and concise (2-3 sentences max).",
		MaxTokens: config.ChatReplyTokens,
	}
}

// DashboardPrompt asks for feedback on the weekly burnout result.
func DashboardPrompt(result analysis.Result, stats analysis.Stats) Prompt {
	var b strings.Builder
	b.WriteString("Based on the following wellness data for a college student:\n")
	fmt.Fprintf(&b, "- Burnout Score: %d/100 (Status: %s)\n", result.Score, result.Status)
	fmt.Fprintf(&b, "- Average Mood: %.1f/5\n", stats.AvgMood)
	fmt.Fprintf(&b, "- Average Stress: %.1f/5\n", stats.AvgStress)
	fmt.Fprintf(&b, "- Average Sleep: %.1f hours\n", stats.AvgSleep)
	fmt.Fprintf(&b, "- Check-ins Completed: %d this week\n\n", result.CheckIns)
	b.WriteString("Please provide:\n" +
		"1. Brief analysis of their current mental wellness status\n" +
		"2. Key concern areas (if any)\n" +
		"3. 2-3 specific, actionable recommendations for improvement\n" +
		"4. A motivational message\n\n" +
		"Keep the response concise and supportive. Focus on practical tips they can use today.")

	return Prompt{User: b.String(), MaxTokens: config.AnalysisTokens}
}

// AnalyticsPrompt asks for patterns across the whole check-in history.
func AnalyticsPrompt(stats analysis.Stats) Prompt {
	var b strings.Builder
	b.WriteString("User Mental Wellness Analytics:\n")
	fmt.Fprintf(&b, "- Total Check-ins: %d\n", stats.TotalCheckIns)
	fmt.Fprintf(&b, "- Average Mood: %.1f/5\n", stats.AvgMood)
	fmt.Fprintf(&b, "- Average Stress: %.1f/5\n", stats.AvgStress)
	fmt.Fprintf(&b, "- Average Sleep: %.1f hours\n", stats.AvgSleep)
	fmt.Fprintf(&b, "- Mood Trend (7 days): %s\n", joinInts(stats.MoodTrend))
	fmt.Fprintf(&b, "- Stress Trend (7 days): %s\n", joinInts(stats.StressTrend))
	fmt.Fprintf(&b, "- Recent Notes: %s\n\n", quoteNotes(stats.RecentNotes))
	b.WriteString("Please analyze this data and provide:\n" +
		"1. Key patterns or trends\n" +
		"2. Areas of concern\n" +
		"3. Positive progress\n" +
		"4. 2-3 specific actionable recommendations\n\n" +
		"Keep response brief and practical.")

	return Prompt{User: b.String(), MaxTokens: config.AnalysisTokens}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " → ")
}

func quoteNotes(notes []string) string {
	if len(notes) == 0 {
		return "None"
	}
	quoted := make([]string, len(notes))
	for i, n := range notes {
		quoted[i] = strconv.Quote(n)
	}
	return strings.Join(quoted, ", ")
}
