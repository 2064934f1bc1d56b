package analysis

import (
	"mindbridge/backend/internal/config"
	"mindbridge/backend/internal/models"
)

// Suggestion and tip values are localization keys, resolved by the caller.
const (
	SuggestionFirstCheckIn = "suggestion.first_checkin"
	SuggestionBreathing    = "suggestion.breathing"
	SuggestionSmallWins    = "suggestion.small_wins"
	SuggestionKeepGoing    = "suggestion.keep_going"
)

var onboardingTips = []string{
	"tip.onboarding.first_checkin",
	"tip.onboarding.track_daily",
}

// Suggestion picks one coping suggestion for the latest check-in (nil if none).
func Suggestion(latest *models.CheckIn) string {
	switch {
	case latest == nil:
		return SuggestionFirstCheckIn
	case latest.Stress >= 4:
		return SuggestionBreathing
	case latest.Mood <= 2:
		return SuggestionSmallWins
	default:
		return SuggestionKeepGoing
	}
}

// Tips returns up to config.MaxTips distinct tip keys for the latest
// check-in, in rule order: mood, then stress, then sleep.
func Tips(latest *models.CheckIn) []string {
	if latest == nil {
		return append([]string(nil), onboardingTips...)
	}

	var tips []string
	tips = append(tips, moodTips(latest.Mood)...)
	tips = append(tips, stressTips(latest.Stress)...)
	tips = append(tips, sleepTips(latest.Sleep)...)
	return dedupe(tips, config.MaxTips)
}

func moodTips(mood int) []string {
	switch {
	case mood <= 1:
		return []string{"tip.mood.very_low.reach_out", "tip.mood.very_low.journal"}
	case mood == 2:
		return []string{"tip.mood.low.walk", "tip.mood.low.music"}
	case mood == 3:
		return []string{"tip.mood.neutral.joy", "tip.mood.neutral.small_win"}
	case mood == 4:
		return []string{"tip.mood.good.challenge", "tip.mood.good.share"}
	default:
		return []string{"tip.mood.great.momentum", "tip.mood.great.goals"}
	}
}

func stressTips(stress int) []string {
	switch {
	case stress >= 4:
		return []string{"tip.stress.high.breathing", "tip.stress.high.rest"}
	case stress == 3:
		return []string{"tip.stress.moderate.relax", "tip.stress.moderate.split_tasks"}
	default:
		return []string{"tip.stress.low.keep_up", "tip.stress.low.momentum"}
	}
}

func sleepTips(sleep float64) []string {
	switch {
	case sleep < 6:
		return []string{"tip.sleep.short.impact", "tip.sleep.short.tonight"}
	case sleep >= 8:
		return []string{"tip.sleep.good.rest"}
	default:
		return nil
	}
}

func dedupe(keys []string, limit int) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, limit)
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
		if len(out) == limit {
			break
		}
	}
	return out
}
