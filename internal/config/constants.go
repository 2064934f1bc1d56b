package config

import "time"

const (
	// Burnout scoring
	ScoreWindow         = 7 * 24 * time.Hour
	HighRiskBelow       = 40
	ModerateBelow       = 60
	DefaultScore        = 100
	MaxTips             = 6
	AnalyticsTrendDepth = 7

	// Auth
	TokenTTL    = 30 * 24 * time.Hour
	TokenIssuer = "mindbridge"

	// Chat
	HistoryLimit       = 50
	MaxMessageLength   = 1000
	MaxUsernameLength  = 40
	DefaultDisplayName = "Anonymous"
	FilterMask         = "***"

	// AI response caps (tokens)
	ChatReplyTokens = 256
	AnalysisTokens  = 512
)

// BannedWords are masked in chat text before it is stored or relayed.
var BannedWords = []string{"hate", "kill", "die", "harm"}

