package localization_test

import (
	"testing"
	"testing/fstest"

	"mindbridge/backend/internal/analysis"
	"mindbridge/backend/internal/localization"
	"mindbridge/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalizer_Fallbacks(t *testing.T) {
	fsys := fstest.MapFS{
		"en.json":   {Data: []byte(`{"greeting": "Hello", "only.en": "English only"}`)},
		"uk.json":   {Data: []byte(`{"greeting": "Привіт"}`)},
		"notes.txt": {Data: []byte(`ignored`)},
	}

	l, err := localization.NewLocalizer(fsys)
	require.NoError(t, err)

	assert.Equal(t, []string{"en", "uk"}, l.Languages())
	assert.Equal(t, "Привіт", l.GetString("uk", "greeting"))
	assert.Equal(t, "Привіт", l.GetString("uk-UA", "greeting"))
	assert.Equal(t, "English only", l.GetString("uk", "only.en"))
	assert.Equal(t, "Hello", l.GetString("fr", "greeting"))
	assert.Equal(t, "missing.key", l.GetString("en", "missing.key"))
}

func TestNewLocalizer_BadJSON(t *testing.T) {
	fsys := fstest.MapFS{"en.json": {Data: []byte(`{not json`)}}
	_, err := localization.NewLocalizer(fsys)
	assert.Error(t, err)
}

// TestDefault_CoversAllKeys guards against tip keys without an English text.
func TestDefault_CoversAllKeys(t *testing.T) {
	l, err := localization.Default()
	require.NoError(t, err)

	keys := []string{
		analysis.SuggestionFirstCheckIn,
		analysis.SuggestionBreathing,
		analysis.SuggestionSmallWins,
		analysis.SuggestionKeepGoing,
	}
	keys = append(keys, analysis.Tips(nil)...)
	for mood := 1; mood <= 5; mood++ {
		for stress := 1; stress <= 5; stress++ {
			for _, sleep := range []float64{4, 7, 9} {
				keys = append(keys, analysis.Tips(&models.CheckIn{Mood: mood, Stress: stress, Sleep: sleep})...)
			}
		}
	}

	for _, key := range keys {
		assert.NotEqual(t, key, l.GetString("en", key), "no English text for %s", key)
	}

	resolved := l.GetStrings("uk", []string{analysis.SuggestionBreathing, analysis.SuggestionKeepGoing})
	assert.Len(t, resolved, 2)
	assert.NotEqual(t, analysis.SuggestionKeepGoing, resolved[1])
}
