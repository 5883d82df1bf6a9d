package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlashcardStatus(t *testing.T) {
	for _, raw := range []string{"not_started", "learning", "reviewing", "mastered"} {
		status, err := ParseFlashcardStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, FlashcardStatus(raw), status)
	}
}

func TestParseFlashcardStatusRejectsUnknownValues(t *testing.T) {
	for _, raw := range []string{"", "Mastered", "dominado", "done"} {
		_, err := ParseFlashcardStatus(raw)
		assert.Error(t, err)
	}
}
