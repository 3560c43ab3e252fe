package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A restored session must select the same words as the original given the
// same answers: every counter, including the priority score, survives the
// round trip.
func TestSnapshot_RoundTripSelectionIdentical(t *testing.T) {
	original, err := New(7, "d1", "Словарь", []string{"корова", "молоко", "хлеб", "собака", "кошка"})
	require.NoError(t, err)

	// Наработаем неровное состояние
	answers := []bool{true, false, true, true, false, true, true, false, true, true, true}
	for _, correct := range answers {
		next := original.NextWord()
		require.NotEqual(t, "", next)
		require.NoError(t, original.RecordAnswer(next, correct))
	}

	// Через JSON, как это делает хранилище
	payload, err := json.Marshal(original.Snapshot())
	require.NoError(t, err)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(payload, &snap))

	restored, err := Restore(snap)
	require.NoError(t, err)

	assert.Equal(t, original.SessionID, restored.SessionID)
	assert.Equal(t, original.CurrentWord, restored.CurrentWord)
	assert.Equal(t, original.TotalShown, restored.TotalShown)
	assert.Equal(t, original.Stats.CorrectAnswers, restored.Stats.CorrectAnswers)
	assert.Equal(t, original.Stats.IncorrectAnswers, restored.Stats.IncorrectAnswers)
	assert.Equal(t, original.Stats.WordsMastered, restored.Stats.WordsMastered)
	assert.Equal(t, original.Stats.WordsMasteredList, restored.Stats.WordsMasteredList)
	assert.True(t, original.Stats.StartedAt.Equal(restored.Stats.StartedAt))

	for text, w := range original.Words {
		require.Equal(t, *w, *restored.Words[text], "word %q drifted through the round trip", text)
	}

	// Идентичная последовательность ответов даёт идентичный выбор слов
	sameAnswers := []bool{true, false, true, true, true, false, true, true, true, true}
	for i, correct := range sameAnswers {
		a, b := original.NextWord(), restored.NextWord()
		require.Equal(t, a, b, "selection diverged at step %d", i)
		if a == "" {
			break
		}
		require.NoError(t, original.RecordAnswer(a, correct))
		require.NoError(t, restored.RecordAnswer(b, correct))
	}
}

func TestSnapshot_CopiesWords(t *testing.T) {
	s, err := New(1, "d1", "Словарь", []string{"корова"})
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.Words["корова"].CorrectCount = 99

	assert.Equal(t, 0, s.Words["корова"].CorrectCount, "snapshot must not alias live session state")
}

func TestRestore_Validation(t *testing.T) {
	_, err := Restore(Snapshot{})
	assert.Error(t, err)

	_, err = Restore(Snapshot{SessionID: "abc12345"})
	assert.ErrorIs(t, err, ErrEmptyPool)
}
