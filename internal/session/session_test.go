package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresWords(t *testing.T) {
	_, err := New(1, "d1", "Словарь", nil)
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func TestNew_InitializesPool(t *testing.T) {
	s, err := New(42, "d1", "Словарь", []string{"корова", "молоко", "хлеб"})
	require.NoError(t, err)

	assert.Len(t, s.SessionID, 8)
	assert.Equal(t, int64(42), s.UserID)
	assert.Len(t, s.Words, 3)
	assert.Equal(t, 3, s.Stats.TotalWords)
	assert.Nil(t, s.Stats.EndedAt)

	for text, w := range s.Words {
		assert.Equal(t, text, w.Text)
		assert.Equal(t, 100, w.PriorityScore)
		assert.False(t, w.IsMastered)
	}
}

// Drill the full pool to completion: three correct answers per word.
func TestSession_FullRunToCompletion(t *testing.T) {
	s, err := New(1, "d1", "Словарь", []string{"корова", "молоко", "хлеб"})
	require.NoError(t, err)

	answered := make(map[string]int)
	for i := 0; i < 100; i++ {
		next := s.NextWord()
		if next == "" {
			break
		}
		require.False(t, s.Words[next].IsMastered, "selection returned a mastered word")

		require.NoError(t, s.RecordAnswer(next, true))
		answered[next]++
	}

	assert.True(t, s.IsComplete())
	assert.Equal(t, "", s.NextWord())
	assert.Equal(t, 3, s.Stats.WordsMastered)
	assert.ElementsMatch(t, []string{"корова", "молоко", "хлеб"}, s.Stats.WordsMasteredList)

	// Ровно по 3 правильных ответа на слово
	for word, n := range answered {
		assert.Equal(t, 3, n, "word %q", word)
	}

	p := s.Progress()
	assert.Equal(t, p.Total, p.Mastered)
	assert.Equal(t, 0, p.Remaining)
}

func TestSession_MasteredWordNeverReturned(t *testing.T) {
	s, err := New(1, "d1", "Словарь", []string{"корова", "молоко", "хлеб"})
	require.NoError(t, err)

	// Отвечаем правильно на всё, пока "корова" не выучится
	for !s.Words["корова"].IsMastered {
		next := s.NextWord()
		require.NotEqual(t, "", next)
		require.NoError(t, s.RecordAnswer(next, true))
	}

	for i := 0; i < 50; i++ {
		next := s.NextWord()
		if next == "" {
			break
		}
		assert.NotEqual(t, "корова", next)
		require.NoError(t, s.RecordAnswer(next, true))
	}
}

func TestRecordAnswer_UnknownAndStaleWords(t *testing.T) {
	s, err := New(1, "d1", "Словарь", []string{"корова", "молоко"})
	require.NoError(t, err)

	// Слово не из пула
	err = s.RecordAnswer("собака", true)
	assert.ErrorIs(t, err, ErrUnknownWord)

	// Слово из пула, но не текущее
	current := s.NextWord()
	var other string
	if current == "корова" {
		other = "молоко"
	} else {
		other = "корова"
	}
	err = s.RecordAnswer(other, true)
	assert.ErrorIs(t, err, ErrUnknownWord)

	// Состояние сессии не изменилось
	assert.Equal(t, 0, s.Stats.CorrectAnswers)
	assert.Equal(t, 0, s.Words[other].TotalAttempts)
}

func TestRecordAnswer_MasteredListOncePerWord(t *testing.T) {
	s, err := New(1, "d1", "Словарь", []string{"корова"})
	require.NoError(t, err)

	// Выучиваем
	for i := 0; i < 3; i++ {
		require.Equal(t, "корова", s.NextWord())
		require.NoError(t, s.RecordAnswer("корова", true))
	}
	require.True(t, s.Words["корова"].IsMastered)

	// Сбиваем: слово всё ещё текущее, ошибка отменяет выученность
	require.NoError(t, s.RecordAnswer("корова", false))
	require.False(t, s.Words["корова"].IsMastered)

	// Выучиваем заново
	for !s.Words["корова"].IsMastered {
		require.Equal(t, "корова", s.NextWord())
		require.NoError(t, s.RecordAnswer("корова", true))
	}

	count := 0
	for _, w := range s.Stats.WordsMasteredList {
		if w == "корова" {
			count++
		}
	}
	assert.Equal(t, 1, count, "a word enters the mastered list at most once per session")
	assert.Equal(t, 1, s.Stats.WordsMastered)
}

func TestFinish_PartialRun(t *testing.T) {
	s, err := New(1, "d1", "Словарь", []string{"корова", "молоко"})
	require.NoError(t, err)

	next := s.NextWord()
	require.NoError(t, s.RecordAnswer(next, true))

	stats := s.Finish()
	require.NotNil(t, stats.EndedAt)
	assert.Equal(t, 1, stats.CorrectAnswers)
	assert.False(t, stats.IsComplete())
	assert.GreaterOrEqual(t, stats.DurationSeconds(), 0)
}

func TestCompleteIffProgressSaysSo(t *testing.T) {
	s, err := New(1, "d1", "Словарь", []string{"корова", "молоко"})
	require.NoError(t, err)

	for {
		p := s.Progress()
		assert.Equal(t, p.Mastered == p.Total, s.IsComplete())

		next := s.NextWord()
		if next == "" {
			break
		}
		require.NoError(t, s.RecordAnswer(next, true))
	}
	assert.True(t, s.IsComplete())
}
