package adaptive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/drillbot/pkg/models"
)

func TestIsWordMastered(t *testing.T) {
	algo := New()

	tests := []struct {
		name string
		word models.Word
		want bool
	}{
		{
			name: "fresh word",
			word: models.Word{Text: "корова", PriorityScore: 100},
			want: false,
		},
		{
			name: "three correct in a row",
			word: models.Word{Text: "корова", ConsecutiveCorrect: 3, TotalAttempts: 3, CorrectCount: 3},
			want: true,
		},
		{
			name: "streak too short",
			word: models.Word{Text: "корова", ConsecutiveCorrect: 2, TotalAttempts: 5, CorrectCount: 5},
			want: false,
		},
		{
			name: "success rate below threshold",
			// 3 подряд в конце, но 3/8 правильных
			word: models.Word{Text: "корова", ConsecutiveCorrect: 3, TotalAttempts: 8, CorrectCount: 3, IncorrectCount: 5},
			want: false,
		},
		{
			name: "success rate exactly at threshold",
			word: models.Word{Text: "корова", ConsecutiveCorrect: 3, TotalAttempts: 4, CorrectCount: 3, IncorrectCount: 1},
			want: true,
		},
		{
			name: "long run with early errors",
			word: models.Word{Text: "корова", ConsecutiveCorrect: 4, TotalAttempts: 6, CorrectCount: 5, IncorrectCount: 1},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, algo.IsWordMastered(&tt.word))
		})
	}
}

// The predicate must be exactly the mastery condition: ApplyAnswer may only
// set IsMastered to what IsWordMastered computes from the counters.
func TestApplyAnswer_MasteryMatchesPredicate(t *testing.T) {
	algo := New()
	word := models.NewWord("молоко")

	answers := []bool{true, false, true, true, true, false, true, true, true}
	for _, correct := range answers {
		algo.ApplyAnswer(word, correct)
		assert.Equal(t, algo.IsWordMastered(word), word.IsMastered)
	}
}

func TestApplyAnswer_Correct(t *testing.T) {
	algo := New()
	word := models.NewWord("хлеб")

	algo.ApplyAnswer(word, true)

	assert.Equal(t, 1, word.ConsecutiveCorrect)
	assert.Equal(t, 1, word.CorrectCount)
	assert.Equal(t, 1, word.TotalAttempts)
	assert.Equal(t, 0, word.IncorrectCount)
	assert.Equal(t, 80, word.PriorityScore)
	assert.False(t, word.IsMastered)
}

func TestApplyAnswer_IncorrectResetsStreakAndMastery(t *testing.T) {
	algo := New()

	// Выученное слово: 3 подряд из 3 попыток
	word := &models.Word{
		Text:               "корова",
		ConsecutiveCorrect: 3,
		TotalAttempts:      3,
		CorrectCount:       3,
		IsMastered:         true,
		PriorityScore:      40,
	}

	algo.ApplyAnswer(word, false)

	assert.Equal(t, 0, word.ConsecutiveCorrect)
	assert.Equal(t, 4, word.TotalAttempts)
	assert.Equal(t, 1, word.IncorrectCount)
	assert.Equal(t, 3, word.CorrectCount)
	assert.False(t, word.IsMastered, "mastery must be revoked on any incorrect answer")
	assert.Equal(t, 70, word.PriorityScore)
}

func TestApplyAnswer_PriorityClamps(t *testing.T) {
	algo := New()

	low := &models.Word{Text: "a", PriorityScore: 10}
	algo.ApplyAnswer(low, true)
	assert.Equal(t, models.MinPriorityScore, low.PriorityScore)

	high := &models.Word{Text: "b", PriorityScore: 95}
	algo.ApplyAnswer(high, false)
	assert.Equal(t, models.MaxPriorityScore, high.PriorityScore)
}

func TestNextWord_NeverReturnsMastered(t *testing.T) {
	algo := New()
	words := map[string]*models.Word{
		"корова": {Text: "корова", ConsecutiveCorrect: 3, TotalAttempts: 3, CorrectCount: 3, IsMastered: true, PriorityScore: 100},
		"молоко": {Text: "молоко", PriorityScore: 1},
	}

	for i := 0; i < 10; i++ {
		next := algo.NextWord(words)
		require.Equal(t, "молоко", next)
	}
}

func TestNextWord_RecentErrorsFirst(t *testing.T) {
	algo := New()
	words := map[string]*models.Word{
		// Высокий приоритет, но без ошибок
		"молоко": {Text: "молоко", PriorityScore: 100},
		// Недавняя ошибка при низком приоритете — идёт первым
		"хлеб": {Text: "хлеб", PriorityScore: 10, IncorrectCount: 1, TotalAttempts: 1},
	}

	assert.Equal(t, "хлеб", algo.NextWord(words))
}

func TestNextWord_PriorityThenAttempts(t *testing.T) {
	algo := New()

	words := map[string]*models.Word{
		"a": {Text: "a", PriorityScore: 60},
		"b": {Text: "b", PriorityScore: 80},
	}
	assert.Equal(t, "b", algo.NextWord(words), "higher priority score wins")

	words = map[string]*models.Word{
		"a": {Text: "a", PriorityScore: 80, TotalAttempts: 4, CorrectCount: 4, ConsecutiveCorrect: 1},
		"b": {Text: "b", PriorityScore: 80, TotalAttempts: 2, CorrectCount: 2, ConsecutiveCorrect: 1},
	}
	assert.Equal(t, "b", algo.NextWord(words), "fewer attempts breaks the tie")
}

func TestNextWord_EmptyWhenAllMastered(t *testing.T) {
	algo := New()
	words := map[string]*models.Word{
		"корова": {Text: "корова", IsMastered: true},
		"молоко": {Text: "молоко", IsMastered: true},
	}
	assert.Equal(t, "", algo.NextWord(words))
	assert.True(t, algo.IsPoolComplete(words))
}

func TestProgress(t *testing.T) {
	algo := New()
	words := map[string]*models.Word{
		"a": {Text: "a", IsMastered: true, IncorrectCount: 1},
		"b": {Text: "b", IsMastered: true},
		"c": {Text: "c"},
		"d": {Text: "d", IncorrectCount: 2},
		"e": {Text: "e"},
	}

	p := algo.Progress(words)
	assert.Equal(t, 2, p.Mastered)
	assert.Equal(t, 5, p.Total)
	assert.Equal(t, 2, p.WithErrors)
	assert.Equal(t, 3, p.WithoutErrors)
	assert.Equal(t, 3, p.Remaining)
}
