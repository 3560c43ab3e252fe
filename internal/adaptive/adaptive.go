package adaptive

import (
	"sort"

	"github.com/example/drillbot/pkg/models"
)

// Algorithm implements in-session adaptive repetition: words are repeated
// until every one of them is mastered, ordered by a priority heuristic
type Algorithm struct {
	// Минимальная серия правильных ответов подряд
	ConsecutiveCorrect int
	// Минимальное количество попыток
	MinAttempts int
	// Минимальная доля правильных ответов (0..1)
	SuccessRate float64
	// Priority adjustments per answer, score stays within [1, 100]
	PriorityStepDown int
	PriorityStepUp   int
}

// New создает алгоритм с настройками по умолчанию
func New() *Algorithm {
	return &Algorithm{
		ConsecutiveCorrect: 3,
		MinAttempts:        3,
		SuccessRate:        0.75,
		PriorityStepDown:   20,
		PriorityStepUp:     30,
	}
}

// IsWordMastered reports whether a word satisfies the mastery criteria.
// All four must hold:
//  1. at least ConsecutiveCorrect correct answers in a row
//  2. at least MinAttempts attempts
//  3. at least MinAttempts correct answers
//  4. correct/total ratio of at least SuccessRate
//
// Checks 2 and 3 coincide numerically only while MinAttempts is used for
// both; they are kept separate on purpose.
func (a *Algorithm) IsWordMastered(word *models.Word) bool {
	if word.ConsecutiveCorrect < a.ConsecutiveCorrect {
		return false
	}
	if word.TotalAttempts < a.MinAttempts {
		return false
	}
	if word.CorrectCount < a.MinAttempts {
		return false
	}
	rate := float64(word.CorrectCount) / float64(word.TotalAttempts)
	return rate >= a.SuccessRate
}

// ApplyAnswer updates a word's counters after one real answer. Each call
// represents exactly one answer and must not be replayed.
func (a *Algorithm) ApplyAnswer(word *models.Word, correct bool) {
	if correct {
		word.ConsecutiveCorrect++
		word.CorrectCount++
		word.TotalAttempts++

		// Показывать реже
		word.PriorityScore -= a.PriorityStepDown
		if word.PriorityScore < models.MinPriorityScore {
			word.PriorityScore = models.MinPriorityScore
		}
	} else {
		// Сброс серии: выученность придется заработать заново
		word.ConsecutiveCorrect = 0
		word.IncorrectCount++
		word.TotalAttempts++

		// Показывать чаще
		word.PriorityScore += a.PriorityStepUp
		if word.PriorityScore > models.MaxPriorityScore {
			word.PriorityScore = models.MaxPriorityScore
		}
	}

	// Mastery is always recomputed from the counters, never toggled by a
	// separate code path. An incorrect answer therefore always clears it.
	word.IsMastered = a.IsWordMastered(word)
}

// NextWord picks the next word to show from the pool, or "" when every
// word is mastered.
//
// Selection order among unmastered words:
//  1. words with a recent error (incorrect answers and a broken streak)
//  2. higher priority score
//  3. fewer total attempts (shown less so far)
func (a *Algorithm) NextWord(words map[string]*models.Word) string {
	candidates := make([]*models.Word, 0, len(words))
	for _, w := range words {
		if !w.IsMastered {
			candidates = append(candidates, w)
		}
	}

	if len(candidates) == 0 {
		return ""
	}

	sort.Slice(candidates, func(i, j int) bool {
		wi, wj := candidates[i], candidates[j]

		if wi.HasRecentError() != wj.HasRecentError() {
			return wi.HasRecentError()
		}
		if wi.PriorityScore != wj.PriorityScore {
			return wi.PriorityScore > wj.PriorityScore
		}
		if wi.TotalAttempts != wj.TotalAttempts {
			return wi.TotalAttempts < wj.TotalAttempts
		}
		// Стабильный порядок при полном равенстве
		return wi.Text < wj.Text
	})

	return candidates[0].Text
}

// IsPoolComplete reports whether every word in the pool is mastered.
// An empty pool counts as complete.
func (a *Algorithm) IsPoolComplete(words map[string]*models.Word) bool {
	for _, w := range words {
		if !w.IsMastered {
			return false
		}
	}
	return true
}

// PoolProgress is a point-in-time aggregate over one session's pool
type PoolProgress struct {
	Mastered      int
	Total         int
	WithErrors    int
	WithoutErrors int
	Remaining     int
}

// Progress computes the pool aggregate on demand
func (a *Algorithm) Progress(words map[string]*models.Word) PoolProgress {
	p := PoolProgress{Total: len(words)}
	for _, w := range words {
		if w.IsMastered {
			p.Mastered++
		}
		if w.IncorrectCount > 0 {
			p.WithErrors++
		}
	}
	p.WithoutErrors = p.Total - p.WithErrors
	p.Remaining = p.Total - p.Mastered
	return p
}
