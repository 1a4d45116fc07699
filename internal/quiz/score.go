package quiz

// Score penalties.
const (
	penaltyPerMiss = 10
	penaltyPerHint = 3
)

// CalculateScore scores a finished quiz: 100, minus 10 per wrong answer,
// minus 3 per hint used, clamped to [0, 100].
func CalculateScore(correct, total, hints int) int {
	score := 100 - penaltyPerMiss*(total-correct) - penaltyPerHint*hints
	return min(max(score, 0), 100)
}
