package guru

import "math"

// Pesos fixos das sub-métricas na pontuação geral; somam 1.0 por construção.
const (
	weightQuestions   = 0.40
	weightFlashcards  = 0.25
	weightReading     = 0.20
	weightConsistency = 0.15
)

// OverallScore combina as quatro sub-métricas na pontuação geral de preparo.
// Função pura: mesmas entradas produzem sempre a mesma saída.
func OverallScore(m SubMetrics) float64 {
	overall := m.Questions*weightQuestions +
		m.Flashcards*weightFlashcards +
		m.Reading*weightReading +
		m.Consistency*weightConsistency

	if overall > 100 {
		overall = 100
	}
	return round2(overall)
}

func DistanceToGoal(overall float64) float64 {
	return round2(100 - overall)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
