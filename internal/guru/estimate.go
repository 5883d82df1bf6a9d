package guru

import (
	"fmt"
	"math"
)

// EstimateTime converte pontuação geral, constância e o nível de dificuldade
// do concurso em uma estimativa legível de tempo até a aprovação.
//
// A penalidade de constância (×1.2) só se aplica quando existe alguma
// atividade registrada; um aluno sem nenhum dado recebe o valor puro da
// tabela (ex.: pontuação zero em concurso de nível médio → "18 meses").
func EstimateTime(overallScore, consistency float64, difficultyTier string) string {
	weeks := baseWeeks(overallScore)
	weeks *= difficultyMultiplier(difficultyTier)

	if consistency > 50 {
		weeks *= 0.9
	} else if consistency > 0 {
		weeks *= 1.2
	}

	return formatWeeks(math.Round(weeks))
}

func baseWeeks(score float64) float64 {
	switch {
	case score >= 80:
		return 4
	case score >= 60:
		return 12
	case score >= 40:
		return 24
	case score >= 20:
		return 48
	default:
		return 72
	}
}

func difficultyMultiplier(tier string) float64 {
	switch tier {
	case "facil":
		return 0.8
	case "medio":
		return 1.0
	case "dificil":
		return 1.3
	default:
		return 1.0
	}
}

func formatWeeks(weeks float64) string {
	w := int(weeks)
	if w <= 4 {
		return pluralize(w, "semana", "semanas")
	}
	if w <= 96 {
		months := int(math.Round(float64(w) / 4))
		return pluralize(months, "mês", "meses")
	}
	years := int(math.Round(float64(w) / 52))
	return pluralize(years, "ano", "anos")
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
