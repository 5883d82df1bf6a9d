package guru

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateTime(t *testing.T) {
	testCases := []struct {
		name           string
		overallScore   float64
		consistency    float64
		difficultyTier string
		expected       string
	}{
		{
			name:           "aluno sem atividade em concurso médio",
			overallScore:   0,
			consistency:    0,
			difficultyTier: "medio",
			expected:       "18 meses",
		},
		{
			name:           "aluno com tudo no máximo",
			overallScore:   100,
			consistency:    100,
			difficultyTier: "medio",
			expected:       "4 semanas",
		},
		{
			name:           "faixa alta com constância boa",
			overallScore:   85,
			consistency:    100,
			difficultyTier: "medio",
			expected:       "4 semanas",
		},
		{
			name:           "faixa 60-79 com constância boa",
			overallScore:   65,
			consistency:    100,
			difficultyTier: "medio",
			expected:       "3 meses",
		},
		{
			name:           "faixa 40-59 com constância boa",
			overallScore:   45,
			consistency:    100,
			difficultyTier: "medio",
			expected:       "6 meses",
		},
		{
			name:           "faixa 20-39 com constância boa",
			overallScore:   25,
			consistency:    100,
			difficultyTier: "medio",
			expected:       "11 meses",
		},
		{
			name:           "concurso fácil encurta a estimativa",
			overallScore:   0,
			consistency:    0,
			difficultyTier: "facil",
			expected:       "15 meses",
		},
		{
			name:           "concurso difícil alonga a estimativa",
			overallScore:   0,
			consistency:    0,
			difficultyTier: "dificil",
			expected:       "24 meses",
		},
		{
			name:           "constância baixa penaliza a estimativa",
			overallScore:   0,
			consistency:    30,
			difficultyTier: "medio",
			expected:       "22 meses",
		},
		{
			name:           "estimativa longa vira anos",
			overallScore:   0,
			consistency:    30,
			difficultyTier: "dificil",
			expected:       "2 anos",
		},
		{
			name:           "singular de mês",
			overallScore:   81,
			consistency:    0,
			difficultyTier: "dificil",
			expected:       "1 mês",
		},
		{
			name:           "nível desconhecido usa multiplicador neutro",
			overallScore:   0,
			consistency:    0,
			difficultyTier: "olimpico",
			expected:       "18 meses",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := EstimateTime(tc.overallScore, tc.consistency, tc.difficultyTier)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestFormatWeeks(t *testing.T) {
	assert.Equal(t, "1 semana", formatWeeks(1))
	assert.Equal(t, "4 semanas", formatWeeks(4))
	assert.Equal(t, "1 mês", formatWeeks(5))
	assert.Equal(t, "18 meses", formatWeeks(72))
	assert.Equal(t, "24 meses", formatWeeks(96))
	assert.Equal(t, "2 anos", formatWeeks(97))
	assert.Equal(t, "3 anos", formatWeeks(156))
}
