package guru

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecommendationsNeverExceedTheCap(t *testing.T) {
	snapshots := []*Snapshot{
		{},
		{QuestionsProgress: 100, FlashcardsProficiency: 100, ReadingProgress: 100, StudyConsistency: 100, OverallScore: 100},
		{QuestionsProgress: 45, FlashcardsProficiency: 55, ReadingProgress: 40, StudyConsistency: 60, OverallScore: 50},
	}

	for _, snapshot := range snapshots {
		recs := Recommendations(snapshot)
		assert.NotEmpty(t, recs)
		assert.LessOrEqual(t, len(recs), maxRecommendations)
	}
}

func TestRecommendationsForStrugglingLearner(t *testing.T) {
	recs := Recommendations(&Snapshot{})

	expected := []string{
		"Resolva mais questões: você ainda está longe da meta de questões do seu concurso.",
		"Revise seus flashcards com mais frequência: a maioria ainda está em fase de aprendizado.",
		"Priorize dominar os flashcards em revisão antes de adicionar novos baralhos.",
		"Avance na leitura dos guias de estudo: menos da metade do material foi concluída.",
		"Estude com mais regularidade: tente manter atividade em pelo menos metade dos dias.",
	}

	assert.Equal(t, expected, recs)
}

func TestRecommendationsForStrongLearner(t *testing.T) {
	snapshot := &Snapshot{
		QuestionsProgress:     100,
		FlashcardsProficiency: 100,
		ReadingProgress:       100,
		StudyConsistency:      100,
		OverallScore:          100,
	}

	recs := Recommendations(snapshot)

	expected := []string{
		"Excelente volume de questões resolvidas, mantenha o ritmo até a prova.",
		"Preparo sólido: mantenha revisões espaçadas para não perder o que já domina.",
		"Faça simulados no formato da banca para calibrar o tempo de prova.",
	}

	assert.Equal(t, expected, recs)
}

func TestRecommendationsTruncateTheOverallBlock(t *testing.T) {
	snapshot := &Snapshot{
		QuestionsProgress:     45,
		FlashcardsProficiency: 55,
		ReadingProgress:       40,
		StudyConsistency:      60,
		OverallScore:          50,
	}

	recs := Recommendations(snapshot)

	assert.Len(t, recs, maxRecommendations)
	assert.Equal(t, "Você está no caminho certo: reforce os pontos fracos apontados acima.", recs[4])
	assert.NotContains(t, recs, "Simulados completos semanais vão acelerar sua evolução daqui em diante.")
}

func TestRecommendationsAreDeterministic(t *testing.T) {
	snapshot := &Snapshot{QuestionsProgress: 45, FlashcardsProficiency: 55, ReadingProgress: 40, StudyConsistency: 60, OverallScore: 50}
	assert.Equal(t, Recommendations(snapshot), Recommendations(snapshot))
}
