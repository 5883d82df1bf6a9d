package guru

const maxRecommendations = 5

// Recommendations deriva a lista ordenada de recomendações a partir de um
// snapshot de métricas. Os blocos de regras são avaliados em ordem fixa e a
// concatenação é truncada nas 5 primeiras entradas: blocos posteriores (o
// bloco de pontuação geral inclusive) podem ser cortados em silêncio.
func Recommendations(s *Snapshot) []string {
	var recs []string

	switch {
	case s.QuestionsProgress < 30:
		recs = append(recs, "Resolva mais questões: você ainda está longe da meta de questões do seu concurso.")
	case s.QuestionsProgress < 60:
		recs = append(recs, "Bom ritmo de questões, mas aumente o volume semanal para alcançar a meta.")
	default:
		recs = append(recs, "Excelente volume de questões resolvidas, mantenha o ritmo até a prova.")
	}

	if s.FlashcardsProficiency < 40 {
		recs = append(recs, "Revise seus flashcards com mais frequência: a maioria ainda está em fase de aprendizado.")
	}
	if s.FlashcardsProficiency < 70 {
		recs = append(recs, "Priorize dominar os flashcards em revisão antes de adicionar novos baralhos.")
	}

	if s.ReadingProgress < 50 {
		recs = append(recs, "Avance na leitura dos guias de estudo: menos da metade do material foi concluída.")
	}

	if s.StudyConsistency < 50 {
		recs = append(recs, "Estude com mais regularidade: tente manter atividade em pelo menos metade dos dias.")
	}
	if s.StudyConsistency < 80 {
		recs = append(recs, "Monte uma rotina diária de estudos para aumentar sua constância.")
	}

	switch {
	case s.OverallScore < 40:
		recs = append(recs,
			"Seu preparo geral ainda está no início: foque primeiro em questões e constância.",
			"Considere montar um plano de estudos semanal com metas pequenas e mensuráveis.")
	case s.OverallScore < 70:
		recs = append(recs,
			"Você está no caminho certo: reforce os pontos fracos apontados acima.",
			"Simulados completos semanais vão acelerar sua evolução daqui em diante.")
	default:
		recs = append(recs,
			"Preparo sólido: mantenha revisões espaçadas para não perder o que já domina.",
			"Faça simulados no formato da banca para calibrar o tempo de prova.")
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}
