package coach

import (
	"context"
	"fmt"
	"strings"

	"aprovaguru/internal/guru"
	"aprovaguru/pkg/config"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// Service gera um plano de estudos personalizado a partir do snapshot de
// métricas do aluno, usando um único chat completion.
type Service struct {
	client *openai.Client
}

func NewService(cfg *config.Config) *Service {
	client := openai.NewClient(cfg.OpenAIKey)
	return &Service{
		client: client,
	}
}

func (s *Service) StudyPlan(ctx context.Context, snapshot *guru.Snapshot, recommendations []string) (string, error) {
	var prompt strings.Builder
	prompt.WriteString("Métricas atuais do aluno:\n")
	prompt.WriteString(fmt.Sprintf("- Progresso em questões: %.2f%%\n", snapshot.QuestionsProgress))
	prompt.WriteString(fmt.Sprintf("- Domínio de flashcards: %.2f%%\n", snapshot.FlashcardsProficiency))
	prompt.WriteString(fmt.Sprintf("- Progresso de leitura: %.2f%%\n", snapshot.ReadingProgress))
	prompt.WriteString(fmt.Sprintf("- Constância de estudo: %.2f%%\n", snapshot.StudyConsistency))
	prompt.WriteString(fmt.Sprintf("- Pontuação geral: %.2f\n", snapshot.OverallScore))
	prompt.WriteString(fmt.Sprintf("- Estimativa até a aprovação: %s\n", snapshot.TimeEstimate))
	if len(recommendations) > 0 {
		prompt.WriteString("Recomendações já geradas pelo sistema:\n")
		for _, rec := range recommendations {
			prompt.WriteString("- " + rec + "\n")
		}
	}

	chatReq := openai.ChatCompletionRequest{
		Model: openai.GPT4Dot1,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "Você é um mentor de preparação para concursos públicos. " +
					"A partir das métricas do aluno, monte um plano de estudos semanal curto e objetivo, " +
					"em português, com no máximo 6 itens, priorizando os pontos mais fracos.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt.String(),
			},
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		logrus.Errorf("Erro na chamada à OpenAI para o plano de estudos: %v", err)
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("resposta vazia da OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}
