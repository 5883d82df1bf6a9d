package activity

import (
	"fmt"
	"time"
)

type FlashcardStatus string

const (
	StatusNotStarted FlashcardStatus = "not_started"
	StatusLearning   FlashcardStatus = "learning"
	StatusReviewing  FlashcardStatus = "reviewing"
	StatusMastered   FlashcardStatus = "mastered"
)

// ExamAttempt é um simulado concluído: mapa de id da questão para a resposta
// marcada, mais o momento da conclusão.
type ExamAttempt struct {
	Answers     map[string]string `json:"answers"`
	CompletedAt time.Time         `json:"completed_at"`
}

// WeeklyResponse é uma resposta a uma questão semanal.
type WeeklyResponse struct {
	CreatedAt time.Time `json:"created_at"`
}

// FlashcardState é o estágio de revisão de um flashcard.
type FlashcardState struct {
	Status FlashcardStatus `json:"status"`
}

// ReadingProgress é o avanço de leitura em um guia de estudos.
type ReadingProgress struct {
	Percentage float64 `json:"percentage"`
	Completed  bool    `json:"completed"`
}

func ParseFlashcardStatus(raw string) (FlashcardStatus, error) {
	switch FlashcardStatus(raw) {
	case StatusNotStarted, StatusLearning, StatusReviewing, StatusMastered:
		return FlashcardStatus(raw), nil
	}
	return "", fmt.Errorf("status de flashcard desconhecido: %q", raw)
}
