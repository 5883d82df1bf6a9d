package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aprovaguru/internal/guru"
	"aprovaguru/internal/learners"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type DigestSettings struct {
	ID             int64      `db:"id" json:"id"`
	LearnerID      int64      `db:"learner_id" json:"learner_id"`
	DigestPeriod   string     `db:"digest_period" json:"digest_period"`
	DayOfWeek      *int       `db:"day_of_week" json:"day_of_week,omitempty"`
	Hour           int        `db:"hour" json:"hour"`
	Minute         int        `db:"minute" json:"minute"`
	Enabled        bool       `db:"enabled" json:"enabled"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
	LastDigestSent *time.Time `db:"last_digest_sent" json:"last_digest_sent,omitempty"`
}

// Service agenda e envia, via Telegram, o resumo periódico do prognóstico de
// aprovação dos alunos que optaram pelo recebimento.
type Service struct {
	db          *sqlx.DB
	guruService *guru.Service
	learnerRepo *learners.Repository
}

func NewService(db *sqlx.DB, guruService *guru.Service, learnerRepo *learners.Repository) *Service {
	return &Service{
		db:          db,
		guruService: guruService,
		learnerRepo: learnerRepo,
	}
}

func (s *Service) SetDigestSettings(ctx context.Context, learnerID int64, digestPeriod string,
	dayOfWeek *int, hour, minute int) (*DigestSettings, error) {

	digestPeriod = strings.ToLower(digestPeriod)
	if digestPeriod != "diario" && digestPeriod != "semanal" {
		return nil, fmt.Errorf("período de resumo inválido: %s. Valores aceitos: diario, semanal", digestPeriod)
	}

	if hour < 0 || hour > 23 {
		return nil, fmt.Errorf("hora inválida: %d. Deve estar entre 0 e 23", hour)
	}
	if minute < 0 || minute > 59 {
		return nil, fmt.Errorf("minuto inválido: %d. Deve estar entre 0 e 59", minute)
	}

	if digestPeriod == "semanal" {
		if dayOfWeek == nil {
			return nil, fmt.Errorf("para resumos semanais é necessário informar o dia da semana")
		}
		if *dayOfWeek < 1 || *dayOfWeek > 7 {
			return nil, fmt.Errorf("dia da semana inválido: %d. Deve estar entre 1 (segunda) e 7 (domingo)", *dayOfWeek)
		}
	} else {
		dayOfWeek = nil
	}

	var existingID int64
	query := `SELECT id FROM digest_settings WHERE learner_id = $1`
	err := s.db.GetContext(ctx, &existingID, query, learnerID)

	now := time.Now()

	if err == nil {
		query = `
			UPDATE digest_settings
			SET digest_period = $1, day_of_week = $2, hour = $3, minute = $4,
				enabled = true, updated_at = $5
			WHERE id = $6
			RETURNING id, learner_id, digest_period, day_of_week, hour, minute,
				enabled, created_at, updated_at, last_digest_sent
		`

		var settings DigestSettings
		err = s.db.GetContext(ctx, &settings, query, digestPeriod, dayOfWeek, hour, minute, now, existingID)
		if err != nil {
			return nil, fmt.Errorf("erro ao atualizar configurações de resumo: %v", err)
		}

		return &settings, nil
	}

	query = `
		INSERT INTO digest_settings
		(learner_id, digest_period, day_of_week, hour, minute, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, true, $6, $7)
		RETURNING id, learner_id, digest_period, day_of_week, hour, minute,
			enabled, created_at, updated_at, last_digest_sent
	`

	var settings DigestSettings
	err = s.db.GetContext(ctx, &settings, query, learnerID, digestPeriod, dayOfWeek, hour, minute, now, now)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar configurações de resumo: %v", err)
	}

	return &settings, nil
}

func (s *Service) GetDigestSettings(ctx context.Context, learnerID int64) (*DigestSettings, error) {
	query := `
		SELECT id, learner_id, digest_period, day_of_week, hour, minute,
			enabled, created_at, updated_at, last_digest_sent
		FROM digest_settings
		WHERE learner_id = $1
	`

	var settings DigestSettings
	err := s.db.GetContext(ctx, &settings, query, learnerID)
	if err != nil {
		return nil, fmt.Errorf("configurações de resumo não encontradas: %v", err)
	}

	return &settings, nil
}

func (s *Service) DisableDigestSettings(ctx context.Context, learnerID int64) error {
	query := `
		UPDATE digest_settings
		SET enabled = false, updated_at = $1
		WHERE learner_id = $2
	`

	result, err := s.db.ExecContext(ctx, query, time.Now(), learnerID)
	if err != nil {
		return fmt.Errorf("erro ao desativar resumos: %v", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("configurações de resumo do aluno não encontradas")
	}

	return nil
}

func (s *Service) updateLastDigestSent(ctx context.Context, learnerID int64) error {
	query := `
		UPDATE digest_settings
		SET last_digest_sent = $1, updated_at = $1
		WHERE learner_id = $2
	`

	_, err := s.db.ExecContext(ctx, query, time.Now(), learnerID)
	if err != nil {
		return fmt.Errorf("erro ao registrar envio do último resumo: %v", err)
	}

	return nil
}

// FormatDigest monta a mensagem em Markdown enviada pelo bot.
func FormatDigest(prognosis *guru.Prognosis) string {
	var builder strings.Builder
	builder.WriteString("📊 *Seu prognóstico de aprovação*\n\n")
	builder.WriteString(fmt.Sprintf("Distância até a meta: %.2f%%\n", prognosis.DistanceToGoal))
	builder.WriteString(fmt.Sprintf("Estimativa até a aprovação: %s\n\n", prognosis.TimeEstimate))

	if len(prognosis.Recommendations) > 0 {
		builder.WriteString("*Recomendações:*\n")
		for i, rec := range prognosis.Recommendations {
			builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
		}
	}

	builder.WriteString("\nContinue firme nos estudos! 💪")
	return builder.String()
}

func (s *Service) StartDigestChecker(sendMessageFunc func(chatID int64, text string) error) {
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			s.checkAndSendDigests(sendMessageFunc)
		}
	}()

	logrus.Info("Mecanismo de envio periódico de resumos do prognóstico iniciado")
}

func (s *Service) checkAndSendDigests(sendMessageFunc func(chatID int64, text string) error) {
	ctx := context.Background()
	now := time.Now()

	query := `
		SELECT id, learner_id, digest_period, day_of_week, hour, minute,
			enabled, created_at, updated_at, last_digest_sent
		FROM digest_settings
		WHERE enabled = true
	`

	var settings []DigestSettings
	err := s.db.SelectContext(ctx, &settings, query)
	if err != nil {
		logrus.Errorf("Erro ao buscar configurações de resumo: %v", err)
		return
	}

	for _, setting := range settings {
		if now.Hour() != setting.Hour || now.Minute() != setting.Minute {
			continue
		}

		if setting.DigestPeriod == "semanal" {
			if setting.DayOfWeek == nil {
				continue
			}
			weekday := int(now.Weekday())
			if weekday == 0 {
				weekday = 7
			}
			if weekday != *setting.DayOfWeek {
				continue
			}
		}

		if setting.LastDigestSent != nil && now.Sub(*setting.LastDigestSent) < time.Hour {
			continue
		}

		s.sendDigest(ctx, setting.LearnerID, sendMessageFunc)
	}
}

func (s *Service) sendDigest(ctx context.Context, learnerID int64, sendMessageFunc func(chatID int64, text string) error) {
	learner, err := s.learnerRepo.GetLearnerByID(ctx, learnerID)
	if err != nil || learner == nil {
		logrus.Errorf("Erro ao buscar aluno %d para envio do resumo: %v", learnerID, err)
		return
	}

	if len(learner.TelegramIDs) == 0 {
		logrus.Infof("Aluno %d não possui Telegram vinculado, resumo não enviado", learnerID)
		return
	}

	prognosis, err := s.guruService.ComputePrognosis(ctx, learnerID)
	if err != nil {
		logrus.Errorf("Erro ao calcular prognóstico do aluno %d para o resumo: %v", learnerID, err)
		return
	}

	message := FormatDigest(prognosis)
	sent := false
	for _, telegramID := range learner.TelegramIDs {
		if err := sendMessageFunc(telegramID, message); err != nil {
			logrus.Errorf("Erro ao enviar resumo ao chat %d do aluno %d: %v", telegramID, learnerID, err)
			continue
		}
		sent = true
	}

	if sent {
		if err := s.updateLastDigestSent(ctx, learnerID); err != nil {
			logrus.Errorf("Erro ao registrar envio do resumo do aluno %d: %v", learnerID, err)
		}
		logrus.Infof("Resumo do prognóstico enviado ao aluno %d", learnerID)
	}
}
