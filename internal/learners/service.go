package learners

import (
	"context"
	"errors"
	"fmt"

	"aprovaguru/internal/auth"

	"github.com/sirupsen/logrus"
)

var (
	ErrLearnerNotFound                    = errors.New("aluno não encontrado")
	ErrLearnerAlreadyExists               = errors.New("já existe um aluno com esse login")
	ErrInvalidCredentials                 = errors.New("login ou senha incorretos")
	ErrTelegramIDAlreadyLinkedToOtherUser = errors.New("essa conta do Telegram já está vinculada a outro aluno")
	ErrTelegramIDAlreadyLinkedToThisUser  = errors.New("essa conta do Telegram já está vinculada ao seu perfil")
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) RegisterLearner(ctx context.Context, login, password string, email *string) (*Learner, error) {
	existingLearner, err := s.repo.GetLearnerByLogin(ctx, login)
	if err != nil {
		logrus.Errorf("Erro ao verificar aluno existente '%s': %v", login, err)
		return nil, fmt.Errorf("erro interno ao verificar aluno")
	}
	if existingLearner != nil {
		return nil, ErrLearnerAlreadyExists
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		logrus.Errorf("Erro ao gerar hash de senha do aluno '%s': %v", login, err)
		return nil, fmt.Errorf("erro interno ao registrar aluno")
	}

	learner, err := s.repo.CreateLearner(ctx, login, hashedPassword, email)
	if err != nil {
		logrus.Errorf("Erro ao criar aluno '%s' no repositório: %v", login, err)
		return nil, fmt.Errorf("erro interno ao registrar aluno")
	}
	return learner, nil
}

func (s *Service) AuthenticateLearner(ctx context.Context, login, password string) (*Learner, error) {
	learner, err := s.repo.GetLearnerByLogin(ctx, login)
	if err != nil {
		logrus.Errorf("Erro ao buscar aluno '%s' para autenticação: %v", login, err)
		return nil, fmt.Errorf("erro interno ao autenticar")
	}
	if learner == nil {
		return nil, ErrInvalidCredentials
	}

	if !auth.CheckPasswordHash(password, learner.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return learner, nil
}

func (s *Service) GetLearnerByID(ctx context.Context, id int64) (*Learner, error) {
	learner, err := s.repo.GetLearnerByID(ctx, id)
	if err != nil {
		logrus.Errorf("Erro ao buscar aluno pelo ID %d: %v", id, err)
		return nil, fmt.Errorf("erro interno")
	}
	if learner == nil {
		return nil, ErrLearnerNotFound
	}
	return learner, nil
}

func (s *Service) LearnerExists(ctx context.Context, id int64) (bool, error) {
	return s.repo.LearnerExistsByID(ctx, id)
}

func (s *Service) LinkTelegramAccount(ctx context.Context, learnerID int64, telegramID int64) error {
	existingLearnerWithThisTelegramID, err := s.repo.GetLearnerByTelegramID(ctx, telegramID)
	if err != nil {
		logrus.Errorf("Erro ao verificar vínculo existente do telegram_id %d: %v", telegramID, err)
		return fmt.Errorf("erro interno ao verificar vínculo do Telegram")
	}
	if existingLearnerWithThisTelegramID != nil && existingLearnerWithThisTelegramID.ID != learnerID {
		logrus.Warnf("Tentativa de vincular telegram_id %d ao aluno %d, mas já está vinculado ao aluno %d",
			telegramID, learnerID, existingLearnerWithThisTelegramID.ID)
		return ErrTelegramIDAlreadyLinkedToOtherUser
	}

	learner, err := s.repo.GetLearnerByID(ctx, learnerID)
	if err != nil {
		logrus.Errorf("Erro ao buscar aluno %d para vincular telegram_id %d: %v", learnerID, telegramID, err)
		return fmt.Errorf("erro interno")
	}
	if learner == nil {
		logrus.Errorf("Aluno com ID %d não encontrado ao vincular telegram_id %d", learnerID, telegramID)
		return ErrLearnerNotFound
	}

	for _, existingTgID := range learner.TelegramIDs {
		if existingTgID == telegramID {
			logrus.Infof("Telegram ID %d já vinculado ao aluno %d.", telegramID, learnerID)
			return ErrTelegramIDAlreadyLinkedToThisUser
		}
	}

	_, err = s.repo.AddTelegramIDToLearner(ctx, learnerID, telegramID)
	if err != nil {
		logrus.Errorf("Erro ao vincular telegram_id %d ao aluno %d no repositório: %v", telegramID, learnerID, err)
		return fmt.Errorf("erro interno ao vincular Telegram")
	}

	logrus.Infof("Telegram ID %d vinculado com sucesso ao aluno %d", telegramID, learnerID)
	return nil
}

func (s *Service) FindLearnerByTelegramID(ctx context.Context, telegramID int64) (*Learner, error) {
	learner, err := s.repo.GetLearnerByTelegramID(ctx, telegramID)
	if err != nil {
		logrus.Errorf("Erro ao buscar aluno pelo telegram_id %d: %v", telegramID, err)
		return nil, fmt.Errorf("erro interno ao buscar pelo Telegram ID")
	}
	if learner == nil {
		return nil, ErrLearnerNotFound
	}
	return learner, nil
}
