package linking

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrTokenNotFound         = errors.New("token de vínculo não encontrado ou expirado")
	ErrTokenAlreadyUsed      = errors.New("token de vínculo já foi utilizado")
	ErrFailedToGenerateToken = errors.New("não foi possível gerar o token de vínculo")
)

const (
	linkTokenTTL         = 10 * time.Minute
	linkTokenLengthBytes = 16
)

type LinkTokenInfo struct {
	LearnerID int64
	ExpiresAt time.Time
	Used      bool
}

type Service struct {
	tokens map[string]LinkTokenInfo
	mu     sync.RWMutex
}

func NewService() *Service {
	s := &Service{
		tokens: make(map[string]LinkTokenInfo),
	}
	go s.cleanupExpiredTokens()
	return s
}

func (s *Service) GenerateLinkToken(learnerID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bytes := make([]byte, linkTokenLengthBytes)
	if _, err := rand.Read(bytes); err != nil {
		logrus.Errorf("Erro ao gerar bytes aleatórios para o token de vínculo: %v", err)
		return "", ErrFailedToGenerateToken
	}
	token := hex.EncodeToString(bytes)

	s.tokens[token] = LinkTokenInfo{
		LearnerID: learnerID,
		ExpiresAt: time.Now().Add(linkTokenTTL),
		Used:      false,
	}
	logrus.Debugf("Token de vínculo '%s' gerado para o aluno %d, expira em %v", token, learnerID, s.tokens[token].ExpiresAt)
	return token, nil
}

func (s *Service) ValidateAndUseLinkToken(token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, exists := s.tokens[token]
	if !exists {
		logrus.Warnf("Tentativa de usar token de vínculo inexistente: %s", token)
		return 0, ErrTokenNotFound
	}

	if time.Now().After(info.ExpiresAt) {
		logrus.Warnf("Tentativa de usar token de vínculo expirado: %s (expirou em %v)", token, info.ExpiresAt)
		delete(s.tokens, token)
		return 0, ErrTokenNotFound
	}

	if info.Used {
		logrus.Warnf("Tentativa de reutilizar token de vínculo: %s", token)
		return 0, ErrTokenAlreadyUsed
	}

	info.Used = true
	s.tokens[token] = info

	logrus.Infof("Token de vínculo '%s' validado e utilizado para o aluno %d", token, info.LearnerID)
	return info.LearnerID, nil
}

func (s *Service) cleanupExpiredTokens() {
	ticker := time.NewTicker(linkTokenTTL / 2)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for token, info := range s.tokens {
			if now.After(info.ExpiresAt) || info.Used {
				delete(s.tokens, token)
			}
		}
		s.mu.Unlock()
	}
}
