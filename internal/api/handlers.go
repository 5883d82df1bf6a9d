package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"aprovaguru/internal/auth"
	"aprovaguru/internal/coach"
	"aprovaguru/internal/guru"
	"aprovaguru/internal/learners"
	"aprovaguru/internal/linking"
	"aprovaguru/internal/notifier"

	"github.com/sirupsen/logrus"
)

type Handler struct {
	learnerService  *learners.Service
	guruService     *guru.Service
	coachService    *coach.Service
	notifierService *notifier.Service
	linkingService  *linking.Service
	jwtSigningKey   string
	telegramBotName string
}

func NewHandler(
	learnerService *learners.Service,
	guruService *guru.Service,
	coachService *coach.Service,
	notifierService *notifier.Service,
	linkingService *linking.Service,
	jwtKey string,
	tgBotName string,
) *Handler {
	return &Handler{
		learnerService:  learnerService,
		guruService:     guruService,
		coachService:    coachService,
		notifierService: notifierService,
		linkingService:  linkingService,
		jwtSigningKey:   jwtKey,
		telegramBotName: tgBotName,
	}
}

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Login    string  `json:"login"`
	Password string  `json:"password"`
	Email    *string `json:"email,omitempty"`
}

type LearnerResponse struct {
	ID        int64     `json:"id"`
	Login     string    `json:"login"`
	Email     *string   `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (h *Handler) RegisterLearnerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Corpo da requisição inválido", http.StatusBadRequest)
		return
	}

	if req.Login == "" || req.Password == "" {
		http.Error(w, "Login e senha são obrigatórios", http.StatusBadRequest)
		return
	}

	learner, err := h.learnerService.RegisterLearner(r.Context(), req.Login, req.Password, req.Email)
	if err != nil {
		if errors.Is(err, learners.ErrLearnerAlreadyExists) {
			http.Error(w, "Já existe um aluno com esse login", http.StatusConflict)
		} else {
			logrus.Errorf("Erro ao registrar aluno '%s': %v", req.Login, err)
			http.Error(w, "Erro ao registrar aluno", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(LearnerResponse{
		ID:        learner.ID,
		Login:     learner.Login,
		Email:     learner.Email,
		CreatedAt: learner.CreatedAt,
		UpdatedAt: learner.UpdatedAt,
	})
}

func (h *Handler) AuthLoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Corpo da requisição inválido", http.StatusBadRequest)
		return
	}

	if req.Login == "" || req.Password == "" {
		http.Error(w, "Login e senha são obrigatórios", http.StatusBadRequest)
		return
	}

	learner, err := h.learnerService.AuthenticateLearner(r.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, learners.ErrInvalidCredentials) {
			http.Error(w, "Login ou senha incorretos", http.StatusUnauthorized)
		} else {
			logrus.Errorf("Erro ao autenticar aluno '%s': %v", req.Login, err)
			http.Error(w, "Erro de autenticação", http.StatusInternalServerError)
		}
		return
	}

	expirationTime := 24 * time.Hour
	tokenString, err := auth.GenerateJWTToken(learner.ID, h.jwtSigningKey, expirationTime)
	if err != nil {
		logrus.Errorf("Erro ao gerar token JWT: %v", err)
		http.Error(w, "Erro ao gerar o token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoginResponse{Token: tokenString})
}

func (h *Handler) learnerIDFromRequest(w http.ResponseWriter, r *http.Request) (int64, bool) {
	learnerID, ok := auth.GetLearnerIDFromContext(r.Context())
	if !ok {
		logrus.Error("Não foi possível extrair o learnerID do contexto da requisição")
		http.Error(w, "Erro de autorização: aluno não identificado no token", http.StatusUnauthorized)
		return 0, false
	}
	return learnerID, true
}

// writeGuruError traduz a taxonomia de erros do motor em respostas HTTP:
// aluno inexistente e falta de inscrição viram erros do cliente, o resto é
// erro interno.
func writeGuruError(w http.ResponseWriter, learnerID int64, err error) {
	switch {
	case errors.Is(err, guru.ErrLearnerNotFound):
		http.Error(w, "Aluno não encontrado", http.StatusNotFound)
	case errors.Is(err, guru.ErrNoActiveEnrollment):
		http.Error(w, "Inscreva-se em um concurso antes de consultar o prognóstico", http.StatusConflict)
	default:
		logrus.Errorf("Erro ao calcular prognóstico do aluno %d: %v", learnerID, err)
		http.Error(w, "Erro ao calcular o prognóstico", http.StatusInternalServerError)
	}
}

func (h *Handler) GuruMetricsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	learnerID, ok := h.learnerIDFromRequest(w, r)
	if !ok {
		return
	}

	snapshot, err := h.guruService.ComputeMetrics(r.Context(), learnerID)
	if err != nil {
		writeGuruError(w, learnerID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot)
}

func (h *Handler) GuruPrognosisHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	learnerID, ok := h.learnerIDFromRequest(w, r)
	if !ok {
		return
	}

	prognosis, err := h.guruService.ComputePrognosis(r.Context(), learnerID)
	if err != nil {
		writeGuruError(w, learnerID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prognosis)
}

func (h *Handler) GuruRefreshHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	learnerID, ok := h.learnerIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.guruService.Refresh(r.Context(), learnerID); err != nil {
		writeGuruError(w, learnerID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "atualizado"})
}

func (h *Handler) StudyPlanHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	learnerID, ok := h.learnerIDFromRequest(w, r)
	if !ok {
		return
	}

	snapshot, err := h.guruService.ComputeMetrics(r.Context(), learnerID)
	if err != nil {
		writeGuruError(w, learnerID, err)
		return
	}

	plan, err := h.coachService.StudyPlan(r.Context(), snapshot, guru.Recommendations(snapshot))
	if err != nil {
		logrus.Errorf("Erro ao gerar plano de estudos do aluno %d: %v", learnerID, err)
		http.Error(w, "Erro ao gerar o plano de estudos", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"study_plan": plan})
}

type SetDigestSettingsRequest struct {
	DigestPeriod string `json:"digest_period"`
	DayOfWeek    *int   `json:"day_of_week,omitempty"`
	Hour         int    `json:"hour"`
	Minute       int    `json:"minute"`
}

func (h *Handler) SetDigestSettingsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	learnerID, ok := h.learnerIDFromRequest(w, r)
	if !ok {
		return
	}

	var req SetDigestSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Corpo da requisição inválido", http.StatusBadRequest)
		return
	}

	settings, err := h.notifierService.SetDigestSettings(r.Context(), learnerID, req.DigestPeriod, req.DayOfWeek, req.Hour, req.Minute)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settings)
}

func (h *Handler) GetDigestSettingsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	learnerID, ok := h.learnerIDFromRequest(w, r)
	if !ok {
		return
	}

	settings, err := h.notifierService.GetDigestSettings(r.Context(), learnerID)
	if err != nil {
		http.Error(w, "Configurações de resumo não encontradas", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(settings)
}

func (h *Handler) DisableDigestSettingsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	learnerID, ok := h.learnerIDFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.notifierService.DisableDigestSettings(r.Context(), learnerID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "desativado"})
}

type TelegramLinkResponse struct {
	Token string `json:"token"`
	Link  string `json:"link,omitempty"`
}

func (h *Handler) GenerateTelegramLinkHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	learnerID, ok := h.learnerIDFromRequest(w, r)
	if !ok {
		return
	}

	token, err := h.linkingService.GenerateLinkToken(learnerID)
	if err != nil {
		logrus.Errorf("Erro ao gerar token de vínculo do aluno %d: %v", learnerID, err)
		http.Error(w, "Erro ao gerar o código de vínculo", http.StatusInternalServerError)
		return
	}

	resp := TelegramLinkResponse{Token: token}
	if h.telegramBotName != "" {
		resp.Link = fmt.Sprintf("https://t.me/%s?start=%s", h.telegramBotName, token)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
