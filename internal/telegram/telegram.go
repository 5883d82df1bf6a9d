package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"aprovaguru/internal/learners"
	"aprovaguru/internal/linking"
	"aprovaguru/pkg/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Handler recebe updates do bot via webhook e envia mensagens aos alunos com
// conta do Telegram vinculada.
type Handler struct {
	bot            *tgbotapi.BotAPI
	learnerService *learners.Service
	linkingService *linking.Service
}

func NewHandler(cfg *config.Config, learnerService *learners.Service, linkingService *linking.Service) (*Handler, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("erro ao inicializar o bot do Telegram: %w", err)
	}

	logrus.Infof("Bot do Telegram autorizado como %s", bot.Self.UserName)

	if cfg.WebhookBaseURL != "" {
		webhookURL := strings.TrimRight(cfg.WebhookBaseURL, "/") + "/webhook"
		webhookConfig, err := tgbotapi.NewWebhook(webhookURL)
		if err != nil {
			return nil, fmt.Errorf("erro ao montar configuração do webhook: %w", err)
		}
		if _, err := bot.Request(webhookConfig); err != nil {
			return nil, fmt.Errorf("erro ao registrar o webhook do Telegram: %w", err)
		}
		logrus.Infof("Webhook do Telegram registrado em %s", webhookURL)
	} else {
		logrus.Warn("WEBHOOK_BASE_URL não configurada; o bot não receberá updates")
	}

	return &Handler{
		bot:            bot,
		learnerService: learnerService,
		linkingService: linkingService,
	}, nil
}

func (h *Handler) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := h.bot.Send(msg)
	return err
}

func (h *Handler) GetBotInfo() *tgbotapi.User {
	return &h.bot.Self
}

func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		logrus.Errorf("Erro ao decodificar update do Telegram: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	h.handleUpdate(r.Context(), update)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	switch {
	case text == "/start":
		h.reply(chatID, "Olá! Eu sou o bot do AprovaGuru. Use /vincular <código> para conectar sua conta e receber o resumo do seu prognóstico de aprovação.")
	case strings.HasPrefix(text, "/vincular"):
		h.handleLinkCommand(ctx, update, text)
	default:
		h.reply(chatID, "Comando não reconhecido. Use /vincular <código> para conectar sua conta.")
	}
}

func (h *Handler) handleLinkCommand(ctx context.Context, update tgbotapi.Update, text string) {
	chatID := update.Message.Chat.ID

	parts := strings.Fields(text)
	if len(parts) != 2 {
		h.reply(chatID, "Uso: /vincular <código>. Gere o código na área do aluno do AprovaGuru.")
		return
	}

	learnerID, err := h.linkingService.ValidateAndUseLinkToken(parts[1])
	if err != nil {
		h.reply(chatID, "Código de vínculo inválido ou expirado. Gere um novo na área do aluno.")
		return
	}

	telegramID := update.Message.From.ID
	if err := h.learnerService.LinkTelegramAccount(ctx, learnerID, telegramID); err != nil {
		logrus.Errorf("Erro ao vincular telegram_id %d ao aluno %d: %v", telegramID, learnerID, err)
		h.reply(chatID, "Não foi possível vincular sua conta. Tente novamente mais tarde.")
		return
	}

	h.reply(chatID, "Conta vinculada com sucesso! Você passará a receber o resumo periódico do seu prognóstico.")
}

func (h *Handler) reply(chatID int64, text string) {
	if err := h.SendMessage(chatID, text); err != nil {
		logrus.Errorf("Erro ao enviar mensagem ao chat %d: %v", chatID, err)
	}
}
