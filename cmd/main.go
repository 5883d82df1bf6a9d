package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aprovaguru/internal/activity"
	"aprovaguru/internal/api"
	"aprovaguru/internal/auth"
	"aprovaguru/internal/coach"
	"aprovaguru/internal/enrollments"
	"aprovaguru/internal/guru"
	"aprovaguru/internal/learners"
	"aprovaguru/internal/linking"
	"aprovaguru/internal/middleware"
	"aprovaguru/internal/notifier"
	"aprovaguru/internal/telegram"
	"aprovaguru/pkg/cache"
	"aprovaguru/pkg/config"
	"aprovaguru/pkg/db"

	"github.com/sirupsen/logrus"
)

func main() {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	cfg := config.LoadConfig()

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		logrus.Fatalf("Erro ao conectar ao banco de dados: %v", err)
	}
	defer database.Close()

	var snapshotCache guru.SnapshotCache
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			logrus.Warnf("Não foi possível conectar ao Redis, usando cache em memória: %v", err)
			snapshotCache = guru.NewMemoryCache()
		} else {
			defer redisClient.Close()
			snapshotCache = guru.NewRedisCache(redisClient)
		}
	} else {
		logrus.Warn("REDIS_ADDR não configurado, usando cache em memória")
		snapshotCache = guru.NewMemoryCache()
	}

	learnerRepo := learners.NewRepository(database)
	learnerService := learners.NewService(learnerRepo)
	enrollmentRepo := enrollments.NewRepository(database)
	activityRepo := activity.NewRepository(database)
	guruService := guru.NewService(learnerService, enrollmentRepo, activityRepo, snapshotCache)
	coachService := coach.NewService(cfg)
	linkingSvc := linking.NewService()
	notifierService := notifier.NewService(database, guruService, learnerRepo)

	var botUsername string
	mux := http.NewServeMux()

	if cfg.TelegramToken != "" {
		telegramHandler, err := telegram.NewHandler(cfg, learnerService, linkingSvc)
		if err != nil {
			logrus.Fatalf("Erro ao inicializar o bot do Telegram: %v", err)
		}
		botUsername = telegramHandler.GetBotInfo().UserName

		notifierService.StartDigestChecker(telegramHandler.SendMessage)

		mux.HandleFunc("/webhook", telegramHandler.HandleWebhook)
	} else {
		logrus.Warn("TELEGRAM_TOKEN não configurado; envio de resumos pelo Telegram desativado")
	}

	apiHandler := api.NewHandler(
		learnerService,
		guruService,
		coachService,
		notifierService,
		linkingSvc,
		cfg.JWTSigningKey,
		botUsername,
	)

	mux.Handle("/api/auth/login", middleware.CORSMiddleware(http.HandlerFunc(apiHandler.AuthLoginHandler)))
	mux.Handle("/api/auth/registro", middleware.CORSMiddleware(http.HandlerFunc(apiHandler.RegisterLearnerHandler)))

	guruMetricsHandler := http.HandlerFunc(apiHandler.GuruMetricsHandler)
	mux.Handle("/api/guru/metricas", middleware.CORSMiddleware(auth.JWTMiddleware(guruMetricsHandler, cfg.JWTSigningKey)))

	guruPrognosisHandler := http.HandlerFunc(apiHandler.GuruPrognosisHandler)
	mux.Handle("/api/guru/prognostico", middleware.CORSMiddleware(auth.JWTMiddleware(guruPrognosisHandler, cfg.JWTSigningKey)))

	guruRefreshHandler := http.HandlerFunc(apiHandler.GuruRefreshHandler)
	mux.Handle("/api/guru/atualizar", middleware.CORSMiddleware(auth.JWTMiddleware(guruRefreshHandler, cfg.JWTSigningKey)))

	studyPlanHandler := http.HandlerFunc(apiHandler.StudyPlanHandler)
	mux.Handle("/api/guru/plano-estudo", middleware.CORSMiddleware(auth.JWTMiddleware(studyPlanHandler, cfg.JWTSigningKey)))

	setDigestSettingsHandler := http.HandlerFunc(apiHandler.SetDigestSettingsHandler)
	mux.Handle("/api/resumos/configurar", middleware.CORSMiddleware(auth.JWTMiddleware(setDigestSettingsHandler, cfg.JWTSigningKey)))

	getDigestSettingsHandler := http.HandlerFunc(apiHandler.GetDigestSettingsHandler)
	mux.Handle("/api/resumos/consultar", middleware.CORSMiddleware(auth.JWTMiddleware(getDigestSettingsHandler, cfg.JWTSigningKey)))

	disableDigestSettingsHandler := http.HandlerFunc(apiHandler.DisableDigestSettingsHandler)
	mux.Handle("/api/resumos/desativar", middleware.CORSMiddleware(auth.JWTMiddleware(disableDigestSettingsHandler, cfg.JWTSigningKey)))

	linkTelegramHandler := http.HandlerFunc(apiHandler.GenerateTelegramLinkHandler)
	mux.Handle("/api/alunos/me/vincular-telegram", middleware.CORSMiddleware(auth.JWTMiddleware(linkTelegramHandler, cfg.JWTSigningKey)))

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: mux,
	}

	go func() {
		logrus.Infof("Servidor iniciado na porta %s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Erro ao iniciar o servidor: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Encerrando o servidor...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Fatalf("Erro ao encerrar o servidor: %v", err)
	}

	logrus.Info("Servidor encerrado")
}
