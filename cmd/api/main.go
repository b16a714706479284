package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/preventia/duerp-crm/internal/config"
	"github.com/preventia/duerp-crm/internal/entity"
	"github.com/preventia/duerp-crm/internal/infra/database"
	"github.com/preventia/duerp-crm/internal/infra/http/handlers"
	"github.com/preventia/duerp-crm/internal/infra/http/middleware"
	"github.com/preventia/duerp-crm/internal/infra/mail"
	"github.com/preventia/duerp-crm/internal/infra/queue"
	"github.com/preventia/duerp-crm/internal/infra/storage"
	"github.com/preventia/duerp-crm/internal/notify"
	"github.com/preventia/duerp-crm/internal/presence"
	"github.com/preventia/duerp-crm/internal/usecase"
	"github.com/preventia/duerp-crm/pkg/logger"
)

func main() {
	logger.InitLogger()

	cfg, err := config.NewLoadedConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Configuration invalide")
	}

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Connexion base de données impossible")
	}
	defer db.Close()

	if err := database.RunMigrations(db, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Migrations en échec")
	}

	rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQPUser, cfg.AMQPPass, cfg.AMQPHost, cfg.AMQPPort)
	if err != nil {
		log.Fatal().Err(err).Msg("Connexion RabbitMQ impossible")
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// Repositories
	leadRepo := database.NewLeadRepository(db)
	clientRepo := database.NewClientRepository(db)
	statusRepo := database.NewStatusRepository(db)
	commentRepo := database.NewCommentRepository(db)
	sellerRepo := database.NewSellerRepository(db)
	adminRepo := database.NewAdminRepository(db)
	presenceRepo := database.NewPresenceRepository(db)
	messageRepo := database.NewMessageRepository(db)
	templateRepo := database.NewTemplateRepository(db)
	historyRepo := database.NewEmailHistoryRepository(db)

	// Pièces jointes: optionnelles, le chat texte fonctionne sans bucket.
	var attachments *storage.AttachmentStore
	attachments, err = storage.NewAttachmentStore(storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Stockage des pièces jointes désactivé")
		attachments = nil
	}

	// Mailer: fonction hébergée si configurée, sinon SMTP direct.
	var mailer queue.Mailer
	if cfg.MailFunctionURL != "" {
		mailer, err = mail.NewFunctionClient(cfg.MailFunctionURL, cfg.MailFunctionKey)
		if err != nil {
			log.Fatal().Err(err).Msg("Client de la fonction mail invalide")
		}
	} else {
		mailer = mail.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	}

	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

	worker := queue.NewWorker(rabbitMQ.Ch, clientRepo, templateRepo, mailer, historyRepo)
	go worker.Start(queue.QueueName)

	// Présence: le reaper tourne tant que le serveur vit.
	tracker := presence.NewTracker(presenceRepo)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tracker.StartReaper(ctx)

	notifier := notify.NewNotifier(messageRepo)

	// UseCases
	transferUC := usecase.NewTransferLeadsUseCase(leadRepo, clientRepo)
	loginUC := usecase.NewLoginUseCase(adminRepo, sellerRepo, clientRepo, cfg.JWTSecret)
	sendEmailUC := usecase.NewSendEmailUseCase(clientRepo, producer)

	// Handlers
	authHandler := handlers.NewAuthHandler(loginUC, tracker)
	leadHandler := handlers.NewLeadHandler(leadRepo)
	transferHandler := handlers.NewTransferHandler(transferUC)
	clientHandler := handlers.NewClientHandler(clientRepo)
	statusHandler := handlers.NewStatusHandler(statusRepo)
	commentHandler := handlers.NewCommentHandler(commentRepo)
	chatHandler := handlers.NewChatHandler(messageRepo, attachments)
	notificationHandler := handlers.NewNotificationHandler(notifier, sellerRepo)
	presenceHandler := handlers.NewPresenceHandler(tracker)
	templateHandler := handlers.NewTemplateHandler(templateRepo, historyRepo, sendEmailUC)
	sellerHandler := handlers.NewSellerHandler(sellerRepo)
	adminHandler := handlers.NewAdminHandler(adminRepo)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn, cfg.MailFunctionURL)

	// Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	// Public
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/leads/capture", leadHandler.CaptureLead)
	r.Post("/auth/login", authHandler.Login)
	r.Post("/auth/lookup", authHandler.Lookup)

	// Toute identité connectée
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator(cfg.JWTSecret))

		r.Post("/presence/heartbeat", presenceHandler.Heartbeat)
		r.Post("/presence/offline", presenceHandler.Offline)

		r.Get("/chat/{channel}/{conversationID}/messages", chatHandler.ListMessages)
		r.Post("/chat/{channel}/{conversationID}/messages", chatHandler.PostMessage)
		r.Post("/chat/{channel}/{conversationID}/attachments", chatHandler.PostAttachment)
		r.Post("/chat/{channel}/{conversationID}/read", chatHandler.MarkRead)
	})

	// Staff (admin + vendeur)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator(cfg.JWTSecret))
		r.Use(middleware.RequireKind(entity.KindAdmin, entity.KindSeller))

		r.Get("/leads", leadHandler.List)
		r.Post("/leads", leadHandler.Create)
		r.Get("/leads/{id}", leadHandler.Get)
		r.Put("/leads/{id}", leadHandler.Update)
		r.Put("/leads/{id}/status", leadHandler.SetStatus)
		r.Delete("/leads", leadHandler.Delete)
		r.Post("/leads/transfer", transferHandler.Transfer)

		r.Get("/leads/{id}/comments", commentHandler.ListByLead)
		r.Post("/leads/{id}/comments", commentHandler.Create)
		r.Delete("/comments/{id}", commentHandler.Delete)

		r.Get("/clients", clientHandler.List)
		r.Post("/clients", clientHandler.Create)
		r.Get("/clients/{id}", clientHandler.Get)
		r.Put("/clients/{id}", clientHandler.Update)
		r.Put("/clients/{id}/status", clientHandler.SetStatus)
		r.Put("/clients/{id}/password", clientHandler.SetPassword)
		r.Get("/clients/{id}/emails", templateHandler.EmailHistory)

		r.Get("/statuses", statusHandler.List)
		r.Post("/statuses", statusHandler.Create)
		r.Put("/statuses/{id}", statusHandler.Update)
		r.Delete("/statuses/{id}", statusHandler.Delete)

		r.Get("/notifications", notificationHandler.Poll)
		r.Post("/notifications/clear", notificationHandler.ClearBadge)
		r.Post("/notifications/dismiss", notificationHandler.Dismiss)

		r.Get("/templates/emails", templateHandler.ListEmailTemplates)
		r.Post("/templates/emails", templateHandler.UpsertEmailTemplate)
		r.Get("/templates/pdf", templateHandler.ListPDFTemplates)
		r.Get("/argumentaire", templateHandler.GetArgumentaire)
		r.Post("/emails/send", templateHandler.SendEmail)
	})

	// Admin seulement
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticator(cfg.JWTSecret))
		r.Use(middleware.RequireKind(entity.KindAdmin))

		r.Delete("/clients/{id}", clientHandler.Delete)
		r.Delete("/chat/{channel}/{conversationID}", chatHandler.DeleteConversation)
		r.Delete("/templates/emails/{id}", templateHandler.DeleteEmailTemplate)
		r.Post("/templates/pdf", templateHandler.UpsertPDFTemplate)
		r.Delete("/templates/pdf/{id}", templateHandler.DeletePDFTemplate)
		r.Put("/argumentaire", templateHandler.UpsertArgumentaire)

		r.Get("/sellers", sellerHandler.List)
		r.Post("/sellers", sellerHandler.Create)
		r.Put("/sellers/{id}", sellerHandler.Update)
		r.Delete("/sellers/{id}", sellerHandler.Delete)

		r.Get("/admins", adminHandler.List)
		r.Post("/admins", adminHandler.Create)
		r.Put("/admins/{id}", adminHandler.Update)
		r.Delete("/admins/{id}", adminHandler.Delete)
	})

	log.Info().Str("addr", cfg.ListenAddr).Msg("API Preventia CRM démarrée")
	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
		log.Fatal().Err(err).Msg("Serveur HTTP arrêté")
	}
}
