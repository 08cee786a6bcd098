package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"tcs-portal/internal/analytics"
	"tcs-portal/internal/analytics/analytics_api"
	"tcs-portal/internal/checkin"
	"tcs-portal/internal/checkin/checkin_api"
	"tcs-portal/internal/config"
	"tcs-portal/internal/content"
	"tcs-portal/internal/content/content_api"
	"tcs-portal/internal/events"
	"tcs-portal/internal/events/event_api"
	"tcs-portal/internal/identity"
	"tcs-portal/internal/identity/identity_api"
	"tcs-portal/internal/kafka"
	"tcs-portal/internal/logger"
	"tcs-portal/internal/models"
	"tcs-portal/internal/notify"
	"tcs-portal/internal/sse"
	"tcs-portal/internal/store"
	"tcs-portal/internal/tickets"
	"tcs-portal/internal/tickets/qr"
	"tcs-portal/internal/tickets/template"
	"tcs-portal/internal/tickets/ticket_api"
)

func openDatabase(cfg config.DatabaseConfig, log *logger.Logger) *bun.DB {
	switch cfg.Driver {
	case "postgres":
		sqldb, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
		}
		if err := sqldb.Ping(); err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		}
		log.Info("DATABASE", "✅ PostgreSQL connection successful")
		return bun.NewDB(sqldb, pgdialect.New())
	default:
		sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
		if err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Failed to open SQLite: %v", err))
		}
		log.Info("DATABASE", fmt.Sprintf("✅ SQLite database opened at %s", cfg.DSN))
		return bun.NewDB(sqldb, sqlitedialect.New())
	}
}

func buildBus(cfg config.RedisConfig, log *logger.Logger) (store.Bus, func()) {
	if !cfg.Enabled {
		return store.NewMemoryBus(), func() {}
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warn("REDIS", fmt.Sprintf("Redis unreachable, falling back to in-process bus: %v", err))
		return store.NewMemoryBus(), func() { _ = client.Close() }
	}
	log.Info("REDIS", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Addr))
	return store.NewRedisBus(client), func() { _ = client.Close() }
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting TCS Portal initialization")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	bunDB := openDatabase(cfg.Database, log)
	defer bunDB.Close()

	bus, closeBus := buildBus(cfg.Redis, log)
	defer closeBus()

	kv := store.NewSQL(bunDB, bus)
	if err := kv.Init(ctx); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to initialize kv table: %v", err))
	}

	identitySvc := identity.NewService(kv, cfg.Session.TTL)
	if err := identitySvc.EnsureSeed(ctx, cfg.Ticketing.AdminName, cfg.Ticketing.AdminEmail, cfg.Ticketing.AdminPassword); err != nil {
		log.Fatal("APP", fmt.Sprintf("Failed to seed admin account: %v", err))
	}

	catalog := events.NewCatalog(kv)
	if err := catalog.EnsureSeed(ctx); err != nil {
		log.Fatal("APP", fmt.Sprintf("Failed to seed events: %v", err))
	}

	contentSvc := content.NewService(kv)
	if err := contentSvc.EnsureSeed(ctx); err != nil {
		log.Fatal("APP", fmt.Sprintf("Failed to seed content: %v", err))
	}

	ticketSvc := tickets.NewService(kv, catalog)
	checkinSvc := checkin.NewService(ticketSvc, catalog)
	renderer := template.NewRenderer(cfg.Ticketing.FontPath)

	var dispatcher *notify.Dispatcher
	if cfg.Email.Enabled {
		dispatcher = notify.NewDispatcher(notify.NewMailer(cfg.Email), cfg.Email.Timeout, log)
		log.Info("MAIL", fmt.Sprintf("Email delivery enabled via %s:%d", cfg.Email.SMTPHost, cfg.Email.SMTPPort))
	} else {
		log.Info("MAIL", "Email delivery disabled")
	}

	var producer *kafka.Producer
	var consumer *kafka.Consumer
	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()

	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.TicketIssued, cfg.Kafka.Topics.TicketCheckedIn, cfg.Kafka.MockMode, log)
		defer producer.Close()

		if !cfg.Kafka.MockMode {
			topics := []string{cfg.Kafka.Topics.TicketIssued, cfg.Kafka.Topics.TicketCheckedIn}
			if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, topics); err != nil {
				log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
			}
		}

		// When Kafka is live, email delivery rides the ticket-issued
		// stream instead of the request path.
		if dispatcher != nil && !cfg.Kafka.MockMode {
			consumer = kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.TicketIssued, cfg.Kafka.GroupID, log)
			defer consumer.Close()

			go consumer.Start(consumerCtx, func(ticket models.Ticket) {
				display := template.DisplayFor(nil)
				if ev, err := catalog.Get(context.Background(), ticket.EventID); err == nil {
					display = template.DisplayFor(ev)
				}
				qrPNG, err := qr.FromTicket(ticket).Image(cfg.Ticketing.QRSize)
				if err != nil {
					log.Error("MAIL", fmt.Sprintf("QR render failed for %s: %v", ticket.PublicTicketID, err))
					return
				}
				pdfBytes, err := renderer.Render(ticket, display, qrPNG)
				if err != nil {
					log.Error("MAIL", fmt.Sprintf("PDF render failed for %s: %v", ticket.PublicTicketID, err))
				}
				dispatcher.Dispatch(ticket, display, qrPNG, pdfBytes)
			})
		}
	}

	identityHandler := identity_api.NewHandler(identitySvc, cfg.Auth.JWTSecret, log)
	eventHandler := event_api.NewHandler(catalog)
	contentHandler := content_api.NewHandler(contentSvc)
	analyticsHandler := analytics_api.NewHandler(analytics.NewService(ticketSvc, catalog), log)
	streamHandler := sse.NewHandler(bus, log)

	ticketHandler := &ticket_api.Handler{
		Tickets:  ticketSvc,
		Catalog:  catalog,
		Renderer: renderer,
		Events:   ticketEvents(producer),
		QRSize:   cfg.Ticketing.QRSize,
		Logger:   log,
	}
	// The request path dispatches email directly unless the Kafka
	// consumer owns delivery.
	if dispatcher != nil && consumer == nil {
		ticketHandler.Mail = dispatcher
	}

	checkinHandler := &checkin_api.Handler{
		Checkin: checkinSvc,
		Events:  checkinEvents(producer),
		Logger:  log,
	}

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		// --- Public routes ---
		r.Post("/auth/register", identityHandler.Register)
		r.Post("/auth/login", identityHandler.Login)
		r.Get("/events", eventHandler.ListEvents)
		r.Get("/events/{eventID}", eventHandler.GetEvent)
		r.Mount("/content", contentHandler.PublicRoutes())
		r.Get("/stream", streamHandler.Stream)

		// --- Authenticated routes ---
		r.Group(func(r chi.Router) {
			r.Use(identityHandler.RequireAuth)

			r.Post("/auth/logout", identityHandler.Logout)
			r.Get("/auth/me", identityHandler.Me)

			r.Route("/tickets", func(r chi.Router) {
				r.Post("/", ticketHandler.IssueTicket)
				r.Get("/mine", ticketHandler.MyTickets)
				r.Get("/{ticketID}/qr", ticketHandler.TicketQR)
				r.Get("/{ticketID}/pdf", ticketHandler.TicketPDF)
			})
		})

		// --- Admin routes ---
		r.Group(func(r chi.Router) {
			r.Use(identityHandler.RequireAuth)
			r.Use(identityHandler.RequireAdmin)

			r.Route("/admin", func(r chi.Router) {
				r.Post("/events", eventHandler.CreateEvent)
				r.Put("/events/{eventID}", eventHandler.UpdateEvent)
				r.Delete("/events/{eventID}", eventHandler.DeleteEvent)

				r.Route("/tickets", func(r chi.Router) {
					r.Get("/", checkinHandler.ListTickets)
					r.Get("/export", checkinHandler.ExportCSV)
					r.Post("/check-in", checkinHandler.QuickCheckIn)
					r.Post("/scan", checkinHandler.Scan)
					r.Put("/{ticketID}/checked-in", checkinHandler.SetCheckedIn)
					r.Delete("/{ticketID}", checkinHandler.DeleteTicket)
				})

				r.Get("/analytics", analyticsHandler.Overview)
				r.Mount("/content", contentHandler.Routes())
			})
		})
	})
	log.Info("ROUTER", "Routes registered under /api")

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", "🚀 TCS Portal running on "+cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	stopConsumer()
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		log.Info("HTTP", "✅ TCS Portal shutdown complete")
	}
}

// ticketEvents keeps a typed-nil producer from reaching the handler's
// interface field.
func ticketEvents(p *kafka.Producer) ticket_api.TicketEvents {
	if p == nil {
		return nil
	}
	return p
}

func checkinEvents(p *kafka.Producer) checkin_api.TicketEvents {
	if p == nil {
		return nil
	}
	return p
}
