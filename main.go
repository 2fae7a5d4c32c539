package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bend/accounts"
	"bend/artists"
	"bend/attendance"
	"bend/auth"
	"bend/config"
	"bend/db"
	"bend/events"
	"bend/feed"
	"bend/live"
	"bend/middleware"
	"bend/mq"
	"bend/notify"
	"bend/profile"
	"bend/ratelim"
	"bend/ratings"
	"bend/rdx"
	"bend/repo"
	"bend/reviews"
	"bend/routes"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("❌ MongoDB connection failed: %v", err)
	}
	defer store.Disconnect(context.Background())

	redisConn := rdx.Connect(ctx, cfg.RedisAddr)
	defer redisConn.Close()

	repos := repo.NewMongo(store)

	// live badge plumbing
	hub := live.NewHub()
	go hub.Run()
	go hub.Feed(ctx, redisConn, repos.Notifications)

	badge := mq.NewEmitter(redisConn)
	notifier := notify.NewService(
		notify.NewStoreOutbox(repos.Notifications, badge),
		repos.Follows, repos.Attendance, repos.ArtistEvents,
	)

	ledger := attendance.NewLedger(repos.Attendance, repos.Events, notifier)
	eventsvc := events.NewService(repos, ledger, notifier)
	aggregator := ratings.NewAggregator(repos.Accounts, notifier)
	assembler := feed.NewAssembler(repos)
	reposter := feed.NewReposter(repos.Events, repos.Reposts, notifier)
	authsvc := auth.NewService(repos.Accounts, cfg.JwtSecret)

	handlers := &routes.Handlers{
		Auth:          auth.NewHandler(authsvc),
		Accounts:      accounts.NewHandler(accounts.NewResolver(repos.Accounts)),
		Events:        events.NewHandler(eventsvc, repos, cfg.ShareBase),
		Artists:       artists.NewHandler(repos, eventsvc),
		Feed:          feed.NewHandler(assembler, reposter),
		Attendance:    attendance.NewHandler(ledger, repos.Events),
		Profile:       profile.NewHandler(repos.Follows, notifier),
		Reviews:       reviews.NewHandler(repos.Reviews, aggregator, notifier),
		Ratings:       ratings.NewHandler(aggregator),
		Notifications: notify.NewHandler(repos.Notifications),
		Hub:           hub,
	}

	rateLimiter := ratelim.NewRateLimiter()
	authmw := middleware.NewAuth(cfg.JwtSecret)

	router := httprouter.New()
	router.GET("/health", Index)
	routes.RoutesWrapper(router, rateLimiter, authmw, handlers)

	// CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("🛑 Shutting down badge hub...")
		hub.Stop()
	})

	go func() {
		log.Printf("🚀 Server listening on %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
