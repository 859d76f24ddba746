package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rpupo63/ailabs-portal-backend/auth"
	"github.com/rpupo63/ailabs-portal-backend/config"
	"github.com/rpupo63/ailabs-portal-backend/database"
	"github.com/rpupo63/ailabs-portal-backend/errs"
	"github.com/rpupo63/ailabs-portal-backend/ingest"
	"github.com/rpupo63/ailabs-portal-backend/services"
	"github.com/rpupo63/ailabs-portal-backend/storage"
	"github.com/rs/zerolog/log"
)

const defaultMaxUploadBytes = 16 << 20

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(c map[string]string, database database.Database, opts ...Option) (Server, error) {
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	startupTime := time.Now()

	opts = append([]Option{withConfig(c), withStartupTime(startupTime)}, opts...)
	router, err := newRouter(database, opts...)
	if err != nil {
		return Server{}, err
	}

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
	store       storage.Store
	notifier    *services.Notifier
	counter     windowCounter
	now         func() time.Time
}

// Option customizes the router built by NewServer.
type Option func(*router)

func withConfig(c map[string]string) Option {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) Option {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

// WithStore sets where uploads are written. The default is a local store
// under UPLOAD_DIR.
func WithStore(store storage.Store) Option {
	return func(r *router) {
		r.store = store
	}
}

// WithNotifier enables notifications for new submissions.
func WithNotifier(notifier *services.Notifier) Option {
	return func(r *router) {
		r.notifier = notifier
	}
}

// WithRedis enables rate limiting of public submissions and logins.
func WithRedis(rdb *redis.Client) Option {
	return func(r *router) {
		if rdb != nil {
			r.counter = newRedisCounter(rdb)
		}
	}
}

func withCounter(counter windowCounter) Option {
	return func(r *router) {
		r.counter = counter
	}
}

// WithClock replaces time.Now for upload names and session expiry.
func WithClock(now func() time.Time) Option {
	return func(r *router) {
		r.now = now
	}
}

func newRouter(database database.Database, opts ...Option) (*chi.Mux, error) {
	router := router{now: time.Now}
	for _, opt := range opts {
		opt(&router)
	}
	c := router.config

	if router.store == nil {
		router.store = storage.NewLocalStore(
			config.GetString(c, "UPLOAD_DIR", "static/uploads"),
			config.GetString(c, "UPLOAD_PUBLIC_PREFIX", storage.DefaultPublicPrefix),
		)
	}

	secret := config.GetString(c, "SESSION_SECRET", "")
	if secret == "" {
		var err error
		if secret, err = randomSecret(); err != nil {
			return nil, errs.NewConfigError("SESSION_SECRET", err)
		}
		log.Warn().Msg("SESSION_SECRET is not set; admin sessions will not survive a restart")
	}
	sessionTTL := time.Duration(config.GetInt(c, "SESSION_TTL_HOURS", int(auth.DefaultSessionTTL/time.Hour))) * time.Hour
	sessions := auth.NewManager(secret, sessionTTL, router.now)

	pages, err := newPages(log.With().Str("handlerName", "pages").Logger())
	if err != nil {
		return nil, err
	}

	authMiddleware := newAuthMiddleware(database, sessions)
	handlers := initializeHandlers(handlerDeps{
		database:     database,
		pages:        pages,
		uploader:     ingest.NewUploader(router.store, router.now),
		notifier:     router.notifier,
		sessions:     sessions,
		middleware:   authMiddleware,
		baseURL:      config.GetString(c, "BASE_URL", ""),
		secureCookie: config.GetBool(c, "COOKIE_SECURE", config.GetString(c, "ENV", "") == "production"),
		startupTime:  router.startupTime,
	})
	limiter := newRateLimiter(router.counter, config.GetInt(c, "RATE_LIMIT_PER_MINUTE", 20), router.now)

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(HTTPLoggingMiddleware)

	acceptedOrigins := acceptedOrigins(config.GetString(c, "ACCEPTED_ORIGINS", "*"))
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(corsMiddleware(acceptedOrigins))
	chiRouter.Use(limitBody(config.GetInt64(c, "MAX_UPLOAD_BYTES", defaultMaxUploadBytes)))

	if local, ok := router.store.(*storage.LocalStore); ok {
		prefix := strings.TrimSuffix(local.PublicPrefix(), "/")
		chiRouter.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(local.Root()))))
	}

	setupRoutes(chiRouter, handlers, authMiddleware, limiter)

	responder := NewResponder(log.Logger)
	chiRouter.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			responder.WriteError(w, errs.NewNotFoundError("Not found"))
			return
		}
		pages.notFound(w, r, strings.HasPrefix(r.URL.Path, "/admin/"))
	})

	return chiRouter, nil
}

func acceptedOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
