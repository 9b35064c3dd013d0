package web

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"premium-access-service/internal/config"
	"premium-access-service/internal/usecase"
)

// Limiter is what the rate-limit middleware needs from the fixed-window
// counter; satisfied by redis.RateLimiter.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Server wires the HTTP API to the use cases. Transport concerns stop
// here; everything behind the handlers speaks domain types.
type Server struct {
	keysUC   *usecase.AccessKeyUseCase
	tokenUC  *usecase.DeviceTokenUseCase
	notifUC  *usecase.NotificationUseCase
	videoUC  *usecase.VideoUseCase
	auth     *AuthManager
	limiter  Limiter
	rate     config.RateLimitConfig
	adminKey string
	maxBody  int64
	validate *validator.Validate
	log      *zerolog.Logger
}

func NewServer(
	keysUC *usecase.AccessKeyUseCase,
	tokenUC *usecase.DeviceTokenUseCase,
	notifUC *usecase.NotificationUseCase,
	videoUC *usecase.VideoUseCase,
	auth *AuthManager,
	limiter Limiter,
	cfg *config.Config,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "web").Logger()
	return &Server{
		keysUC:   keysUC,
		tokenUC:  tokenUC,
		notifUC:  notifUC,
		videoUC:  videoUC,
		auth:     auth,
		limiter:  limiter,
		rate:     cfg.RateLimit,
		adminKey: cfg.Admin.Secret,
		maxBody:  cfg.Media.MaxUploadMB << 20,
		validate: validator.New(),
		log:      &l,
	}
}

// Router builds the chi router with the public and admin route trees.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(s.rateLimit)

		api.Post("/admin/login", s.handleAdminLogin)

		api.Route("/access-keys", func(ak chi.Router) {
			ak.Post("/", s.handleIssueKey)
			ak.Post("/validate", s.handleValidateKey)

			ak.Group(func(admin chi.Router) {
				admin.Use(s.requireAdmin)
				admin.Get("/", s.handleListKeys)
				admin.Delete("/", s.handleClearKeys)
			})
		})

		api.Route("/tokens", func(tk chi.Router) {
			tk.Post("/register", s.handleRegisterToken)
			tk.Post("/unregister", s.handleUnregisterToken)

			tk.Group(func(admin chi.Router) {
				admin.Use(s.requireAdmin)
				admin.Get("/", s.handleListTokens)
				admin.Get("/{userID}", s.handleGetUserToken)
			})
		})

		api.Route("/notifications", func(nt chi.Router) {
			nt.Use(s.requireAdmin)
			nt.Post("/send", s.handleSendAll)
			nt.Post("/send-topic", s.handleSendTopic)
			nt.Post("/send-token", s.handleSendToken)
			nt.Post("/broadcast", s.handleBroadcast)
		})

		api.Route("/videos", func(vd chi.Router) {
			vd.Get("/random", s.handleRandomVideo)

			vd.Group(func(admin chi.Router) {
				admin.Use(s.requireAdmin)
				admin.Post("/", s.handleUploadVideo)
				admin.Get("/", s.handleListVideos)
				admin.Delete("/{id}", s.handleDeleteVideo)
			})
		})
	})

	return r
}
