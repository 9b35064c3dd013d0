package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"premium-access-service/internal/infra/metrics"
	"premium-access-service/internal/infra/redis"
)

// requestLogger emits one structured line per request and feeds the
// request counter.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		pattern := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			pattern = rc.RoutePattern()
		}
		metrics.IncHTTPRequest(pattern, r.Method, ww.Status())
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

// rateLimit applies the fixed-window limiter per client IP. Limiter
// outages fail open: rate limiting is a surrounding-service concern,
// not a correctness gate.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, err := s.limiter.Allow(r.Context(), redis.ClientKey(r.RemoteAddr), s.rate.Requests, s.rate.Window)
		if err != nil {
			s.log.Warn().Err(err).Msg("rate limiter unavailable; allowing request")
		} else if !ok {
			render.Status(r, http.StatusTooManyRequests)
			render.JSON(w, r, errResponse{Error: "too many requests, please try again later"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin guards the admin route trees with the session token.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, errResponse{Error: "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
