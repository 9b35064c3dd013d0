package web

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"premium-access-service/internal/domain"
	"premium-access-service/internal/domain/model"
)

type errResponse struct {
	Error string `json:"error"`
}

// renderErr maps domain error kinds to transport status codes. The
// message is informational; clients branch on status + condition.
func (s *Server) renderErr(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidPlan),
		errors.Is(err, domain.ErrMissingCode),
		errors.Is(err, domain.ErrInvalidCodeFormat),
		errors.Is(err, domain.ErrCodeAlreadyUsed),
		errors.Is(err, domain.ErrCodeExpired),
		errors.Is(err, domain.ErrHourMismatch),
		errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrCodeNotFound),
		errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	render.Status(r, status)
	render.JSON(w, r, errResponse{Error: err.Error()})
}

func (s *Server) decode(r *http.Request, dst any) error {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		return domain.ErrInvalidArgument
	}
	if err := s.validate.Struct(dst); err != nil {
		return domain.ErrInvalidArgument
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ===== Admin session =====

type adminLoginRequest struct {
	Secret string `json:"secret" validate:"required"`
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := s.decode(r, &req); err != nil {
		s.renderErr(w, r, err)
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(s.adminKey)) != 1 {
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, errResponse{Error: "forbidden"})
		return
	}
	token, err := s.auth.Mint(w)
	if err != nil {
		s.renderErr(w, r, err)
		return
	}
	render.JSON(w, r, map[string]string{"token": token})
}

// ===== Access keys =====

type issueKeyRequest struct {
	Plan string `json:"plan" validate:"required"`
}

type issueKeyResponse struct {
	Code      string    `json:"code"`
	Plan      string    `json:"plan"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Server) handleIssueKey(w http.ResponseWriter, r *http.Request) {
	var req issueKeyRequest
	if err := s.decode(r, &req); err != nil {
		s.renderErr(w, r, domain.ErrInvalidPlan)
		return
	}

	key, err := s.keysUC.Issue(r.Context(), req.Plan)
	if err != nil {
		s.renderErr(w, r, err)
		return
	}
	render.JSON(w, r, issueKeyResponse{
		Code:      key.Code,
		Plan:      string(key.Plan),
		ExpiresAt: key.ExpiresAt,
	})
}

type validateKeyRequest struct {
	Code   string `json:"code"`
	UserID string `json:"user_id"`
}

type validateKeyResponse struct {
	Plan      string    `json:"plan"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Server) handleValidateKey(w http.ResponseWriter, r *http.Request) {
	var req validateKeyRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.renderErr(w, r, domain.ErrMissingCode)
		return
	}

	key, err := s.keysUC.Validate(r.Context(), req.Code, req.UserID)
	if err != nil {
		s.renderErr(w, r, err)
		return
	}
	render.JSON(w, r, validateKeyResponse{
		Plan:      string(key.Plan),
		ExpiresAt: key.ExpiresAt,
	})
}

func (s *Server) handleListKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := s.keysUC.List(r.Context())
	if err != nil {
		s.renderErr(w, r, err)
		return
	}
	if keys == nil {
		keys = []*model.AccessKey{}
	}
	render.JSON(w, r, struct {
		Count int                `json:"count"`
		Keys  []*model.AccessKey `json:"keys"`
	}{Count: len(keys), Keys: keys})
}

func (s *Server) handleClearKeys(w http.ResponseWriter, r *http.Request) {
	if err := s.keysUC.ClearAll(r.Context()); err != nil {
		s.renderErr(w, r, err)
		return
	}
	render.JSON(w, r, map[string]string{"message": "all access keys deleted"})
}

// ===== Device tokens =====

type registerTokenRequest struct {
	Token  string `json:"token" validate:"required"`
	UserID string `json:"user_id"`
}

func (s *Server) handleRegisterToken(w http.ResponseWriter, r *http.Request) {
	var req registerTokenRequest
	if err := s.decode(r, &req); err != nil {
		s.renderErr(w, r, err)
		return
	}
	if err := s.tokenUC.Register(r.Context(), req.Token, req.UserID); err != nil {
		s.renderErr(w, r, err)
		return
	}
	render.JSON(w, r, map[string]string{"message": "token registered"})
}

type unregisterTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

func (s *Server) handleUnregisterToken(w http.ResponseWriter, r *http.Request) {
	var req unregisterTokenRequest
	if err := s.decode(r, &req); err != nil {
		s.renderErr(w, r, err)
		return
	}
	if err := s.tokenUC.Unregister(r.Context(), req.Token); err != nil {
		s.renderErr(w, r, err)
		return
	}
	render.JSON(w, r, map[string]string{"message": "token unregistered"})
}

type tokenListing struct {
	UserID       string    `json:"user_id"`
	Token        string    `json:"token"`
	RegisteredAt time.Time `json:"registered_at"`
}

func (s *Server) handleListTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := s.tokenUC.List(r.Context())
	if err != nil {
		s.renderErr(w, r, err)
		return
	}
	out := make([]tokenListing, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, tokenListing{
			UserID:       t.UserID,
			Token:        t.Preview(), // never expose full addresses in listings
			RegisteredAt: t.RegisteredAt,
		})
	}
	render.JSON(w, r, struct {
		Count  int            `json:"count"`
		Tokens []tokenListing `json:"tokens"`
	}{Count: len(out), Tokens: out})
}

func (s *Server) handleGetUserToken(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	t, err := s.tokenUC.Get(r.Context(), userID)
	if err != nil {
		s.renderErr(w, r, err)
		return
	}
	render.JSON(w, r, t)
}
