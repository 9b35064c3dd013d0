package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"premium-access-service/internal/domain"
	"premium-access-service/internal/domain/model"
	"premium-access-service/internal/domain/ports/adapter"
)

// ===== Notifications =====

type sendRequest struct {
	Topic string            `json:"topic"`
	Token string            `json:"token"`
	Title string            `json:"title" validate:"required"`
	Body  string            `json:"body" validate:"required"`
	Type  string            `json:"type"`
	Data  map[string]string `json:"data"`
}

func (req sendRequest) message() adapter.PushMessage {
	typ := req.Type
	if typ == "" {
		typ = "info"
	}
	return adapter.PushMessage{Title: req.Title, Body: req.Body, Type: typ, Data: req.Data}
}

type deliveryResponse struct {
	MessageID string `json:"message_id"`
	Topic     string `json:"topic,omitempty"`
	Queued    int    `json:"queued,omitempty"`
}

func (s *Server) handleSendAll(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := s.decode(r, &req); err != nil {
		s.renderErr(w, r, err)
		return
	}
	id, err := s.notifUC.SendToAll(r.Context(), req.message())
	if err != nil {
		s.renderErr(w, r, err)
		return
	}
	render.JSON(w, r, deliveryResponse{MessageID: id, Topic: "all_users"})
}

func (s *Server) handleSendTopic(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := s.decode(r, &req); err != nil {
		s.renderErr(w, r, err)
		return
	}
	id, err := s.notifUC.SendToTopic(r.Context(), req.Topic, req.message())
	if err != nil {
		s.renderErr(w, r, err)
		return
	}
	render.JSON(w, r, deliveryResponse{MessageID: id, Topic: req.Topic})
}

func (s *Server) handleSendToken(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := s.decode(r, &req); err != nil {
		s.renderErr(w, r, err)
		return
	}
	id, err := s.notifUC.SendToToken(r.Context(), req.Token, req.message())
	if err != nil {
		s.renderErr(w, r, err)
		return
	}
	render.JSON(w, r, deliveryResponse{MessageID: id})
}

func (s *Server) handleBroadcast(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := s.decode(r, &req); err != nil {
		s.renderErr(w, r, err)
		return
	}
	n, err := s.notifUC.BroadcastToDevices(r.Context(), req.message())
	if err != nil {
		s.renderErr(w, r, err)
		return
	}
	render.JSON(w, r, deliveryResponse{Queued: n})
}

// ===== Videos =====

func (s *Server) handleUploadVideo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	file, header, err := r.FormFile("video")
	if err != nil {
		s.renderErr(w, r, domain.ErrInvalidArgument)
		return
	}
	defer file.Close()

	v, err := s.videoUC.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		s.renderErr(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, v)
}

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := s.videoUC.List(r.Context())
	if err != nil {
		s.renderErr(w, r, err)
		return
	}
	if videos == nil {
		videos = []*model.Video{}
	}
	render.JSON(w, r, struct {
		Count  int            `json:"count"`
		Videos []*model.Video `json:"videos"`
	}{Count: len(videos), Videos: videos})
}

func (s *Server) handleRandomVideo(w http.ResponseWriter, r *http.Request) {
	v, err := s.videoUC.Random(r.Context())
	if err != nil {
		s.renderErr(w, r, err)
		return
	}
	render.JSON(w, r, v)
}

func (s *Server) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.videoUC.Delete(r.Context(), id); err != nil {
		s.renderErr(w, r, err)
		return
	}
	render.JSON(w, r, map[string]string{"message": "video deleted"})
}
