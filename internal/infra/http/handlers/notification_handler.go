package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// NotificationHandler serves the admin inbox. Every route requires the admin
// role, and the inbox is the admin role broadcast.
type NotificationHandler struct {
	Emitter  *usecase.NotificationEmitter
	Activity usecase.ActivityRecorder
	logger   *zap.Logger
}

func NewNotificationHandler(emitter *usecase.NotificationEmitter, activity usecase.ActivityRecorder, logger *zap.Logger) *NotificationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationHandler{Emitter: emitter, Activity: activity, logger: logger}
}

func (h *NotificationHandler) Routes(r chi.Router) {
	r.Use(middleware.RequireAdmin)
	r.Get("/", h.List)
	r.Post("/read-all", h.MarkAllRead)
	r.Post("/{id}/read", h.MarkRead)
}

type NotificationListResponse struct {
	Items  []*entity.Notification `json:"items"`
	Unread int                    `json:"unread"`
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Emitter.List(r.Context(), entity.AdminBroadcast)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	unread := 0
	for _, n := range items {
		if !n.IsRead {
			unread++
		}
	}
	writeJSON(w, http.StatusOK, NotificationListResponse{Items: items, Unread: unread})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Emitter.MarkRead(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": "read"})
}

type MarkAllReadResponse struct {
	Marked int `json:"marked"`
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	marked, err := h.Emitter.MarkAllRead(r.Context(), entity.AdminBroadcast)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if h.Activity != nil && marked > 0 {
		actor, _ := middleware.ActorFrom(r.Context())
		h.Activity.Record(r.Context(), actor, entity.ActionUpdate, entity.ResourceNotification,
			"Marked all notifications as read", "")
	}
	writeJSON(w, http.StatusOK, MarkAllReadResponse{Marked: marked})
}
