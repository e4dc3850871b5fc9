package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type LogHandler struct {
	Logger *usecase.ActivityLogger
	logger *zap.Logger
}

func NewLogHandler(activity *usecase.ActivityLogger, logger *zap.Logger) *LogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogHandler{Logger: activity, logger: logger}
}

// Routes mounts the admin log viewer.
func (h *LogHandler) Routes(r chi.Router) {
	r.Use(middleware.RequireAdmin)
	r.Get("/", h.List)
}

// List reads filters and the cursor from the query string:
// ?user_id=&action=&resource_type=&page_size=&cursor=
func (h *LogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pageSize := 0
	if raw := q.Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeBadRequest(w, "page_size must be a non-negative integer")
			return
		}
		pageSize = n
	}

	filter := entity.LogFilter{
		UserID:       q.Get("user_id"),
		Action:       q.Get("action"),
		ResourceType: q.Get("resource_type"),
	}

	page, err := h.Logger.List(r.Context(), filter, pageSize, q.Get("cursor"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

type RecordActivityRequest struct {
	Action       string `json:"action"`
	ResourceType string `json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	Description  string `json:"description"`
}

// Record lets the UI log actions the API does not see itself, such as login
// and logout. It answers 202 whether or not the entry was stored.
func (h *LogHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req RecordActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON: "+err.Error())
		return
	}
	req.Action = strings.TrimSpace(req.Action)
	req.ResourceType = strings.TrimSpace(req.ResourceType)
	if req.Action == "" || req.ResourceType == "" {
		writeBadRequest(w, "action and resource_type are required")
		return
	}

	actor, _ := middleware.ActorFrom(r.Context())
	h.Logger.Record(r.Context(), actor, req.Action, req.ResourceType, req.Description, req.ResourceID)
	w.WriteHeader(http.StatusAccepted)
}
