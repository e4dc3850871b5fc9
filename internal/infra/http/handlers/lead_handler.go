package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type LeadHandler struct {
	CreateUC     *usecase.CreateLeadUseCase
	TransitionUC *usecase.TransitionStageUseCase
	UpdateUC     *usecase.UpdateLeadUseCase
	AddNoteUC    *usecase.AddNoteUseCase
	DeleteUC     *usecase.DeleteLeadUseCase
	LeadRepo     entity.LeadRepositoryInterface
	rateLimiter  *RateLimiter
	logger       *zap.Logger
}

func NewLeadHandler(
	createUC *usecase.CreateLeadUseCase,
	transitionUC *usecase.TransitionStageUseCase,
	updateUC *usecase.UpdateLeadUseCase,
	addNoteUC *usecase.AddNoteUseCase,
	deleteUC *usecase.DeleteLeadUseCase,
	leadRepo entity.LeadRepositoryInterface,
	rateLimiter *RateLimiter,
	logger *zap.Logger,
) *LeadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadHandler{
		CreateUC:     createUC,
		TransitionUC: transitionUC,
		UpdateUC:     updateUC,
		AddNoteUC:    addNoteUC,
		DeleteUC:     deleteUC,
		LeadRepo:     leadRepo,
		rateLimiter:  rateLimiter,
		logger:       logger,
	}
}

// Routes mounts the lead endpoints; Identity must already be applied.
func (h *LeadHandler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/stats", h.Stats)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.With(middleware.RequireAdmin).Delete("/{id}", h.Delete)
	r.Post("/{id}/stage", h.Transition)
	r.Post("/{id}/notes", h.AddNote)
}

type CreateLeadResponse struct {
	ID string `json:"id"`
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.rateLimiter != nil && !h.rateLimiter.Allow(middleware.ClientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
			Error:   "RATE_LIMITED",
			Message: "Too many requests. Please try again later.",
		})
		return
	}

	var input entity.LeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeBadRequest(w, "invalid JSON: "+err.Error())
		return
	}

	actor, _ := middleware.ActorFrom(r.Context())
	id, err := h.CreateUC.Execute(r.Context(), input, actor)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	middleware.RecordLeadCreated()
	writeJSON(w, http.StatusCreated, CreateLeadResponse{ID: id})
}

// List returns every lead to admins and only owned leads to users.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.visibleLeads(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

type StatsResponse struct {
	Total   int                  `json:"total"`
	ByStage map[entity.Stage]int `json:"by_stage"`
	Value   float64              `json:"pipeline_value"`
}

func (h *LeadHandler) Stats(w http.ResponseWriter, r *http.Request) {
	leads, err := h.visibleLeads(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := StatsResponse{ByStage: make(map[entity.Stage]int, len(entity.Stages()))}
	for _, s := range entity.Stages() {
		resp.ByStage[s] = 0
	}
	for _, l := range leads {
		resp.Total++
		resp.ByStage[l.Stage]++
		if l.Stage != entity.StageRejected {
			resp.Value += l.Value
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LeadHandler) visibleLeads(r *http.Request) ([]*entity.Lead, error) {
	actor, _ := middleware.ActorFrom(r.Context())

	var (
		leads []*entity.Lead
		err   error
	)
	if actor.IsAdmin() {
		leads, err = h.LeadRepo.ListAll(r.Context())
	} else {
		leads, err = h.LeadRepo.ListByOwner(r.Context(), actor.ID)
	}
	if err != nil {
		return nil, usecase.Classify(err, "list leads")
	}
	return leads, nil
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r.Context())

	lead, err := h.LeadRepo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, usecase.Classify(err, "get lead"))
		return
	}
	if !actor.CanAccess(lead) {
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: usecase.CodeForbidden, Message: "lead is owned by another user"})
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

type UpdateLeadResponse struct {
	Lead        *entity.Lead `json:"lead"`
	SubFailures []string     `json:"sub_failures"`
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch entity.LeadPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeBadRequest(w, "invalid JSON: "+err.Error())
		return
	}

	actor, _ := middleware.ActorFrom(r.Context())
	res, err := h.UpdateUC.Execute(r.Context(), chi.URLParam(r, "id"), patch, actor)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	for _, f := range res.SubFailures {
		middleware.RecordSideEffectFailure(string(f.Kind))
	}
	writeJSON(w, http.StatusOK, UpdateLeadResponse{Lead: res.Lead, SubFailures: failureKinds(res.SubFailures)})
}

type TransitionRequest struct {
	Stage string `json:"stage"`
}

type TransitionResponse struct {
	Outcome     usecase.Outcome `json:"outcome"`
	OldStage    entity.Stage    `json:"old_stage"`
	NewStage    entity.Stage    `json:"new_stage"`
	SubFailures []string        `json:"sub_failures"`
	Lead        *entity.Lead    `json:"lead"`
}

// Transition answers 200 for both applied and unchanged outcomes. Advisory
// failures are listed in sub_failures and do not change the status code.
func (h *LeadHandler) Transition(w http.ResponseWriter, r *http.Request) {
	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON: "+err.Error())
		return
	}

	actor, _ := middleware.ActorFrom(r.Context())
	res, err := h.TransitionUC.Execute(r.Context(), usecase.TransitionInput{
		LeadID: chi.URLParam(r, "id"),
		Stage:  entity.Stage(req.Stage),
		Actor:  actor,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	middleware.RecordStageTransition(res.NewStage, string(res.Outcome))
	for _, f := range res.SubFailures {
		middleware.RecordSideEffectFailure(string(f.Kind))
	}

	writeJSON(w, http.StatusOK, TransitionResponse{
		Outcome:     res.Outcome,
		OldStage:    res.OldStage,
		NewStage:    res.NewStage,
		SubFailures: failureKinds(res.SubFailures),
		Lead:        res.Lead,
	})
}

type AddNoteRequest struct {
	Content string `json:"content"`
}

func (h *LeadHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	var req AddNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON: "+err.Error())
		return
	}

	actor, _ := middleware.ActorFrom(r.Context())
	note, err := h.AddNoteUC.Execute(r.Context(), chi.URLParam(r, "id"), req.Content, actor)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r.Context())
	if err := h.DeleteUC.Execute(r.Context(), chi.URLParam(r, "id"), actor); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
