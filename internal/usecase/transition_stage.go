package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeUnchanged Outcome = "unchanged"
)

var ErrNoProjectRecipients = errors.New("no project email recipients configured")

type TransitionInput struct {
	LeadID string
	Stage  entity.Stage
	Actor  entity.Actor
}

// TransitionResult reports an applied or unchanged transition. SubFailures
// lists advisory steps that failed after the stage was written; it is empty
// on full success.
type TransitionResult struct {
	Outcome     Outcome      `json:"outcome"`
	OldStage    entity.Stage `json:"old_stage"`
	NewStage    entity.Stage `json:"new_stage"`
	SubFailures []SubFailure `json:"-"`
	Lead        *entity.Lead `json:"lead"`
}

func (r *TransitionResult) Degraded() bool {
	return len(r.SubFailures) > 0
}

// TransitionStageUseCase moves a lead between stages. The stage write is the
// only authoritative step; the audit note, admin notification and won email
// that follow are best effort and never roll it back.
type TransitionStageUseCase struct {
	LeadRepo          LeadRepositoryInterface
	Notes             NoteRecorder
	Notifier          Notifier
	Email             EmailSender
	Renderer          ProjectEmailRenderer
	Activity          ActivityRecorder
	ProjectRecipients []string
	Logger            *zap.Logger
	Now               func() time.Time
}

func NewTransitionStageUseCase(
	leadRepo LeadRepositoryInterface,
	notes NoteRecorder,
	notifier Notifier,
	email EmailSender,
	renderer ProjectEmailRenderer,
	activity ActivityRecorder,
	projectRecipients []string,
	logger *zap.Logger,
) *TransitionStageUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransitionStageUseCase{
		LeadRepo:          leadRepo,
		Notes:             notes,
		Notifier:          notifier,
		Email:             email,
		Renderer:          renderer,
		Activity:          activity,
		ProjectRecipients: projectRecipients,
		Logger:            logger,
		Now:               time.Now,
	}
}

func (uc *TransitionStageUseCase) Execute(ctx context.Context, input TransitionInput) (*TransitionResult, error) {
	if !input.Stage.Valid() {
		return nil, validationError([]ValidationError{{"stage", fmt.Sprintf("unknown stage %q", string(input.Stage))}})
	}

	lead, err := uc.LeadRepo.Get(ctx, input.LeadID)
	if err != nil {
		return nil, Classify(err, "load lead")
	}
	if !input.Actor.CanAccess(lead) {
		return nil, forbidden("lead is owned by another user")
	}

	oldStage := lead.Stage
	if input.Stage == oldStage {
		return &TransitionResult{
			Outcome:     OutcomeUnchanged,
			OldStage:    oldStage,
			NewStage:    oldStage,
			SubFailures: []SubFailure{},
			Lead:        lead,
		}, nil
	}

	newStage := input.Stage
	if err := uc.LeadRepo.Update(ctx, lead.ID, entity.LeadPatch{Stage: &newStage}); err != nil {
		return nil, Classify(err, "update lead stage")
	}

	updated := *lead
	updated.Stage = newStage
	updated.UpdatedAt = uc.Now()

	actorName := input.Actor.DisplayName()
	seq := NewSequence(uc.Logger)
	seq.AddStep("audit_note", AuditNoteFailed, func(ctx context.Context) error {
		return uc.Notes.RecordStatusChange(ctx, lead.ID, oldStage, newStage, input.Actor.ID)
	})
	seq.AddStep("admin_notification", NotificationFailed, func(ctx context.Context) error {
		_, err := uc.Notifier.NotifyStatusChange(ctx, &updated, oldStage, newStage, actorName)
		return err
	})
	if newStage == entity.StageProject {
		seq.AddStep("project_email", EmailFailed, func(ctx context.Context) error {
			return uc.sendProjectEmail(ctx, &updated, actorName)
		})
	}

	failures := seq.Run(ctx, zap.String("lead_id", lead.ID))
	current := reloadLead(ctx, uc.LeadRepo, uc.Logger, &updated)

	if uc.Activity != nil {
		uc.Activity.Record(ctx, input.Actor, entity.ActionUpdate, entity.ResourceLead,
			fmt.Sprintf("Changed stage of %s from %s to %s", lead.Name, oldStage, newStage), lead.ID)
	}

	uc.Logger.Info("lead stage changed",
		zap.String("lead_id", lead.ID),
		zap.String("from", oldStage.String()),
		zap.String("to", newStage.String()),
		zap.Int("sub_failures", len(failures)))

	return &TransitionResult{
		Outcome:     OutcomeApplied,
		OldStage:    oldStage,
		NewStage:    newStage,
		SubFailures: failures,
		Lead:        current,
	}, nil
}

// reloadLead reads the lead back after the advisory steps so the caller sees
// appended notes and the store's timestamps. A failed read falls back to the
// locally patched copy.
func reloadLead(ctx context.Context, repo LeadRepositoryInterface, logger *zap.Logger, local *entity.Lead) *entity.Lead {
	stored, err := repo.Get(ctx, local.ID)
	if err != nil || stored == nil {
		logger.Warn("failed to reload lead, returning local copy",
			zap.String("lead_id", local.ID),
			zap.Error(err))
		return local
	}
	return stored
}

func (uc *TransitionStageUseCase) sendProjectEmail(ctx context.Context, lead *entity.Lead, updatedBy string) error {
	if len(uc.ProjectRecipients) == 0 {
		return ErrNoProjectRecipients
	}
	if uc.Email == nil || uc.Renderer == nil {
		return errors.New("email delivery not configured")
	}

	subject, html, err := uc.Renderer.RenderProjectStatus(lead, updatedBy)
	if err != nil {
		return fmt.Errorf("render project email: %w", err)
	}

	return uc.Email.Send(ctx, entity.EmailMessage{
		To:      uc.ProjectRecipients,
		Subject: subject,
		HTML:    html,
	})
}
