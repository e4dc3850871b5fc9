package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type UpdateResult struct {
	Lead        *entity.Lead `json:"lead"`
	SubFailures []SubFailure `json:"-"`
}

// UpdateLeadUseCase edits lead details. Stage changes are not accepted here;
// they go through TransitionStageUseCase.
type UpdateLeadUseCase struct {
	LeadRepo LeadRepositoryInterface
	Notes    NoteRecorder
	Notifier Notifier
	Activity ActivityRecorder
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewUpdateLeadUseCase(
	leadRepo LeadRepositoryInterface,
	notes NoteRecorder,
	notifier Notifier,
	activity ActivityRecorder,
	logger *zap.Logger,
) *UpdateLeadUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UpdateLeadUseCase{
		LeadRepo: leadRepo,
		Notes:    notes,
		Notifier: notifier,
		Activity: activity,
		Logger:   logger,
		Now:      time.Now,
	}
}

func (uc *UpdateLeadUseCase) Execute(ctx context.Context, leadID string, patch entity.LeadPatch, actor entity.Actor) (*UpdateResult, error) {
	if errs := ValidateLeadPatch(patch); len(errs) > 0 {
		return nil, validationError(errs)
	}

	before, err := uc.LeadRepo.Get(ctx, leadID)
	if err != nil {
		return nil, Classify(err, "load lead")
	}
	if !actor.CanAccess(before) {
		return nil, forbidden("lead is owned by another user")
	}

	if err := uc.LeadRepo.Update(ctx, leadID, patch); err != nil {
		return nil, Classify(err, "update lead")
	}

	after := patch.Apply(*before)
	after.UpdatedAt = uc.Now()

	seq := NewSequence(uc.Logger)
	changed := false
	seq.AddStep("audit_note", AuditNoteFailed, func(ctx context.Context) error {
		var err error
		changed, err = uc.Notes.RecordFieldChanges(ctx, leadID, before, &after, actor.ID)
		if err != nil {
			// the diff is still known even though the note was lost
			changed = len(DiffWatchedFields(before, &after)) > 0
		}
		return err
	})
	seq.AddStep("admin_notification", NotificationFailed, func(ctx context.Context) error {
		if !changed {
			return nil
		}
		_, err := uc.Notifier.NotifyLeadUpdate(ctx, &after, actor.DisplayName())
		return err
	})

	failures := seq.Run(ctx, zap.String("lead_id", leadID))
	current := reloadLead(ctx, uc.LeadRepo, uc.Logger, &after)

	if uc.Activity != nil {
		uc.Activity.Record(ctx, actor, entity.ActionUpdate, entity.ResourceLead,
			fmt.Sprintf("Updated lead %s", after.Name), leadID)
	}

	return &UpdateResult{Lead: current, SubFailures: failures}, nil
}
