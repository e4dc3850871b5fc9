package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// DeleteLeadUseCase removes a lead and its notes. Only admins may delete.
type DeleteLeadUseCase struct {
	LeadRepo LeadRepositoryInterface
	Activity ActivityRecorder
	Logger   *zap.Logger
}

func NewDeleteLeadUseCase(leadRepo LeadRepositoryInterface, activity ActivityRecorder, logger *zap.Logger) *DeleteLeadUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeleteLeadUseCase{LeadRepo: leadRepo, Activity: activity, Logger: logger}
}

func (uc *DeleteLeadUseCase) Execute(ctx context.Context, leadID string, actor entity.Actor) error {
	if !actor.IsAdmin() {
		return forbidden("admin role required")
	}

	lead, err := uc.LeadRepo.Get(ctx, leadID)
	if err != nil {
		return Classify(err, "load lead")
	}
	if err := uc.LeadRepo.Delete(ctx, leadID); err != nil {
		return Classify(err, "delete lead")
	}

	if uc.Activity != nil {
		uc.Activity.Record(ctx, actor, entity.ActionDelete, entity.ResourceLead,
			"Deleted lead "+lead.Name, leadID)
	}

	uc.Logger.Info("lead deleted", zap.String("lead_id", leadID), zap.String("actor_id", actor.ID))
	return nil
}
