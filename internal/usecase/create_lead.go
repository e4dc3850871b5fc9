package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type CreateLeadUseCase struct {
	LeadRepo LeadRepositoryInterface
	Notifier Notifier
	Activity ActivityRecorder
	Logger   *zap.Logger
}

func NewCreateLeadUseCase(
	leadRepo LeadRepositoryInterface,
	notifier Notifier,
	activity ActivityRecorder,
	logger *zap.Logger,
) *CreateLeadUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreateLeadUseCase{
		LeadRepo: leadRepo,
		Notifier: notifier,
		Activity: activity,
		Logger:   logger,
	}
}

// Execute stores the lead owned by the actor, then notifies admins. A failed
// notification is logged and does not fail the creation.
func (uc *CreateLeadUseCase) Execute(ctx context.Context, input entity.LeadInput, actor entity.Actor) (string, error) {
	if errs := ValidateLeadInput(input); len(errs) > 0 {
		return "", validationError(errs)
	}

	id, err := uc.LeadRepo.Create(ctx, input, actor.ID)
	if err != nil {
		return "", Classify(err, "create lead")
	}

	lead := &entity.Lead{
		ID:                        id,
		Name:                      input.Name,
		Company:                   input.Company,
		Email:                     input.Email,
		Phone:                     input.Phone,
		Address:                   input.Address,
		ProjectRequirementTitle:   input.ProjectRequirementTitle,
		ProjectRequirementDetails: input.ProjectRequirementDetails,
		Stage:                     entity.StageNew,
		Value:                     input.Value,
		AssignedTo:                actor.ID,
		Notes:                     []entity.Note{},
	}

	if _, err := uc.Notifier.NotifyNewLead(ctx, lead, actor.DisplayName()); err != nil {
		uc.Logger.Warn("lead created without admin notification",
			zap.String("lead_id", id), zap.Error(err))
	}

	if uc.Activity != nil {
		uc.Activity.Record(ctx, actor, entity.ActionCreate, entity.ResourceLead,
			fmt.Sprintf("Created lead %s (%s)", lead.Name, lead.Company), id)
	}

	uc.Logger.Info("lead created", zap.String("lead_id", id), zap.String("owner", actor.ID))
	return id, nil
}
