package usecase

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const maxNoteLength = 5000

type AddNoteUseCase struct {
	LeadRepo LeadRepositoryInterface
	Activity ActivityRecorder
	Logger   *zap.Logger
}

func NewAddNoteUseCase(leadRepo LeadRepositoryInterface, activity ActivityRecorder, logger *zap.Logger) *AddNoteUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AddNoteUseCase{LeadRepo: leadRepo, Activity: activity, Logger: logger}
}

// Execute appends a free-text note written by the actor and returns it.
func (uc *AddNoteUseCase) Execute(ctx context.Context, leadID, content string, actor entity.Actor) (*entity.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validationError([]ValidationError{{"content", "is required"}})
	}
	if utf8.RuneCountInString(content) > maxNoteLength {
		return nil, validationError([]ValidationError{{"content", "must not exceed 5000 characters"}})
	}

	lead, err := uc.LeadRepo.Get(ctx, leadID)
	if err != nil {
		return nil, Classify(err, "load lead")
	}
	if !actor.CanAccess(lead) {
		return nil, forbidden("lead is owned by another user")
	}

	note := entity.NewNote(content, actor.ID)
	if err := uc.LeadRepo.AppendNote(ctx, leadID, note); err != nil {
		return nil, Classify(err, "append note")
	}

	if uc.Activity != nil {
		uc.Activity.Record(ctx, actor, entity.ActionUpdate, entity.ResourceLead,
			"Added note to lead "+lead.Name, leadID)
	}

	uc.Logger.Debug("note added", zap.String("lead_id", leadID), zap.String("note_id", note.ID))
	return &note, nil
}
