package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// AuditNoteRecorder appends human-readable change notes to a lead.
type AuditNoteRecorder struct {
	LeadRepo LeadRepositoryInterface
}

func NewAuditNoteRecorder(leadRepo LeadRepositoryInterface) *AuditNoteRecorder {
	return &AuditNoteRecorder{LeadRepo: leadRepo}
}

// RecordFieldChanges diffs the watched fields of two snapshots and appends a
// single note listing every change. No note is written when nothing changed;
// the returned bool reports whether one was.
func (r *AuditNoteRecorder) RecordFieldChanges(ctx context.Context, leadID string, before, after *entity.Lead, actorID string) (bool, error) {
	lines := DiffWatchedFields(before, after)
	if len(lines) == 0 {
		return false, nil
	}

	note := entity.NewNote(strings.Join(lines, "\n"), actorID)
	if err := r.LeadRepo.AppendNote(ctx, leadID, note); err != nil {
		return false, fmt.Errorf("append field change note: %w", err)
	}
	return true, nil
}

// RecordStatusChange is only called when the stage actually changed.
func (r *AuditNoteRecorder) RecordStatusChange(ctx context.Context, leadID string, oldStage, newStage entity.Stage, actorID string) error {
	note := entity.NewNote(StatusChangeLine(oldStage, newStage), actorID)
	if err := r.LeadRepo.AppendNote(ctx, leadID, note); err != nil {
		return fmt.Errorf("append status change note: %w", err)
	}
	return nil
}

func DiffWatchedFields(before, after *entity.Lead) []string {
	old := before.WatchedFields()
	cur := after.WatchedFields()

	var lines []string
	for i := range old {
		if old[i].Value != cur[i].Value {
			lines = append(lines, fmt.Sprintf("%s changed from %s to %s", old[i].Label, old[i].Value, cur[i].Value))
		}
	}
	return lines
}

func StatusChangeLine(oldStage, newStage entity.Stage) string {
	return fmt.Sprintf("Stage changed from %s to %s", oldStage, newStage)
}
