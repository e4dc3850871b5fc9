package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestRecordFieldChanges_SingleNoteForAllChanges(t *testing.T) {
	repo := new(MockLeadRepository)
	rec := NewAuditNoteRecorder(repo)

	before := sampleLead(entity.StageNew)
	after := *before
	after.Name = "John A. Smith"
	after.Value = 6000

	var written entity.Note
	repo.On("AppendNote", mock.Anything, "lead-1", mock.Anything).
		Run(func(args mock.Arguments) { written = args.Get(2).(entity.Note) }).
		Return(nil).Once()

	changed, err := rec.RecordFieldChanges(context.Background(), "lead-1", before, &after, "user-1")

	require.NoError(t, err)
	assert.True(t, changed)
	lines := strings.Split(written.Content, "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "John Smith")
	assert.Contains(t, lines[0], "John A. Smith")
	assert.Equal(t, "user-1", written.CreatedBy)
	repo.AssertNumberOfCalls(t, "AppendNote", 1)
}

func TestRecordFieldChanges_NoDiffWritesNothing(t *testing.T) {
	repo := new(MockLeadRepository)
	rec := NewAuditNoteRecorder(repo)
	before := sampleLead(entity.StageNew)
	after := *before
	after.Address = "somewhere else"

	changed, err := rec.RecordFieldChanges(context.Background(), "lead-1", before, &after, "user-1")

	require.NoError(t, err)
	assert.False(t, changed)
	repo.AssertNotCalled(t, "AppendNote", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordStatusChange_NoteText(t *testing.T) {
	repo := new(MockLeadRepository)
	rec := NewAuditNoteRecorder(repo)
	repo.On("AppendNote", mock.Anything, "lead-1", mock.MatchedBy(func(n entity.Note) bool {
		return n.Content == "Stage changed from new to contacted" && n.CreatedBy == "admin-1"
	})).Return(nil)

	err := rec.RecordStatusChange(context.Background(), "lead-1", entity.StageNew, entity.StageContacted, "admin-1")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRecordStatusChange_PropagatesStoreError(t *testing.T) {
	repo := new(MockLeadRepository)
	rec := NewAuditNoteRecorder(repo)
	repo.On("AppendNote", mock.Anything, mock.Anything, mock.Anything).Return(entity.ErrStoreUnavailable)

	err := rec.RecordStatusChange(context.Background(), "lead-1", entity.StageNew, entity.StageRejected, "admin-1")

	assert.True(t, errors.Is(err, entity.ErrStoreUnavailable))
}
