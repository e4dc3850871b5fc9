package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestAddNote_AppendsTrimmedContent(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := NewAddNoteUseCase(repo, nil, nil)

	repo.On("Get", mock.Anything, "lead-1").Return(sampleLead(entity.StageNew), nil)
	repo.On("AppendNote", mock.Anything, "lead-1", mock.MatchedBy(func(n entity.Note) bool {
		return n.Content == "Called, left voicemail" && n.CreatedBy == ownerActor.ID && n.ID != ""
	})).Return(nil)

	note, err := uc.Execute(context.Background(), "lead-1", "  Called, left voicemail \n", ownerActor)

	require.NoError(t, err)
	assert.Equal(t, "Called, left voicemail", note.Content)
	repo.AssertExpectations(t)
}

func TestAddNote_Validation(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := NewAddNoteUseCase(repo, nil, nil)

	_, err := uc.Execute(context.Background(), "lead-1", "   ", ownerActor)
	assert.Equal(t, CodeValidationFailed, ErrorCode(err))

	_, err = uc.Execute(context.Background(), "lead-1", strings.Repeat("x", maxNoteLength+1), ownerActor)
	assert.Equal(t, CodeValidationFailed, ErrorCode(err))

	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestAddNote_LimitCountsCharactersNotBytes(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := NewAddNoteUseCase(repo, nil, nil)
	repo.On("Get", mock.Anything, "lead-1").Return(sampleLead(entity.StageNew), nil)
	repo.On("AppendNote", mock.Anything, "lead-1", mock.Anything).Return(nil)

	// 3 bytes per rune, so the byte length is well past the limit
	content := strings.Repeat("日", maxNoteLength)
	note, err := uc.Execute(context.Background(), "lead-1", content, ownerActor)

	require.NoError(t, err)
	assert.Equal(t, content, note.Content)

	_, err = uc.Execute(context.Background(), "lead-1", content+"日", ownerActor)
	assert.Equal(t, CodeValidationFailed, ErrorCode(err))
	repo.AssertNumberOfCalls(t, "AppendNote", 1)
}

func TestAddNote_UnknownLead(t *testing.T) {
	repo := new(MockLeadRepository)
	uc := NewAddNoteUseCase(repo, nil, nil)
	repo.On("Get", mock.Anything, "missing").Return(nil, fmt.Errorf("get: %w", entity.ErrNotFound))

	_, err := uc.Execute(context.Background(), "missing", "hello", adminActor)

	assert.Equal(t, CodeNotFound, ErrorCode(err))
	repo.AssertNotCalled(t, "AppendNote", mock.Anything, mock.Anything, mock.Anything)
}
