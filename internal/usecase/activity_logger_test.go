package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestActivityRecord_CapturesRequestMeta(t *testing.T) {
	repo := new(MockLogRepository)
	al := NewActivityLogger(repo, nil)
	ctx := WithRequestMeta(context.Background(), RequestMeta{IPAddress: "10.0.0.7", UserAgent: "curl/8"})

	repo.On("Append", mock.Anything, mock.MatchedBy(func(e *entity.LogEntry) bool {
		return e.UserID == "user-1" && e.UserName == "Sam Seller" &&
			e.IPAddress == "10.0.0.7" && e.UserAgent == "curl/8" &&
			e.Action == entity.ActionCreate && e.ResourceID == "lead-9"
	})).Return("log-1", nil)

	al.Record(ctx, ownerActor, entity.ActionCreate, entity.ResourceLead, "Created lead", "lead-9")

	repo.AssertExpectations(t)
}

func TestActivityRecord_FailureIsSwallowedAndLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	repo := new(MockLogRepository)
	al := NewActivityLogger(repo, zap.New(core))
	repo.On("Append", mock.Anything, mock.Anything).Return("", errors.New("disk full"))

	assert.NotPanics(t, func() {
		al.Record(context.Background(), ownerActor, entity.ActionUpdate, entity.ResourceLead, "x", "")
	})
	assert.Equal(t, 1, logs.FilterMessage("failed to record activity").Len())
}

func TestActivityList_PageSizeBounds(t *testing.T) {
	tests := []struct {
		requested, effective int
	}{
		{0, DefaultLogPageSize},
		{-5, DefaultLogPageSize},
		{10, 10},
		{500, MaxLogPageSize},
	}
	for _, tt := range tests {
		repo := new(MockLogRepository)
		al := NewActivityLogger(repo, nil)
		repo.On("List", mock.Anything, entity.LogFilter{}, tt.effective, (*entity.LogCursor)(nil)).
			Return(entity.LogPage{Items: []*entity.LogEntry{}}, nil)

		_, err := al.List(context.Background(), entity.LogFilter{}, tt.requested, "")

		require.NoError(t, err)
		repo.AssertExpectations(t)
	}
}

func TestActivityList_MalformedCursor(t *testing.T) {
	repo := new(MockLogRepository)
	al := NewActivityLogger(repo, nil)

	_, err := al.List(context.Background(), entity.LogFilter{}, 10, "%%%not-base64")

	assert.Equal(t, CodeValidationFailed, ErrorCode(err))
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
