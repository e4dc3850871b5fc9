package mongodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestStoreErr(t *testing.T) {
	assert.Nil(t, storeErr("op", nil))
	assert.True(t, errors.Is(storeErr("op", mongo.ErrNoDocuments), entity.ErrNotFound))
	assert.True(t, errors.Is(storeErr("op", mongo.ErrClientDisconnected), entity.ErrStoreUnavailable))
	assert.True(t, errors.Is(storeErr("op", context.DeadlineExceeded), entity.ErrStoreUnavailable))

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.True(t, errors.Is(storeErr("op", dup), entity.ErrValidation))

	other := storeErr("op", errors.New("boom"))
	assert.False(t, errors.Is(other, entity.ErrNotFound))
	assert.False(t, errors.Is(other, entity.ErrStoreUnavailable))
}

func TestLeadDocumentToEntity(t *testing.T) {
	ts := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	doc := leadDocument{
		ID:         "lead-1",
		Name:       "John Smith",
		Stage:      "qualified",
		AssignedTo: "user-1",
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}

	lead, err := doc.toEntity()
	require.NoError(t, err)
	assert.Equal(t, entity.StageQualified, lead.Stage)
	assert.NotNil(t, lead.Notes)
	assert.Empty(t, lead.Notes)

	doc.Stage = "won"
	_, err = doc.toEntity()
	assert.True(t, errors.Is(err, entity.ErrValidation))
}
