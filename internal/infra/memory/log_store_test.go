package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestLogStore_PaginatesWithoutGapsOrDuplicates(t *testing.T) {
	// a frozen clock forces every entry onto the same timestamp
	frozen := time.Date(2024, 2, 2, 8, 0, 0, 0, time.UTC)
	s := NewLogStore().WithClock(func() time.Time { return frozen })
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		_, err := s.Append(ctx, &entity.LogEntry{
			ID:     fmt.Sprintf("log-%02d", i),
			UserID: "u1",
			Action: entity.ActionUpdate,
		})
		require.NoError(t, err)
	}

	seen := map[string]bool{}
	var cursor *entity.LogCursor
	pages := 0
	for {
		page, err := s.List(ctx, entity.LogFilter{}, 3, cursor)
		require.NoError(t, err)
		pages++
		for _, e := range page.Items {
			assert.False(t, seen[e.ID], "duplicate %s", e.ID)
			seen[e.ID] = true
		}
		if !page.HasMore {
			break
		}
		cursor, err = entity.DecodeLogCursor(page.NextCursor)
		require.NoError(t, err)
	}

	assert.Len(t, seen, 7)
	assert.Equal(t, 3, pages)
}

func TestLogStore_FilterAndOrder(t *testing.T) {
	s := NewLogStore().WithClock(fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	_, _ = s.Append(ctx, &entity.LogEntry{UserID: "u1", Action: entity.ActionCreate, ResourceType: entity.ResourceLead})
	_, _ = s.Append(ctx, &entity.LogEntry{UserID: "u2", Action: entity.ActionCreate, ResourceType: entity.ResourceLead})
	_, _ = s.Append(ctx, &entity.LogEntry{UserID: "u1", Action: entity.ActionLogin, ResourceType: entity.ResourceUser})

	page, err := s.List(ctx, entity.LogFilter{UserID: "u1"}, 10, nil)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, entity.ActionLogin, page.Items[0].Action)
	assert.True(t, page.Items[0].Timestamp.After(page.Items[1].Timestamp))

	page, err = s.List(ctx, entity.LogFilter{Action: entity.ActionCreate, ResourceType: entity.ResourceLead}, 10, nil)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.False(t, page.HasMore)
}
