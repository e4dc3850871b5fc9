package entity

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogCursorRoundTrip(t *testing.T) {
	c := LogCursor{Timestamp: time.Date(2024, 5, 4, 10, 30, 0, 123456789, time.UTC), ID: "log-42"}

	got, err := DecodeLogCursor(c.Encode())

	require.NoError(t, err)
	assert.True(t, got.Timestamp.Equal(c.Timestamp))
	assert.Equal(t, c.ID, got.ID)
}

func TestDecodeLogCursor(t *testing.T) {
	c, err := DecodeLogCursor("")
	require.NoError(t, err)
	assert.Nil(t, c)

	for _, bad := range []string{"!!!", "bm8tc2VwYXJhdG9y", "YWJjfGlk"} {
		_, err := DecodeLogCursor(bad)
		assert.True(t, errors.Is(err, ErrValidation), bad)
	}
}

func TestLogCursorAfter(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := LogCursor{Timestamp: ts, ID: "m"}

	assert.True(t, c.After(&LogEntry{Timestamp: ts.Add(-time.Second), ID: "z"}))
	assert.True(t, c.After(&LogEntry{Timestamp: ts, ID: "a"}))
	assert.False(t, c.After(&LogEntry{Timestamp: ts, ID: "m"}))
	assert.False(t, c.After(&LogEntry{Timestamp: ts.Add(time.Second), ID: "a"}))
}

func TestNewLogPage(t *testing.T) {
	rows := make([]*LogEntry, 0, 4)
	for i := 0; i < 4; i++ {
		rows = append(rows, &LogEntry{ID: fmt.Sprintf("l%d", i)})
	}

	page := NewLogPage(rows, 3)
	assert.Len(t, page.Items, 3)
	assert.True(t, page.HasMore)
	assert.NotEmpty(t, page.NextCursor)

	page = NewLogPage(rows[:2], 3)
	assert.Len(t, page.Items, 2)
	assert.False(t, page.HasMore)
	assert.Empty(t, page.NextCursor)

	page = NewLogPage(nil, 3)
	assert.NotNil(t, page.Items)
}
