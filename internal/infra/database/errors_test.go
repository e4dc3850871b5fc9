package database

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestStoreErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, entity.ErrNotFound},
		{"bad conn", driver.ErrBadConn, entity.ErrStoreUnavailable},
		{"conn done", sql.ErrConnDone, entity.ErrStoreUnavailable},
		{"connection failure", &pq.Error{Code: "08006"}, entity.ErrStoreUnavailable},
		{"too many connections", &pq.Error{Code: "53300"}, entity.ErrStoreUnavailable},
		{"admin shutdown", &pq.Error{Code: "57P01"}, entity.ErrStoreUnavailable},
		{"check violation", &pq.Error{Code: "23514", Message: "leads_value_check"}, entity.ErrValidation},
		{"invalid text", &pq.Error{Code: "22P02"}, entity.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := storeErr("op", tt.err)
			assert.True(t, errors.Is(err, tt.want), err.Error())
		})
	}

	assert.Nil(t, storeErr("op", nil))

	err := storeErr("op", &pq.Error{Code: "42P01"})
	assert.False(t, errors.Is(err, entity.ErrStoreUnavailable))
	assert.False(t, errors.Is(err, entity.ErrValidation))
}
