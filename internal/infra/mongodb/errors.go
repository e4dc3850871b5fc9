package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, entity.ErrNotFound)
	case mongo.IsNetworkError(err), mongo.IsTimeout(err),
		errors.Is(err, context.DeadlineExceeded), errors.Is(err, mongo.ErrClientDisconnected):
		return fmt.Errorf("%s: %w: %w", op, entity.ErrStoreUnavailable, err)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w: duplicate key", op, entity.ErrValidation)
	}
	return fmt.Errorf("%s: %w", op, err)
}
