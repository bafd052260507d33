package repository

import (
	"context"
	"errors"

	"github.com/aaronjt12/bw-sms-backend/internal/model"
	apperrors "github.com/aaronjt12/bw-sms-backend/pkg/errors"
)

// ErrStoreDisabled is returned by reads when no store driver is configured
var ErrStoreDisabled = errors.New("document store is not configured")

// NoopStore is used when notification logging is turned off. Appends
// succeed without side effects and reads fail with ErrStoreDisabled.
type NoopStore struct{}

func NewNoopStore() Store {
	return NoopStore{}
}

func (NoopStore) Append(context.Context, *model.NotificationRecord) error {
	return nil
}

func (NoopStore) All(context.Context) (model.UserSnapshot, error) {
	return nil, apperrors.NewStore("read users", ErrStoreDisabled)
}

func (NoopStore) Ping(context.Context) error {
	return nil
}

func (NoopStore) Close() error {
	return nil
}
