package repository

import (
	"context"

	"github.com/aaronjt12/bw-sms-backend/internal/model"
)

type (
	// NotificationRepository appends send history. Existing records are
	// never read or mutated.
	NotificationRepository interface {
		Append(ctx context.Context, record *model.NotificationRecord) error
	}

	// UserRepository reads the users path. This service never writes it.
	UserRepository interface {
		All(ctx context.Context) (model.UserSnapshot, error)
	}

	// Store is a document store backend serving both paths
	Store interface {
		NotificationRepository
		UserRepository
		Ping(ctx context.Context) error
		Close() error
	}
)
