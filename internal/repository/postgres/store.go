package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/aaronjt12/bw-sms-backend/internal/repository"
)

// Store serves the users and notifications paths from two tables
type Store struct {
	repository.NotificationRepository
	repository.UserRepository
	db *sqlx.DB
}

var _ repository.Store = (*Store)(nil)

func NewStore(db *sqlx.DB) *Store {
	base := NewBaseRepository(db)
	return &Store{
		NotificationRepository: NewNotificationRepository(base),
		UserRepository:         NewUserRepository(base),
		db:                     db,
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
