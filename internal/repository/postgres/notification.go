package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/aaronjt12/bw-sms-backend/internal/model"
	"github.com/aaronjt12/bw-sms-backend/internal/repository"
	apperrors "github.com/aaronjt12/bw-sms-backend/pkg/errors"
)

type notificationRepository struct {
	BaseRepository
}

func NewNotificationRepository(base BaseRepository) repository.NotificationRepository {
	return &notificationRepository{base}
}

func (r *notificationRepository) Append(ctx context.Context, record *model.NotificationRecord) error {
	query := `
		INSERT INTO notifications (id, phone_number, message, parking_lot, timestamp)
		VALUES (:id, :phone_number, :message, :parking_lot, :timestamp)
	`

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return apperrors.NewStore("append notification", err)
	}
	return nil
}
