package postgres

import (
	"context"
	"encoding/json"

	"github.com/aaronjt12/bw-sms-backend/internal/model"
	"github.com/aaronjt12/bw-sms-backend/internal/repository"
	apperrors "github.com/aaronjt12/bw-sms-backend/pkg/errors"
)

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

type userRow struct {
	ID   string `db:"id"`
	Data []byte `db:"data"`
}

func (r *userRepository) All(ctx context.Context) (model.UserSnapshot, error) {
	query := `SELECT id, data FROM users ORDER BY id`

	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, apperrors.NewStore("read users", err)
	}

	snapshot := make(model.UserSnapshot, len(rows))
	for _, row := range rows {
		snapshot[row.ID] = json.RawMessage(row.Data)
	}
	return snapshot, nil
}
