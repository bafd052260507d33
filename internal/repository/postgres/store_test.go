package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronjt12/bw-sms-backend/internal/model"
	apperrors "github.com/aaronjt12/bw-sms-backend/pkg/errors"
)

func setupStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(sqlx.NewDb(db, "postgres")), mock
}

func TestStore_Append(t *testing.T) {
	store, mock := setupStore(t)

	mock.ExpectExec(`INSERT INTO notifications \(id, phone_number, message, parking_lot, timestamp\)`).
		WithArgs(sqlmock.AnyArg(), "+15551234567", "hi", "North", int64(1700000000000)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	record := &model.NotificationRecord{
		Recipient:         "+15551234567",
		Body:              "hi",
		OriginLabel:       "North",
		SentAtEpochMillis: 1700000000000,
	}
	require.NoError(t, store.Append(context.Background(), record))
	assert.NotEmpty(t, record.ID.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_AppendFailure(t *testing.T) {
	store, mock := setupStore(t)

	mock.ExpectExec(`INSERT INTO notifications`).
		WillReturnError(errors.New("connection reset"))

	err := store.Append(context.Background(), &model.NotificationRecord{Recipient: "+15551234567"})

	var storeErr *apperrors.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "append notification", storeErr.Op)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_All(t *testing.T) {
	store, mock := setupStore(t)

	mock.ExpectQuery(`SELECT id, data FROM users ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).
			AddRow("u1", []byte(`{"name":"Ada"}`)).
			AddRow("u2", []byte(`{"name":"Grace"}`)))

	users, err := store.All(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.JSONEq(t, `{"name":"Ada"}`, string(users["u1"]))
	assert.JSONEq(t, `{"name":"Grace"}`, string(users["u2"]))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_AllFailure(t *testing.T) {
	store, mock := setupStore(t)

	mock.ExpectQuery(`SELECT id, data FROM users`).
		WillReturnError(errors.New("relation \"users\" does not exist"))

	_, err := store.All(context.Background())

	var storeErr *apperrors.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "read users", storeErr.Op)
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS users`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Migrate(context.Background(), sqlx.NewDb(db, "postgres")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
