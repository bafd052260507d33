package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronjt12/bw-sms-backend/internal/config"
	"github.com/aaronjt12/bw-sms-backend/internal/model"
	"github.com/aaronjt12/bw-sms-backend/internal/repository"
)

func TestOpen_None(t *testing.T) {
	s, err := Open(context.Background(), config.StoreConfig{Driver: config.DriverNone}, zerolog.Nop())
	require.NoError(t, err)

	assert.NoError(t, s.Append(context.Background(), &model.NotificationRecord{Recipient: "+15551234567"}))
	_, err = s.All(context.Background())
	assert.ErrorIs(t, err, repository.ErrStoreDisabled)
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := Open(context.Background(), config.StoreConfig{
		Driver:    config.DriverRedis,
		RedisURL:  "redis://" + mr.Addr(),
		KeyPrefix: "test:",
	}, zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Append(context.Background(), &model.NotificationRecord{Recipient: "+15551234567", Body: "hi"}))
	assert.True(t, mr.Exists("test:notifications"))
}

func TestOpen_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Open(context.Background(), config.StoreConfig{Driver: config.DriverRedis, RedisURL: "redis://" + addr}, zerolog.Nop())
	assert.Error(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Driver: "mongo"}, zerolog.Nop())
	assert.ErrorContains(t, err, "mongo")
}
