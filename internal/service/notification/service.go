package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aaronjt12/bw-sms-backend/internal/model"
	"github.com/aaronjt12/bw-sms-backend/internal/repository"
	"github.com/aaronjt12/bw-sms-backend/internal/sms"
	apperrors "github.com/aaronjt12/bw-sms-backend/pkg/errors"
	"github.com/aaronjt12/bw-sms-backend/pkg/metrics"
)

type Service interface {
	Dispatch(ctx context.Context, req *model.SendRequest) *model.SendReport
}

type Config struct {
	// SenderNumber is the originating number given to the provider
	SenderNumber string
}

type service struct {
	sender        sms.Sender
	notifications repository.NotificationRepository
	from          string
	metrics       *metrics.Metrics
	logger        zerolog.Logger
	now           func() time.Time
}

func NewService(sender sms.Sender, notifications repository.NotificationRepository, cfg Config, m *metrics.Metrics, logger zerolog.Logger) Service {
	if notifications == nil {
		notifications = repository.NewNoopStore()
	}
	return &service{
		sender:        sender,
		notifications: notifications,
		from:          cfg.SenderNumber,
		metrics:       m,
		logger:        logger.With().Str("component", "notification").Logger(),
		now:           time.Now,
	}
}

// Dispatch sends to every recipient in parallel and returns once all of them
// have settled. Outcomes keep the request order. One recipient failing never
// affects the others.
func (s *service) Dispatch(ctx context.Context, req *model.SendRequest) *model.SendReport {
	outcomes := make([]model.SendOutcome, len(req.Recipients))

	if s.metrics != nil {
		s.metrics.BatchSize.Observe(float64(len(req.Recipients)))
	}

	var wg sync.WaitGroup
	for i, recipient := range req.Recipients {
		wg.Add(1)
		go func(i int, recipient string) {
			defer wg.Done()
			outcomes[i] = s.dispatchOne(ctx, recipient, req)
		}(i, recipient)
	}
	wg.Wait()

	report := &model.SendReport{Outcomes: outcomes}
	report.OverallSuccess = report.Succeeded() > 0

	s.logger.Info().
		Int("recipients", len(outcomes)).
		Int("succeeded", report.Succeeded()).
		Str("parking_lot", req.OriginLabel).
		Msg("bulk send finished")

	return report
}

func (s *service) dispatchOne(ctx context.Context, recipient string, req *model.SendRequest) model.SendOutcome {
	start := time.Now()
	id, err := s.send(ctx, recipient, req.Body)
	if s.metrics != nil {
		s.metrics.ProviderLatency.Observe(time.Since(start).Seconds())
	}

	if err != nil {
		var perr *apperrors.ProviderError
		if !errors.As(err, &perr) {
			perr = apperrors.NewProvider(recipient, sms.Reason(err), err)
			s.logger.Warn().Err(err).Str("recipient", recipient).Msg("sms send failed")
		}
		s.countDispatch(model.OutcomeFailed)
		return failed(perr)
	}

	s.countDispatch(model.OutcomeSuccess)
	s.logger.Debug().Str("recipient", recipient).Str("message_id", id).Msg("sms sent")

	s.record(ctx, recipient, req)

	return model.SendOutcome{
		Recipient:         recipient,
		Status:            model.OutcomeSuccess,
		ProviderMessageID: id,
	}
}

// send turns a provider panic into a failed send for this recipient only
func (s *service) send(ctx context.Context, recipient, body string) (id string, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("recipient", recipient).Interface("panic", r).Msg("provider call panicked")
			id, err = "", apperrors.NewProvider(recipient, fmt.Sprintf("unexpected provider failure: %v", r), nil)
		}
	}()
	return s.sender.Send(ctx, sms.Message{From: s.from, To: recipient, Body: body})
}

// record is best effort: a failed append is logged and the delivered message
// stays a success.
func (s *service) record(ctx context.Context, recipient string, req *model.SendRequest) {
	record := &model.NotificationRecord{
		Recipient:         recipient,
		Body:              req.Body,
		OriginLabel:       req.OriginLabel,
		SentAtEpochMillis: s.now().UnixMilli(),
	}
	if record.OriginLabel == "" {
		record.OriginLabel = model.DefaultOriginLabel
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("recipient", recipient).Interface("panic", r).Msg("notification append panicked")
			s.countWrite("failed")
		}
	}()

	// the caller going away must not lose the history entry
	if err := s.notifications.Append(context.WithoutCancel(ctx), record); err != nil {
		s.logger.Warn().Err(err).Str("recipient", recipient).Msg("failed to log notification")
		s.countWrite("failed")
		return
	}
	s.countWrite("ok")
}

func (s *service) countDispatch(status model.OutcomeStatus) {
	if s.metrics != nil {
		s.metrics.DispatchTotal.WithLabelValues(string(status)).Inc()
	}
}

func (s *service) countWrite(status string) {
	if s.metrics != nil {
		s.metrics.NotificationWrites.WithLabelValues(status).Inc()
	}
}

func failed(err *apperrors.ProviderError) model.SendOutcome {
	return model.SendOutcome{
		Recipient:     err.Recipient,
		Status:        model.OutcomeFailed,
		FailureReason: err.Reason,
	}
}
