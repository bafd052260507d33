package relay

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/aaronjt12/bw-sms-backend/internal/repository"
	"github.com/aaronjt12/bw-sms-backend/internal/service/notification"
	apperrors "github.com/aaronjt12/bw-sms-backend/pkg/errors"
	"github.com/aaronjt12/bw-sms-backend/pkg/httputil"
)

const welcomeMessage = "SMS notification relay is running"

type Handler struct {
	service notification.Service
	users   repository.UserRepository
	logger  zerolog.Logger
}

func NewHandler(service notification.Service, users repository.UserRepository, logger zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		users:   users,
		logger:  logger.With().Str("component", "relay_handler").Logger(),
	}
}

// RegisterRoutes mounts the relay endpoints. sendMiddleware only guards
// POST /send-sms.
func (h *Handler) RegisterRoutes(r gin.IRoutes, sendMiddleware ...gin.HandlerFunc) {
	r.GET("/", h.Welcome)
	r.GET("/users", h.ListUsers)
	r.POST("/send-sms", append(sendMiddleware, h.SendSMS)...)
}

func (h *Handler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": welcomeMessage})
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.All(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		httputil.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// SendSMS answers 200 when at least one recipient succeeded and 500 when
// all of them failed. The body is the per-recipient report either way.
func (h *Handler) SendSMS(c *gin.Context) {
	var raw notification.RawSendRequest
	if err := c.ShouldBindJSON(&raw); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondWithError(c, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		// no body at all means no recipients
		if errors.Is(err, io.EOF) {
			h.rejected(c, apperrors.MissingOrInvalidRecipients())
			return
		}
		_ = c.Error(err)
		h.rejected(c, apperrors.InvalidRequestBody())
		return
	}

	req, err := notification.Validate(raw)
	if err != nil {
		var verr *apperrors.ValidationError
		if errors.As(err, &verr) {
			h.rejected(c, verr)
			return
		}
		_ = c.Error(err)
		httputil.RespondWithInternalError(c, err, false)
		return
	}

	report := h.service.Dispatch(c.Request.Context(), req)

	status := http.StatusOK
	if !report.OverallSuccess {
		status = http.StatusInternalServerError
	}
	c.JSON(status, report)
}

func (h *Handler) rejected(c *gin.Context, verr *apperrors.ValidationError) {
	h.logger.Info().
		Str("code", string(verr.Code)).
		Strs("invalid_numbers", verr.InvalidNumbers).
		Msg("send request rejected")
	httputil.RespondWithValidationError(c, verr)
}

func (h *Handler) NotFound(c *gin.Context) {
	httputil.RespondNotFound(c)
}
