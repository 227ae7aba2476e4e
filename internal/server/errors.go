package server

import (
	"errors"
	"net/http"

	obscontext "github.com/debdutisardar8903/wallineex-backend/internal/observability/context"
	"github.com/debdutisardar8903/wallineex-backend/internal/processor"
	verificationdomain "github.com/debdutisardar8903/wallineex-backend/internal/verification/domain"
	webhookdomain "github.com/debdutisardar8903/wallineex-backend/internal/webhook/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIError is the wire shape of every error leaving this service.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

var (
	ErrUnauthorized = &APIError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "unauthorized"}
	ErrNotFound     = &APIError{Status: http.StatusNotFound, Code: "not_found", Message: "not found"}
)

func invalidRequestError(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: "invalid_request", Message: message}
}

// abortWithError maps a domain error onto the JSON error envelope. Upstream
// detail leaves the process only outside production.
func (s *Server) abortWithError(c *gin.Context, err error) {
	apiErr := s.apiError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		s.log.Error("request failed",
			zap.String("request_id", obscontext.RequestIDFromGin(c)),
			zap.String("path", c.FullPath()),
			zap.Int("status", apiErr.Status),
			zap.Error(err),
		)
	}
	c.Abort()
	c.JSON(apiErr.Status, gin.H{"error": apiErr})
}

func (s *Server) apiError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, verificationdomain.ErrInvalidOrderID):
		return &APIError{
			Status:  http.StatusBadRequest,
			Code:    "invalid_order_id",
			Message: "orderId must match WX followed by 13 digits",
		}
	case errors.Is(err, verificationdomain.ErrRateLimited):
		return &APIError{
			Status:  http.StatusTooManyRequests,
			Code:    "rate_limited",
			Message: "too many verification attempts for this order, retry later",
		}
	case errors.Is(err, processor.ErrOrderNotFound):
		return &APIError{
			Status:  http.StatusNotFound,
			Code:    "order_not_found",
			Message: "order not found",
		}
	case webhookdomain.IsAuthError(err):
		return &APIError{
			Status:  http.StatusUnauthorized,
			Code:    "auth_error",
			Message: "webhook signature verification failed",
		}
	case errors.Is(err, webhookdomain.ErrInvalidPayload):
		return &APIError{
			Status:  http.StatusInternalServerError,
			Code:    "invalid_payload",
			Message: "webhook payload could not be processed",
		}
	}

	var upstream *processor.UpstreamError
	if errors.As(err, &upstream) {
		message := "payment processor unavailable"
		if !s.cfg.IsProduction() && upstream.Message != "" {
			message = upstream.Message
		}
		return &APIError{Status: http.StatusBadGateway, Code: "upstream_failure", Message: message}
	}

	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "internal error",
	}
}
