package server

import (
	"net/http"
	"strings"

	obscontext "github.com/debdutisardar8903/wallineex-backend/internal/observability/context"
	"github.com/gin-gonic/gin"
)

type verifyPaymentRequest struct {
	OrderID string `json:"orderId"`
}

// VerifyPayment handles POST /api/verify-payment. The caller key for the
// throttle is the client IP; the storefront proxies per-user addresses.
func (s *Server) VerifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, invalidRequestError("request body must be JSON with an orderId field"))
		return
	}

	orderID := strings.TrimSpace(req.OrderID)
	callerKey := c.ClientIP()
	ctx := obscontext.WithCallerKey(c.Request.Context(), callerKey)

	result, err := s.verifySvc.Verify(ctx, orderID, callerKey)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
