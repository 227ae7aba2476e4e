package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 1 << 20

// PaymentWebhook handles POST /api/payment-webhook. The body must stay raw
// until the signature is verified; parsing happens inside the service. Once
// the delivery authenticates and parses, the answer is 200 regardless of
// event type: the contract with the processor is "received", not
// "understood".
func (s *Server) PaymentWebhook(c *gin.Context) {
	rawBody, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		s.abortWithError(c, invalidRequestError("could not read request body"))
		return
	}

	if err := s.webhookSvc.IngestEvent(c.Request.Context(), rawBody, c.Request.Header); err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
