package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	verificationdomain "github.com/debdutisardar8903/wallineex-backend/internal/verification/domain"
	"github.com/gin-gonic/gin"
)

// AdminRequired authenticates maintenance calls with the operator token.
// No token configured means the admin surface is disabled outright.
func (s *Server) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.AdminToken == "" {
			s.abortWithError(c, ErrNotFound)
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		parts := strings.Fields(header)
		if len(parts) != 2 || parts[0] != "Bearer" {
			s.abortWithError(c, ErrUnauthorized)
			return
		}
		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(s.cfg.AdminToken)) != 1 {
			s.abortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}

type adminInvalidateRequest struct {
	OrderID string `json:"orderId"`
}

// AdminInvalidate drops the cached result for one order.
func (s *Server) AdminInvalidate(c *gin.Context) {
	var req adminInvalidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, invalidRequestError("request body must be JSON with an orderId field"))
		return
	}

	orderID := strings.TrimSpace(req.OrderID)
	if !verificationdomain.ValidOrderID(orderID) {
		s.abortWithError(c, verificationdomain.ErrInvalidOrderID)
		return
	}

	s.verifySvc.Invalidate(orderID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// AdminClear drops the whole result cache and all throttle state.
func (s *Server) AdminClear(c *gin.Context) {
	s.verifySvc.ClearState()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
