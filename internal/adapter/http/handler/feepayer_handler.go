package handler

import (
	"stack-settlement/internal/core/ports"
	"stack-settlement/pkg/response"

	"github.com/gin-gonic/gin"
)

// FeePayerBalance handles GET /api/v1/fee-payer/balance.
func FeePayerBalance(svc ports.FeePayerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bal, err := svc.Balance(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, bal)
	}
}
