package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"stack-settlement/internal/core/domain"
	"stack-settlement/internal/core/ports"
	"stack-settlement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog creates an audit middleware that logs successful write operations.
// It maps route patterns to audit actions.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only audit successful write operations (status 2xx)
		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		if c.Request.Method != http.MethodPost {
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath())
		if action == "" {
			return
		}

		var userID *string
		if uid := UserID(c); uid != "" {
			userID = &uid
		}

		resourceID := c.GetString(CtxAuditResource)
		if resourceID == "" {
			resourceID = c.Param("id")
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"request_id": c.GetString(response.CtxRequestID),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			UserID:       userID,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   resourceID,
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now(),
		})
	}
}

func mapRouteToAction(route string) (domain.AuditAction, string) {
	switch route {
	case "/api/v1/burn/prepare":
		return domain.AuditActionBurnPrepare, "burn"
	case "/api/v1/burn/confirm":
		return domain.AuditActionBurnConfirm, "burn"
	case "/api/v1/rewards/:id/claim":
		return domain.AuditActionRewardClaim, "reward"
	case "/api/v1/internal/rewards/milestones":
		return domain.AuditActionRewardGrant, "reward"
	}
	return "", ""
}
