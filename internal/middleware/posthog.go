package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/bank_reconciliation/internal/utils"
	"github.com/gin-gonic/gin"
)

// PosthogMiddleware records one usage event per successful authenticated API call,
// named after the route template (e.g. "api_v1_workplaces_:workplace_id_reconciliations").
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if posthogClient == nil || !posthogClient.IsInitialized() {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			return
		}
		eventName := strings.ReplaceAll(strings.TrimPrefix(c.FullPath(), "/"), "/", "_")
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
		}
		if workplaceID := c.Param("workplace_id"); workplaceID != "" {
			props["workplace_id"] = workplaceID
		}
		posthogClient.Enqueue(userID, eventName, props)
	}
}
