package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tradeflowhq/tradeflow_backend/internal/utils"
)

// untrackedPaths are not worth an analytics event. The SSE streams are
// excluded because a single long-lived subscription would otherwise be
// recorded once per connect and tell us nothing about usage.
var untrackedPaths = map[string]bool{
	"/health": true,
	"/":       true,
}

// PosthogMiddleware records one event per successful authenticated request,
// named after the matched route. Events for anonymous or failed requests are
// dropped.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if posthogClient == nil || !posthogClient.IsInitialized() || untrackedPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		// Route path becomes the event name, e.g.
		// "/api/v1/companies/:company_id/jobs" -> "api_v1_companies_jobs".
		routePath := c.FullPath()
		if routePath == "" || strings.HasSuffix(routePath, "/events") {
			return
		}
		var parts []string
		for _, segment := range strings.Split(strings.TrimPrefix(routePath, "/"), "/") {
			if strings.HasPrefix(segment, ":") {
				continue
			}
			parts = append(parts, segment)
		}
		eventName := strings.Join(parts, "_")
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		}
		if companyID := c.Param("company_id"); companyID != "" {
			props["company_id"] = companyID
		}

		posthogClient.Enqueue(userID, eventName, props)
	}
}
