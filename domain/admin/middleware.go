package admin

import (
	"net/http"
	"strings"

	"github.com/akeren/waitlist-api/config/router"
)

// AdminEmailContextKey is the gin context key under which RequireAdmin
// stores the authenticated admin's email.
const AdminEmailContextKey = "adminEmail"

// RequireAdmin aborts with 401 unless the request carries a valid
// "Authorization: Bearer <token>" header for an allow-listed admin.
func RequireAdmin(service AdminService) router.MiddlewareFunc {
	return func(ctx *router.RequestContext) {
		logger := router.GetLogger(ctx)

		token, ok := bearerToken(ctx.GetHeader("Authorization"))
		if !ok {
			ctx.AbortWithStatusJSON(
				http.StatusUnauthorized,
				router.UnauthorizedResult("Missing or malformed Authorization header").ToJSON(),
			)
			return
		}

		result, err := service.VerifyToken(ctx.Request.Context(), token)
		if err != nil {
			logger.Warn("Rejected admin request", "path", ctx.FullPath(), "error", err)
			ctx.AbortWithStatusJSON(
				http.StatusUnauthorized,
				router.UnauthorizedResult("Invalid or expired admin token").ToJSON(),
			)
			return
		}

		ctx.Set(AdminEmailContextKey, result.Email)
		ctx.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "

	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
