package admin

import (
	"time"

	"github.com/akeren/waitlist-api/config/router"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
	"github.com/akeren/waitlist-api/pkg/factory"
	"github.com/akeren/waitlist-api/pkg/ratelimit"
)

// Login attempts are throttled harder than the rest of the API to slow
// down credential guessing.
const (
	authRequestsPerWindow = 10
	authRateLimitWindow   = 15 * time.Minute
)

func NewAdminController(service AdminService, limiterCache factory.Cache) *router.RESTController {
	return router.NewVersionedRESTController(
		"AdminController",
		"api",
		"/admin",
		func(rs *router.RouterService, c *router.RESTController) {
			authLimiter := newAuthLimiter(limiterCache)

			rs.AddPostHandler(c, authLimiter, "/auth", authenticateHandler(service))
			rs.AddPostHandler(c, authLimiter, "/verify", verifyTokenHandler(service))
		},
	)
}

func newAuthLimiter(cache factory.Cache) ratelimit.RateLimiter {
	return factory.NewDefaultRateLimiterFactory(authRequestsPerWindow, authRateLimitWindow, cache, nil).CreateRateLimiter()
}

func authenticateHandler(service AdminService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req AuthRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind admin auth request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		response, err := service.Authenticate(ctx.Request.Context(), &req)
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		return router.OKResult(response, "Admin access granted")
	}
}

func verifyTokenHandler(service AdminService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req VerifyRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind admin verify request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		response, err := service.VerifyToken(ctx.Request.Context(), req.Token)
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		return router.OKResult(response, "Token verified successfully")
	}
}
