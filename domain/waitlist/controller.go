package waitlist

import (
	"bytes"
	"net/http"
	"time"

	"github.com/akeren/waitlist-api/config/router"
	"github.com/akeren/waitlist-api/internal/log"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
	"github.com/akeren/waitlist-api/pkg/factory"
	"github.com/akeren/waitlist-api/pkg/ratelimit"
	"gorm.io/gorm"
)

// Per-endpoint budgets. Public signup is the abuse magnet and gets the
// tightest window; admin endpoints sit behind the bearer token already.
const (
	signupRequestsPerWindow = 5
	verifyRequestsPerWindow = 10
	adminRequestsPerWindow  = 100
	rateLimitWindow         = 15 * time.Minute
)

func NewWaitlistController(
	db *gorm.DB,
	logger *log.Logger,
	cache Cache,
	limiterCache factory.Cache,
	adminGuard router.MiddlewareFunc,
) *router.RESTController {

	return router.NewVersionedRESTController(
		"WaitlistController",
		"api",
		"/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			repository := NewWaitlistRepository(db)
			service := NewWaitlistService(logger, repository, cache)

			signupLimiter := newEndpointLimiter(signupRequestsPerWindow, limiterCache)
			verifyLimiter := newEndpointLimiter(verifyRequestsPerWindow, limiterCache)
			adminLimiter := newEndpointLimiter(adminRequestsPerWindow, limiterCache)

			rs.AddPostHandler(c, signupLimiter, "", createSignupHandler(service))
			rs.AddPostHandler(c, verifyLimiter, "/verify", verifyEmailHandler(service))
			rs.AddGetHandler(c, adminLimiter, "", listSignupsHandler(service), adminGuard)
			rs.AddPatchHandler(c, adminLimiter, "/:id", updateSignupHandler(service), adminGuard)
			rs.AddPostHandler(c, adminLimiter, "/bulk-update", bulkUpdateHandler(service), adminGuard)
			rs.AddRawGetHandler(c, adminLimiter, "/export", exportSignupsHandler(service), adminGuard)
		},
	)
}

func newEndpointLimiter(requests int, cache factory.Cache) ratelimit.RateLimiter {
	return factory.NewDefaultRateLimiterFactory(requests, rateLimitWindow, cache, nil).CreateRateLimiter()
}

func createSignupHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req CreateSignupRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind signup request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		response, err := service.CreateSignup(
			ctx.Request.Context(),
			&req,
			ctx.ClientIP(),
			ctx.Request.UserAgent(),
		)
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		return &router.ServiceResult{
			StatusCode: http.StatusCreated,
			Data:       response,
			Message:    "Successfully joined the waitlist!",
		}
	}
}

func verifyEmailHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req VerifyEmailRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind verification request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		response, err := service.VerifyEmail(ctx.Request.Context(), &req)
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		return router.OKResult(response, "Email verified successfully")
	}
}

func listSignupsHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		response, err := service.ListSignups(ctx.Request.Context(), ctx.Query("status"))
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		return router.OKResult(response, "Waitlist signups retrieved successfully")
	}
}

func updateSignupHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		id, errResult := router.ParseIDParam(ctx, "id")
		if errResult != nil {
			return errResult
		}

		var req UpdateSignupRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind update request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		response, err := service.UpdateSignup(ctx.Request.Context(), id, &req)
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		return router.OKResult(response, "Waitlist signup updated successfully")
	}
}

func bulkUpdateHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req BulkUpdateRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind bulk update request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		count, err := service.BulkUpdate(ctx.Request.Context(), &req)
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		return router.OKResult(map[string]int{"updated": count}, "Waitlist signups updated successfully")
	}
}

func exportSignupsHandler(service WaitlistService) router.MiddlewareFunc {
	return func(ctx *router.RequestContext) {
		logger := router.GetLogger(ctx)

		// Buffer the export so a repository failure can still produce a
		// clean JSON error instead of a half-written CSV body.
		var buf bytes.Buffer
		if err := service.WriteCSV(ctx.Request.Context(), &buf); err != nil {
			logger.Error("Failed to export waitlist signups", "error", err)
			ctx.JSON(
				apperrors.HTTPStatusCode(err),
				router.ErrorResult(apperrors.HTTPStatusCode(err), apperrors.GetHumanReadableMessage(err), nil).ToJSON(),
			)
			return
		}

		ctx.Header("Content-Disposition", `attachment; filename="waitlist-signups.csv"`)
		ctx.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	}
}
