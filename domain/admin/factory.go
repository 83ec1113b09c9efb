package admin

import (
	"github.com/akeren/waitlist-api/config/router"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/pkg/factory"
	"gorm.io/gorm"
)

type AdminServiceFactory interface {
	CreateService() AdminService
	CreateController() *router.RESTController
	CreateGuard() router.MiddlewareFunc
}

type DefaultAdminServiceFactory struct {
	logger       *log.Logger
	limiterCache factory.Cache
	service      AdminService
}

func NewAdminServiceFactory(db *gorm.DB, logger *log.Logger, limiterCache factory.Cache) AdminServiceFactory {
	service := NewAdminService(logger, NewUserRepository(db), NewEnvAllowList(), SecretFromEnv(logger))

	return &DefaultAdminServiceFactory{
		logger:       logger,
		limiterCache: limiterCache,
		service:      service,
	}
}

func (f *DefaultAdminServiceFactory) CreateService() AdminService {
	return f.service
}

func (f *DefaultAdminServiceFactory) CreateController() *router.RESTController {
	return NewAdminController(f.service, f.limiterCache)
}

func (f *DefaultAdminServiceFactory) CreateGuard() router.MiddlewareFunc {
	return RequireAdmin(f.service)
}
