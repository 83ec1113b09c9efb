package waitlist

import (
	"github.com/akeren/waitlist-api/config/router"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/pkg/factory"
	"gorm.io/gorm"
)

type WaitlistServiceFactory interface {
	CreateService() WaitlistService
	CreateController(adminGuard router.MiddlewareFunc) *router.RESTController
}

type DefaultWaitlistServiceFactory struct {
	db           *gorm.DB
	logger       *log.Logger
	cache        Cache
	limiterCache factory.Cache
}

func NewWaitlistServiceFactory(db *gorm.DB, logger *log.Logger, cache Cache, limiterCache factory.Cache) WaitlistServiceFactory {
	return &DefaultWaitlistServiceFactory{
		db:           db,
		logger:       logger,
		cache:        cache,
		limiterCache: limiterCache,
	}
}

func (f *DefaultWaitlistServiceFactory) CreateService() WaitlistService {
	repository := NewWaitlistRepository(f.db)
	return NewWaitlistService(f.logger, repository, f.cache)
}

func (f *DefaultWaitlistServiceFactory) CreateController(adminGuard router.MiddlewareFunc) *router.RESTController {
	return NewWaitlistController(f.db, f.logger, f.cache, f.limiterCache, adminGuard)
}
