package domain

import (
	"github.com/akeren/waitlist-api/config"
	"github.com/akeren/waitlist-api/domain/admin"
	"github.com/akeren/waitlist-api/domain/monitoring"
	"github.com/akeren/waitlist-api/domain/waitlist"
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	adminFactory := admin.NewAdminServiceFactory(appConfig.DB, appConfig.Logger, appConfig.Cache)
	waitlistFactory := waitlist.NewWaitlistServiceFactory(appConfig.DB, appConfig.Logger, appConfig.Cache, appConfig.Cache)

	appConfig.RouterService.MountController(monitoring.NewMonitoringController(appConfig.DB, appConfig.Logger, appConfig.Cache))
	appConfig.RouterService.MountController(adminFactory.CreateController())
	appConfig.RouterService.MountController(waitlistFactory.CreateController(adminFactory.CreateGuard()))
}
