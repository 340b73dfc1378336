package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/trademcp/trademcp/internal/api"
	"github.com/trademcp/trademcp/internal/cerebras"
	"github.com/trademcp/trademcp/internal/controller"
	"github.com/trademcp/trademcp/internal/kite"
	"github.com/trademcp/trademcp/internal/migrations"
	"github.com/trademcp/trademcp/internal/service"
	"github.com/trademcp/trademcp/internal/storage/postgres"
	redisstorage "github.com/trademcp/trademcp/internal/storage/redis"
	"github.com/trademcp/trademcp/internal/util"

	_ "github.com/lib/pq"
)

func main() {
	ctx := context.Background()
	logger := util.NewZapLogger()

	db, dbCleanup, err := util.NewDBConnection(logger)
	if err != nil {
		logger.Fatal(zap.Error(err))
	}
	if err := migrations.RunMigrations(db, logger, "./internal/migrations"); err != nil {
		logger.Fatal(zap.Error(err))
	}

	redisClient, redisCleanup, err := util.NewRedisClient(ctx, logger, util.NewRedisConfig())
	if err != nil {
		logger.Fatal(zap.Error(err))
	}

	cleanupFuncs := []func(){dbCleanup, redisCleanup}

	kiteConfig := util.NewKiteConfig()
	newBroker := func(apiKey, accessToken string) service.BrokerClient {
		client := kite.NewClient(apiKey,
			kite.WithBaseURL(kiteConfig.APIBase),
			kite.WithLoginBase(kiteConfig.LoginBase),
		)
		if accessToken != "" {
			client.SetAccessToken(accessToken)
		}
		return client
	}

	tokenCache := redisstorage.NewTokenCache(redisClient)
	handshakes := redisstorage.NewHandshakeStore(redisClient)
	users := postgres.NewUserRepository(db)

	authService := service.NewAuthService(users, util.NewTokenConfig(), logger)
	kiteAuthService := service.NewKiteAuthService(handshakes, tokenCache, newBroker, kiteConfig, logger)
	orderService := service.NewOrderService(tokenCache, newBroker, logger)
	profileService := service.NewProfileService(tokenCache, newBroker, logger)

	aiClient := cerebras.NewClient(util.NewCerebrasConfig())
	reportService := service.NewReportService(orderService, profileService, aiClient, logger)

	c := controller.NewController(logger, authService, kiteAuthService, orderService, profileService, reportService)

	apiServer := api.NewAPI(c, util.NewServerConfig(), logger, cleanupFuncs)
	apiServer.Run(ctx)
}
