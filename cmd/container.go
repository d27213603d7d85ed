// cmd/container.go
//
// Composition root. Owns infrastructure (DB, Redis, SES) and wires the
// identity and device modules. Nothing else constructs collaborators.
package main

import (
	"context"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/LuisIslasAcosta/apiVini/pkg/auth"
	"github.com/LuisIslasAcosta/apiVini/pkg/config"
	"github.com/LuisIslasAcosta/apiVini/pkg/device/deviceapi"
	"github.com/LuisIslasAcosta/apiVini/pkg/device/deviceinfra"
	"github.com/LuisIslasAcosta/apiVini/pkg/device/devicesrv"
	"github.com/LuisIslasAcosta/apiVini/pkg/identity/identityapi"
	"github.com/LuisIslasAcosta/apiVini/pkg/identity/identityinfra"
	"github.com/LuisIslasAcosta/apiVini/pkg/identity/identitysrv"
	"github.com/LuisIslasAcosta/apiVini/pkg/logx"
	"github.com/LuisIslasAcosta/apiVini/pkg/notify"
)

// Container holds shared infrastructure and the composed modules.
type Container struct {
	Config *config.Config

	DB    *sqlx.DB
	Redis *redis.Client

	TokenMiddleware *auth.TokenMiddleware

	IdentityHandlers *identityapi.Handlers
	DeviceHandlers   *deviceapi.Handlers
}

func NewContainer(cfg *config.Config) *Container {
	c := &Container{Config: cfg}

	c.initInfrastructure()
	c.initModules()

	logx.Info("application container initialized")
	return c
}

func (c *Container) initInfrastructure() {
	db, err := sqlx.Connect("postgres", c.Config.Database.DSN())
	if err != nil {
		logx.Fatalf("failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
	c.DB = db
	logx.Info("database connected")

	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Address(),
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	if err := c.Redis.Ping(context.Background()).Err(); err != nil {
		// The profile cache degrades to direct DB reads, so Redis being
		// down delays nothing but cached profiles.
		logx.Warnf("redis unavailable, profile cache disabled: %v", err)
	} else {
		logx.Info("redis connected")
	}
}

func (c *Container) initModules() {
	tokens := auth.NewJWTService(
		c.Config.Auth.JWTSecret,
		c.Config.Auth.AccessTokenTTL,
		c.Config.Auth.Issuer,
	)
	hasher := auth.NewBcryptHasher(10)
	c.TokenMiddleware = auth.NewTokenMiddleware(tokens)

	identityRepo := identityinfra.NewPostgresRepository(c.DB)
	profileCache := identityinfra.NewRedisProfileCache(c.Redis, c.Config.Redis.ProfileCacheTTL)

	identityService := identitysrv.NewService(
		identityRepo,
		hasher,
		tokens,
		profileCache,
		c.newNotifier(),
	)
	c.IdentityHandlers = identityapi.NewHandlers(identityService)

	deviceRepo := deviceinfra.NewPostgresRepository(c.DB)
	c.DeviceHandlers = deviceapi.NewHandlers(devicesrv.NewService(deviceRepo, identityRepo))
}

func (c *Container) newNotifier() notify.Notifier {
	switch c.Config.Notify.Mode {
	case "ses":
		awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(),
			awsConfig.WithRegion(c.Config.Notify.AWSRegion))
		if err != nil {
			logx.Fatalf("unable to load AWS SDK config: %v", err)
		}
		logx.Infof("SES notifier configured (region: %s)", c.Config.Notify.AWSRegion)
		return notify.NewSESNotifier(ses.NewFromConfig(awsCfg), c.Config.Notify.Sender)
	default:
		return notify.NewConsoleNotifier()
	}
}

func (c *Container) Cleanup() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("error closing database: %v", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("error closing redis: %v", err)
		}
	}
}
