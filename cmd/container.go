// cmd/container.go
//
// Composition root. Owns infrastructure (DB, Redis, email) and composes
// bounded-context containers.
package main

import (
	"context"

	"github.com/Abraxas-365/matchhub/pkg/config"
	"github.com/Abraxas-365/matchhub/pkg/iam/account/accountinfra"
	"github.com/Abraxas-365/matchhub/pkg/iam/iamcontainer"
	"github.com/Abraxas-365/matchhub/pkg/iam/otp/otpinfra"
	"github.com/Abraxas-365/matchhub/pkg/logx"
	"github.com/Abraxas-365/matchhub/pkg/notifx"
	"github.com/Abraxas-365/matchhub/pkg/notifx/notifxconsole"
	"github.com/Abraxas-365/matchhub/pkg/notifx/notifxses"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Container holds shared infrastructure and composed module containers.
type Container struct {
	Config *config.Config

	// Infrastructure (shared across all modules)
	DB    *sqlx.DB
	Redis *redis.Client
	Email *notifx.Client

	// Bounded-context containers
	IAM *iamcontainer.Container
}

func NewContainer(cfg *config.Config) *Container {
	logx.Info("🔧 Initializing application container...")

	c := &Container{Config: cfg}

	c.initInfrastructure()
	c.initModules()

	logx.Info("✅ Application container initialized")
	return c
}

// ---------------------------------------------------------------------------
// Infrastructure — DB, Redis, email
// ---------------------------------------------------------------------------

func (c *Container) initInfrastructure() {
	logx.Info("🏗️ Initializing infrastructure...")
	ctx := context.Background()

	// 1. Database
	db, err := sqlx.Connect("postgres", c.Config.Database.DSN())
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
	c.DB = db
	logx.Info("  ✅ Database connected")

	if c.Config.Database.AutoMigrate {
		if err := accountinfra.Migrate(ctx, db.DB); err != nil {
			logx.Fatalf("Failed to migrate database: %v", err)
		}
		logx.Info("  ✅ Database migrated")
	}

	// 2. Redis
	c.Redis = redis.NewClient(&redis.Options{
		Addr:         c.Config.Redis.Address(),
		Password:     c.Config.Redis.Password,
		DB:           c.Config.Redis.DB,
		DialTimeout:  c.Config.Redis.DialTimeout,
		ReadTimeout:  c.Config.Redis.ReadTimeout,
		WriteTimeout: c.Config.Redis.WriteTimeout,
	})
	if _, err := c.Redis.Ping(ctx).Result(); err != nil {
		logx.Fatalf("Failed to connect to Redis: %v (Redis is required)", err)
	}
	logx.Info("  ✅ Redis connected")

	// 3. Email
	c.initEmail(ctx)

	logx.Info("✅ Infrastructure initialized")
}

func (c *Container) initEmail(ctx context.Context) {
	nc := c.Config.Notifx

	var provider notifx.EmailSender
	switch nc.Provider {
	case "ses":
		awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(nc.AWSRegion))
		if err != nil {
			logx.Fatalf("Unable to load AWS SDK config: %v", err)
		}
		provider = notifxses.NewSESProvider(ses.NewFromConfig(awsCfg), nc.FromAddress)
		logx.Infof("  ✅ SES email provider configured (region: %s)", nc.AWSRegion)
	default:
		provider = notifxconsole.NewConsoleProvider()
		logx.Warn("  ⚠️  Console email provider in use; codes are only logged")
	}

	c.Email = notifx.NewClient(provider, nc.FromAddress, nc.FromName)
}

// ---------------------------------------------------------------------------
// Module composition — each bounded context wires itself
// ---------------------------------------------------------------------------

func (c *Container) initModules() {
	logx.Info("📦 Initializing modules...")

	notifier, err := otpinfra.NewEmailNotifier(c.Email)
	if err != nil {
		logx.Fatalf("Failed to set up code emails: %v", err)
	}

	c.IAM = iamcontainer.New(iamcontainer.Deps{
		DB:          c.DB,
		Redis:       c.Redis,
		Cfg:         c.Config,
		OTPNotifier: notifier,
	})
}

// HealthChecks returns the dependency pings reported by /health.
func (c *Container) HealthChecks() map[string]func(context.Context) error {
	return map[string]func(context.Context) error{
		"db":    c.IAM.Accounts.Ping,
		"redis": c.IAM.KV.Ping,
	}
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		} else {
			logx.Info("  ✅ Database connection closed")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("  ✅ Redis connection closed")
		}
	}

	logx.Info("✅ Cleanup complete")
}
