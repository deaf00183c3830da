package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sendgrid/sendgrid-go"
	"github.com/twilio/twilio-go"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/config"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/constants"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/repositories"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/services"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

const (
	maxRetries     = 5
	connectTimeout = 5 * time.Second
	initialBackoff = 500 * time.Millisecond
	migrateTimeout = 30 * time.Second
)

// App owns the process-wide clients. Optional integrations are nil when
// their credentials are not configured.
type App struct {
	Config *config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Email  services.EmailSender
	SMS    services.SMSSender
}

func NewApp(cfg *config.Config) (*App, error) {
	var (
		dbPool  *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)

	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		dbPool, err = newDBPool(ctx, cfg.DBUrl)
		cancel()
		if err == nil {
			utils.Logger.Infof("Connected to DB on attempt %d", i)
			break
		}

		utils.Logger.WithError(err).Warnf(
			"Failed DB connect on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)

		if i == maxRetries {
			return nil, fmt.Errorf("unable to connect after %d attempts: %w", maxRetries, err)
		}
		time.Sleep(backoff)
		backoff *= 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()
	if err := repositories.Migrate(ctx, dbPool); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	app := &App{
		Config: cfg,
		DB:     dbPool,
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			utils.Logger.WithError(err).Warn("Redis unreachable; slot cache disabled")
			_ = client.Close()
		} else {
			app.Redis = client
		}
	} else {
		utils.Logger.Info("REDIS_ADDR not set; slot cache disabled")
	}

	if cfg.SendgridAPIKey != "" {
		app.Email = sendgrid.NewSendClient(cfg.SendgridAPIKey)
	}
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
		client.SetTimeout(constants.NotificationTimeout)
		app.SMS = client.Api
	}

	return app, nil
}

// SlotCache returns the Redis-backed cache, or a no-op one without Redis.
func (a *App) SlotCache() services.SlotCache {
	if a.Redis == nil {
		return services.NewNopSlotCache()
	}
	return services.NewRedisSlotCache(a.Redis)
}

// Notifier returns the email+SMS sink, or a no-op one when neither channel
// is configured.
func (a *App) Notifier(userRepo repositories.UserRepository) services.Notifier {
	if a.Email == nil && a.SMS == nil {
		utils.Logger.Info("No notification channel configured; notifications disabled")
		return services.NewNopNotifier()
	}
	return services.NewNotificationService(userRepo, a.Email, a.SMS, services.NotificationSettings{
		OrganizationName: a.Config.OrganizationName,
		FromEmail:        a.Config.LDFlag_SendgridFromEmail,
		FromPhone:        a.Config.LDFlag_TwilioFromPhone,
		SandboxMode:      a.Config.LDFlag_SendgridSandboxMode,
	})
}

func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Info("DB connection closed.")
	}
}

func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	return pgxpool.ConnectConfig(ctx, cfg)
}
