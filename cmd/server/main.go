package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/database"
	"github.com/example/storefront/internal/logging"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/notify"
	"github.com/example/storefront/internal/routes"
	"github.com/example/storefront/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logging.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, database.ParseLogLevel(cfg.DBLogLevel))
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}

	notifier, err := newNotifier(context.Background(), cfg, zlog)
	if err != nil {
		zlog.Fatal("notifier setup failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:      "Storefront Backend",
		ErrorHandler: middleware.ErrorHandler(zlog),
	})

	app.Use(recover.New())
	app.Use(logger.New())

	opts := routes.Options{Notifier: notifier, Logger: zlog}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		opts.OrderAlerts = notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID, cfg.OTPTTL)
	}
	routes.Register(app, db, cfg, opts)

	zlog.Info("starting server", zap.String("port", cfg.AppPort), zap.String("notify_channel", cfg.NotifyChannel))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		zlog.Fatal("fiber.Listen error", zap.Error(err))
	}
}

func newNotifier(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (services.Notifier, error) {
	switch cfg.NotifyChannel {
	case config.ChannelSMTP:
		return notify.NewEmail(notify.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			TTL:      cfg.OTPTTL,
		}), nil
	case config.ChannelTelegram:
		return notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID, cfg.OTPTTL), nil
	case config.ChannelSQS:
		return notify.NewQueueFromEnv(ctx, cfg.AWSRegion, cfg.OTPQueueURL)
	default:
		return notify.NewLog(zlog), nil
	}
}
