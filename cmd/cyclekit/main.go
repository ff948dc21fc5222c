package main

import (
	"context"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/cyclekit/cyclekit/internal/api"
	"github.com/cyclekit/cyclekit/internal/config"
	"github.com/cyclekit/cyclekit/internal/db"
	"github.com/cyclekit/cyclekit/internal/logger"
	"github.com/cyclekit/cyclekit/internal/notify"
	"github.com/cyclekit/cyclekit/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("config load failed")
	}
	logger.Init(cfg.Server.LogLevel, cfg.Server.Environment)
	log := logger.Get()

	location := cfg.Location()
	time.Local = location

	database, err := db.OpenSQLite(cfg.Database.Path)
	if err != nil {
		log.WithError(err).Fatal("database init failed")
	}

	handler, err := api.NewHandler(database, cfg.Auth.SecretKey, location, cfg.Auth.CookieSecure)
	if err != nil {
		log.WithError(err).Fatal("handler init failed")
	}
	app := newApp(handler, log)

	sender, err := notify.NewSender(cfg.Notifications.TelegramToken, log)
	if err != nil {
		log.WithError(err).Fatal("notification sender init failed")
	}
	repos := db.NewRepositories(database)
	notifier := services.NewNotificationService(repos.Users, repos.Periods, sender, location)
	scheduler := notify.NewScheduler(notifier, cfg.Notifications.CronSpec, location, log)
	if err := scheduler.Start(); err != nil {
		log.WithError(err).Fatal("notification scheduler init failed")
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		scheduler.Stop(shutdownCtx)
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.WithError(err).Error("server shutdown failed")
		}
	}()

	log.WithFields(logrus.Fields{
		"port": cfg.Server.Port,
		"db":   cfg.Database.Path,
		"tz":   location.String(),
	}).Info("cyclekit listening")
	if err := app.Listen(listenAddress(cfg.Server.Port)); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func newApp(handler *api.Handler, log *logrus.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "cyclekit",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{Output: log.Writer()}))
	app.Use(compress.New())
	api.RegisterRoutes(app, handler)
	return app
}

func listenAddress(port int) string {
	return ":" + strconv.Itoa(port)
}
