package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"mathiphone/internal/config"
	"mathiphone/internal/http/handlers"
	applog "mathiphone/internal/log"
	"mathiphone/internal/ratefeed"
	"mathiphone/internal/repos"
	"mathiphone/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Auth wiring
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := authSvc.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("[admin] %v", err)
		}
		log.Printf("[admin] ensured admin account %s", cfg.AdminEmail)
	}

	engine := handlers.Views(cfg.TemplatesDir)
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    1 << 20, // 1 MiB
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(handlers.CurrentUser(authSvc))
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/static/")
		},
	}))
	app.Use(handlers.CSRF(cfg.CookieSecure))
	app.Use(handlers.CSRFLocals)

	// ---------- Static assets ----------
	log.Printf("[static] /static -> %s", cfg.StaticDir)
	app.Static("/static", cfg.StaticDir)

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, authSvc)
	deps.Routes(app)

	// 404
	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	// ---------- Rate feed ----------
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var refresher *ratefeed.Refresher
	if cfg.RatesRefresh {
		fetcher := &ratefeed.Fetcher{CryptoURL: cfg.CryptoRatesURL, FiatURL: cfg.FiatRatesURL, Timeout: ratefeed.DefaultTimeout}
		refresher = ratefeed.NewRefresher(fetcher, deps.Rates, cfg.RatesRefreshInterval)
		refresher.Start(ctx)
	}

	go func() {
		<-ctx.Done()
		applog.Info(nil, "server.shutdown", nil)
		if refresher != nil {
			refresher.Stop()
		}
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
