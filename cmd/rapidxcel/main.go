package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/pkg/errors"

	"rapidxcel/internal/cache"
	"rapidxcel/internal/config"
	"rapidxcel/internal/http/handlers"
	applog "rapidxcel/internal/log"
	"rapidxcel/internal/repos"
	"rapidxcel/web"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatal(err)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Optional file logging
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.Log.File, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DB.DSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if cfg.Seed {
		if err := repos.Seed(db, cfg.Auth.BcryptCost); err != nil {
			return err
		}
	}

	// Shared storage for sessions, csrf tokens and rate limits. nil keeps
	// each middleware on its in-memory default.
	var storage fiber.Storage
	if cfg.Session.Backend == "redis" {
		rs, err := cache.Dial(cfg.Session.RedisAddr, cfg.Session.RedisPassword, cfg.Session.RedisDB)
		if err != nil {
			return err
		}
		defer rs.Close()
		storage = rs
		log.Printf("[session] redis %s", cfg.Session.RedisAddr)
	}

	app := fiber.New(fiber.Config{
		Views:        web.Engine(),
		BodyLimit:    cfg.HTTP.BodyLimit,
		ErrorHandler: handlers.ErrorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Storage:    storage,
	}))
	app.Use("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		Storage:    storage,
		Next:       func(c *fiber.Ctx) bool { return c.Method() != fiber.MethodPost },
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|login"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}))
	app.Use(csrf.New(csrf.Config{
		Extractor: func(c *fiber.Ctx) (string, error) {
			if tok, err := csrf.CsrfFromForm("csrf")(c); err == nil {
				return tok, nil
			}
			return csrf.CsrfFromHeader(csrf.HeaderName)(c)
		},
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.Session.CookieSecure,
		Storage:        storage,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"reason": err.Error()})
			return c.Status(fiber.StatusForbidden).Render("error", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	// ---------- App handlers ----------
	store := handlers.NewSessionStore(cfg.Session.TTL, cfg.Session.CookieSecure, storage)
	handlers.Mount(app, handlers.NewDeps(db, cfg, store))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(":" + cfg.HTTP.Port)
		stop()
	}()

	<-ctx.Done()
	select {
	case err := <-listenErr:
		if err != nil {
			return errors.Wrap(err, "http listen")
		}
		return nil
	default:
	}
	log.Printf("[http] shutting down")
	return app.ShutdownWithTimeout(10 * time.Second)
}
