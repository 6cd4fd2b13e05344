package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/clinic-management/internal/audit"
	"github.com/iliyamo/clinic-management/internal/config"
	"github.com/iliyamo/clinic-management/internal/database"
	"github.com/iliyamo/clinic-management/internal/handler"
	"github.com/iliyamo/clinic-management/internal/queue"
	"github.com/iliyamo/clinic-management/internal/router"
	"github.com/iliyamo/clinic-management/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	// Fatal startup condition: no identity operation is served without a
	// verified database handle.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	// Activity entries go to the daily files and, best-effort, onto the
	// broker for downstream consumers.
	activity := audit.Fanout{
		audit.NewFileSink(cfg.LogDir),
		service.NewActivityPublisher(),
	}
	errlog := audit.NewErrorFileSink(cfg.LogDir)

	users := service.New(db, cfg, activity, errlog)

	// Welcome-mail consumer; reconnects on broker failure in background.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; auth rate limiting disabled")
	}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, cfg,
		handler.NewAuthHandler(cfg, users),
		handler.NewProfileHandler(users),
		handler.NewAdminHandler(users),
		rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
