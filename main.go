package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/utils"

	"institute_backend/internals/configs"
	database "institute_backend/internals/databases"
	"institute_backend/internals/features/attendance/geo"
	"institute_backend/internals/features/attendance/policy"
	"institute_backend/internals/features/attendance/scheduler"
	attService "institute_backend/internals/features/attendance/service"
	"institute_backend/internals/helpers/dbtime"
	middlewares "institute_backend/internals/middlewares"
	routes "institute_backend/internals/route"
	"institute_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	// 🕒 timezone institusi (day bucket + aturan telat)
	loc := configs.LoadLocation()
	dbtime.SetDefaultLocation(loc)

	attCfg, err := configs.LoadAttendanceConfig()
	if err != nil {
		log.Fatalf("❌ Konfigurasi absensi tidak valid: %v", err)
	}
	validator, err := geo.NewValidator(attCfg.Zones)
	if err != nil {
		log.Fatalf("❌ Zona absensi tidak valid: %v", err)
	}
	timeWindow := policy.NewTimeWindow(attCfg.ExpectedStart, attCfg.HalfDayMinHours, loc)

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// 🔎 Request-ID + timing
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		// HTTP timeout guard (selaras dengan statement_timeout di DB)
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
		return err
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + migrate + pool + warm-up
	database.ConnectDB()
	if err := database.AutoMigrate(database.DB); err != nil {
		log.Fatalf("❌ AutoMigrate gagal: %v", err)
	}
	database.TunePool()
	database.WarmUpQueries()

	if strings.EqualFold(os.Getenv("RUN_SEEDS"), "true") {
		seeds.RunAllSeeds(database.DB)
	}

	svc := attService.NewServices(database.DB, validator, timeWindow, attCfg.StoreTimeout)

	// ⏱ scheduler setelah DB siap
	bgCtx, stopBg := context.WithCancel(context.Background())
	defer stopBg()
	scheduler.StartRollupReconcileScheduler(bgCtx, svc.Aggregate, attCfg.ReconcileEvery)

	// ✅ Routes
	routes.SetupRoutes(app, database.DB, svc)

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	go func() {
		log.Printf("✅ Listening on :%s (zones=%d, tz=%s)", port, len(attCfg.Zones), loc)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	stopBg()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
