package router

import (
	qmsvc "quartermaster-backend/internal/application/quartermaster"
	repairsvc "quartermaster-backend/internal/application/repairs"
	unitsvc "quartermaster-backend/internal/application/units"
	"quartermaster-backend/internal/config"
	"quartermaster-backend/internal/infrastructure/database"
	"quartermaster-backend/internal/infrastructure/lock"
	healthhandler "quartermaster-backend/internal/interfaces/handlers/health"
	qmhandler "quartermaster-backend/internal/interfaces/handlers/quartermaster"
	repairhandler "quartermaster-backend/internal/interfaces/handlers/repairs"
	unithandler "quartermaster-backend/internal/interfaces/handlers/units"
	"quartermaster-backend/internal/middleware"
	"quartermaster-backend/internal/pkg/partxml"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp opens the database (and Redis when configured) and wires every route.
func CreateApp(cfg *config.Config, log zerolog.Logger) (*fiber.App, *gorm.DB, *redis.Client, error) {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}

	var rdb *redis.Client
	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opts)
		locker = &lock.RedisLocker{Rdb: rdb, TTL: cfg.RepairLockTTL}
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(log),
		BodyLimit:             8 * 1024 * 1024,
	})
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger(log))
	app.Use(middleware.Metrics())

	hh := &healthhandler.Handlers{Rdb: rdb, DB: &gormDBPinger{db: db}}
	app.Get("/health/json", hh.JSON)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	graph := &unitsvc.Graph{DB: db}
	store := &qmsvc.Store{DB: db}
	repairs := repairsvc.NewService(db, locker, log)

	uh := &unithandler.Handlers{Graph: graph, Codec: partxml.New(log)}
	rh := &repairhandler.Handlers{Service: repairs}
	qh := &qmhandler.Handlers{Store: store}

	ug := app.Group("/api/v1/units")
	ug.Post("/", uh.CreateUnit)
	ug.Get("/:unit_id/parts", uh.ListParts)
	ug.Get("/:unit_id/parts/export", uh.Export)
	ug.Post("/:unit_id/parts/import", uh.Import)
	ug.Post("/:unit_id/bays", uh.AddBay)
	ug.Post("/:unit_id/missing", uh.AddMissing)
	ug.Get("/:unit_id/missing", uh.ListMissing)
	ug.Get("/:unit_id/shopping-list", rh.ShoppingList)
	ug.Post("/:unit_id/repairs", rh.FixAll)

	app.Post("/api/v1/repairs/:part_id/fix", rh.Fix)

	qg := app.Group("/api/v1/quartermaster")
	qg.Get("/parts", qh.ListSpares)
	qg.Post("/parts", qh.AddSpares)

	return app, db, rdb, nil
}
