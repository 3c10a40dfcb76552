package router

import (
	"net/http"

	authsvc "confina-backend/internal/application/auth"
	closesvc "confina-backend/internal/application/closeout"
	compsvc "confina-backend/internal/application/compositions"
	feedsvc "confina-backend/internal/application/feeding"
	finsvc "confina-backend/internal/application/financial"
	intakesvc "confina-backend/internal/application/intake"
	lotsvc "confina-backend/internal/application/lots"
	pensvc "confina-backend/internal/application/pens"
	pricesvc "confina-backend/internal/application/pricing"
	weighsvc "confina-backend/internal/application/weighings"
	"confina-backend/internal/config"
	"confina-backend/internal/constants"
	"confina-backend/internal/infrastructure/database"
	authhandler "confina-backend/internal/interfaces/handlers/auth"
	feedhandler "confina-backend/internal/interfaces/handlers/feedings"
	finhandler "confina-backend/internal/interfaces/handlers/financial"
	healthhandler "confina-backend/internal/interfaces/handlers/health"
	inghandler "confina-backend/internal/interfaces/handlers/ingredients"
	intakehandler "confina-backend/internal/interfaces/handlers/intake"
	lothandler "confina-backend/internal/interfaces/handlers/lots"
	penhandler "confina-backend/internal/interfaces/handlers/pens"
	rationhandler "confina-backend/internal/interfaces/handlers/rations"
	weighhandler "confina-backend/internal/interfaces/handlers/weighings"
	"confina-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
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

func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionHandler, redisClient, err := middleware.Session(middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}
	rdb := redisClient
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.ResponseFormatter())
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             nil,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
	}

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	var userFinder authsvc.UserFinder
	if db != nil {
		userFinder = &authsvc.GormUserFinder{DB: db}
	}
	ah := &authhandler.Handlers{
		DB:         db,
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/register", ah.Register)
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	if db != nil && rdb != nil {
		RegisterAPIRoutes(app, db)
	}

	return app, db, rdb, nil
}

// RegisterAPIRoutes wires all farm-scoped domain routes. Split out so tests
// can mount them on an app with their own session stub.
func RegisterAPIRoutes(app *fiber.App, db *gorm.DB) {
	compositions := &compsvc.Service{DB: db}
	feeding := &feedsvc.Service{DB: db, Compositions: compositions}
	closeout := &closesvc.Service{DB: db, Compositions: compositions}

	// Pens
	ph := &penhandler.Handlers{Service: &pensvc.Service{DB: db}}
	pg := app.Group("/api/v1/pens", middleware.RequireAuth())
	pg.Get("/", middleware.AuthorizePermission(constants.ViewData), ph.List)
	pg.Get("/:id", middleware.AuthorizePermission(constants.ViewData), ph.Get)
	pg.Post("/", middleware.AuthorizePermission(constants.ManagePens), ph.Create)
	pg.Put("/:id", middleware.AuthorizePermission(constants.ManagePens), ph.Update)
	pg.Patch("/:id/status", middleware.AuthorizePermission(constants.ManagePens), ph.SetStatus)

	// Ingredients + price ledger
	ih := &inghandler.Handlers{Service: &pricesvc.Service{DB: db}}
	ig := app.Group("/api/v1/ingredients", middleware.RequireAuth())
	ig.Get("/", middleware.AuthorizePermission(constants.ViewData), ih.List)
	ig.Get("/:id/prices", middleware.AuthorizePermission(constants.ViewData), ih.History)
	ig.Post("/", middleware.AuthorizePermission(constants.ManageIngredients), ih.Create)
	ig.Put("/:id", middleware.AuthorizePermission(constants.ManageIngredients), ih.Update)
	ig.Delete("/:id", middleware.AuthorizePermission(constants.ManageIngredients), ih.Deactivate)

	// Rations + composition versions
	rh := &rationhandler.Handlers{Service: compositions}
	rg := app.Group("/api/v1/rations", middleware.RequireAuth())
	rg.Get("/", middleware.AuthorizePermission(constants.ViewData), rh.List)
	rg.Get("/:id/compositions", middleware.AuthorizePermission(constants.ViewData), rh.ListVersions)
	rg.Get("/:id/compositions/current", middleware.AuthorizePermission(constants.ViewData), rh.Current)
	rg.Post("/", middleware.AuthorizePermission(constants.ManageCompositions), rh.Create)
	rg.Post("/:id/compositions", middleware.AuthorizePermission(constants.ManageCompositions), rh.CreateVersion)

	// Feedings
	fh := &feedhandler.Handlers{Service: feeding}
	fg := app.Group("/api/v1/feedings", middleware.RequireAuth())
	fg.Get("/", middleware.AuthorizePermission(constants.ViewData), fh.List)
	fg.Get("/summary", middleware.AuthorizePermission(constants.ViewData), fh.Summary)
	fg.Post("/", middleware.AuthorizePermission(constants.CreateFeeding), fh.Create)
	fg.Delete("/:id", middleware.AuthorizePermission(constants.DeleteFeeding), fh.Delete)

	// Intake board
	inh := &intakehandler.Handlers{Service: &intakesvc.Service{DB: db}}
	app.Get("/api/v1/intake", middleware.RequireAuth(),
		middleware.AuthorizePermission(constants.ViewData), inh.Board)

	// Lots, weighings, closeout
	lh := &lothandler.Handlers{Service: &lotsvc.Service{DB: db}, Closeout: closeout}
	wh := &weighhandler.Handlers{Service: &weighsvc.Service{DB: db}}
	lg := app.Group("/api/v1/lots", middleware.RequireAuth())
	lg.Get("/", middleware.AuthorizePermission(constants.ViewData), lh.List)
	lg.Post("/", middleware.AuthorizePermission(constants.ManageLots), lh.Create)
	lg.Delete("/costs/:costId", middleware.AuthorizePermission(constants.ManageExtraCosts), lh.DeleteExtraCost)
	lg.Get("/:id", middleware.AuthorizePermission(constants.ViewData), lh.Get)
	lg.Put("/:id", middleware.AuthorizePermission(constants.ManageLots), lh.Update)
	lg.Get("/:id/closeout", middleware.AuthorizePermission(constants.ViewData), lh.GetCloseout)
	lg.Get("/:id/simulate", middleware.AuthorizePermission(constants.ViewData), lh.Simulate)
	lg.Post("/:id/close", middleware.AuthorizePermission(constants.CloseLot), lh.Close)
	lg.Get("/:id/costs", middleware.AuthorizePermission(constants.ViewData), lh.ListExtraCosts)
	lg.Post("/:id/costs", middleware.AuthorizePermission(constants.ManageExtraCosts), lh.AddExtraCost)
	lg.Get("/:lotId/weighings", middleware.AuthorizePermission(constants.ViewData), wh.List)
	lg.Post("/:lotId/weighings", middleware.AuthorizePermission(constants.CreateWeighing), wh.Create)

	// Financial ledger
	fih := &finhandler.Handlers{Service: &finsvc.Service{DB: db}}
	fig := app.Group("/api/v1/financial", middleware.RequireAuth())
	fig.Get("/", middleware.AuthorizePermission(constants.ViewData), fih.List)
	fig.Get("/summary", middleware.AuthorizePermission(constants.ViewData), fih.Summary)
	fig.Post("/", middleware.AuthorizePermission(constants.ManageFinancial), fih.Create)
	fig.Delete("/:id", middleware.AuthorizePermission(constants.ManageFinancial), fih.Delete)
}

func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
