package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salonbook/config"
	"salonbook/cron"
	"salonbook/database"
	"salonbook/database/repository"
	appointmentRepo "salonbook/database/repository/appointment"
	cashRepo "salonbook/database/repository/cash"
	catalogRepo "salonbook/database/repository/catalog"
	crmRepo "salonbook/database/repository/crm"
	timeblockRepo "salonbook/database/repository/timeblock"
	"salonbook/handlers"
	"salonbook/middleware"
	"salonbook/routes"
	"salonbook/services/booking"
	"salonbook/services/cash"
	"salonbook/services/catalog"
	"salonbook/services/crm"
	"salonbook/services/tasks"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	database.InitDB()
	utils.InitCache()
	loc := config.Location()
	biz := config.AppConfig.BusinessID

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger())

	// repositories.
	catRepo := catalogRepo.NewMongoCatalogRepo()
	blockRepo := timeblockRepo.NewMongoTimeBlockRepo()
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()
	cRepo := cashRepo.NewMongoCashRepo()
	customerRepo := crmRepo.NewMongoCRMRepo()
	tx := repository.NewMongoTransactor()

	idxCtx, cancelIdx := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repository.EnsureAllIndexes(idxCtx, catRepo, blockRepo, apptRepo, cRepo, customerRepo); err != nil {
		logger.Fatal("main: failed to create indexes", zap.Error(err))
	}
	cancelIdx()

	// services.
	catalogService := &catalog.DefaultCatalogService{
		Repo:       catRepo,
		TimeBlocks: blockRepo,
		Cache:      catalog.NewRedisCache(utils.GetCacheClient()),
		CacheTTL:   config.AppConfig.CatalogCacheTTL,
		Logger:     logger.Named("catalog"),
	}
	cashService := &cash.DefaultCashService{
		Repo:     cRepo,
		Logger:   logger.Named("cash"),
		Location: loc,
	}
	crmService := &crm.DefaultCRMService{
		Repo:            customerRepo,
		Tx:              tx,
		Logger:          logger.Named("crm"),
		ChurnWindowDays: config.AppConfig.ChurnWindowDays,
	}
	bookingService := &booking.DefaultBookingService{
		Catalog:      catalogService,
		TimeBlocks:   blockRepo,
		Appointments: apptRepo,
		Cash:         cashService,
		CRM:          crmService,
		Tx:           tx,
		Logger:       logger.Named("booking"),
		Location:     loc,
	}

	verifier, err := newVerifier()
	if err != nil {
		logger.Fatal("main: failed to initialize identity", zap.Error(err))
	}

	health := utils.NewHealthMonitor(map[string]utils.Pinger{
		"mongo": utils.MongoPinger(database.MongoClient),
		"redis": utils.RedisPinger(utils.GetCacheClient()),
	})
	healthCtx, stopHealth := context.WithCancel(context.Background())
	health.Start(healthCtx, time.Minute)

	handlerBundle := &handlers.HandlerBundle{
		Public:       handlers.NewPublicHandler(catalogService, bookingService),
		Appointments: handlers.NewAppointmentHandler(bookingService),
		Cash:         handlers.NewCashHandler(cashService),
		Catalog:      handlers.NewCatalogHandler(catalogService),
		CRM:          handlers.NewCRMHandler(crmService),
		Health:       health.Handler(),
	}
	routes.RegisterRoutes(router, handlerBundle, routes.Options{
		BusinessID:        biz,
		Verifier:          verifier,
		MaxRequestsPerMin: config.AppConfig.MaxRequestsPerMin,
	})

	var worker *cron.Worker
	if config.AppConfig.WorkerEnabled {
		worker, err = cron.NewWorker(&tasks.Handlers{
			CRM:     crmService,
			Booking: bookingService,
			Logger:  logger.Named("jobs"),
		}, biz, loc)
		if err != nil {
			logger.Fatal("main: failed to set up background jobs", zap.Error(err))
		}
		worker.Start()
	}

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("businessID", biz))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if worker != nil {
		worker.Shutdown()
	}
	stopHealth()
	if err := database.CloseDB(ctx); err != nil {
		logger.Warn("main: closing mongo", zap.Error(err))
	}
	logger.Info("main: server stopped gracefully")
}

var errJWTSecret = errors.New("AUTH_MODE=jwt needs JWT_SECRET")

// newVerifier picks the staff identity backend from AUTH_MODE.
func newVerifier() (middleware.TokenVerifier, error) {
	if config.AppConfig.AuthMode == "jwt" {
		if config.AppConfig.JWTSecret == "" {
			return nil, errJWTSecret
		}
		return &middleware.JWTVerifier{Secret: []byte(config.AppConfig.JWTSecret)}, nil
	}
	// the client keeps this context for its credential refreshes
	client, err := utils.NewFirebaseAuth(context.Background(), config.AppConfig.FirebaseCredentialsFile)
	if err != nil {
		return nil, err
	}
	return &middleware.FirebaseVerifier{Client: client}, nil
}
