package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trungtung03/sicbo-test/cmd/db"
	"github.com/trungtung03/sicbo-test/internal/middleware"
	"github.com/trungtung03/sicbo-test/internal/service"
	"github.com/trungtung03/sicbo-test/pkg/config"
	"github.com/trungtung03/sicbo-test/pkg/logger"
	"github.com/trungtung03/sicbo-test/pkg/redis"
)

const apiPrefix = "api/"

func Start() {
	if db.DB == nil {
		logger.Fatal("Database connection required, set the POSTGRES_* environment variables")
	}

	gin.DisableConsoleColor()

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.BlockBadActorsMiddleware())
	authorized := router.Group("/", middleware.AuthMiddleware())
	admin := authorized.Group("/", middleware.AdminMiddleware())

	redisAddr := config.Getenv("REDIS_ADDR", "redis:6379")
	redisService := redis.NewRedisService(redisAddr, os.Getenv("REDIS_PASSWORD"))

	sicboWS := service.NewSicboWebsocketService()
	service.SicboRound = service.NewSicboRoundService(redisService, sicboWS)

	// Start the round driver in a separate goroutine
	go service.SicboRound.Supervise()

	janitor, err := service.StartJanitor(redisService)
	if err != nil {
		logger.Fatal("Failed to start janitor: %v", err)
	}

	commentaryClient := service.NewCommentaryClient()

	// router
	{
		// auth
		router.POST(apiPrefix+"users/signup", service.SignUp)
		router.POST(apiPrefix+"users/login", service.Login)
	}

	// authorized
	{
		authorized.GET(apiPrefix+"ws/sicbo/live", sicboWS.LiveSicboWebsocketHandler)

		// users
		authorized.GET(apiPrefix+"users/me", service.GetMe)

		// sicbo
		authorized.GET(apiPrefix+"games/sicbo/state", service.GetSicboRoundState)
		authorized.GET(apiPrefix+"games/sicbo/options", service.GetSicboBetOptions)
		authorized.POST(apiPrefix+"games/sicbo/place", func(c *gin.Context) {
			service.PlaceSicboBet(c, redisService)
		})
		authorized.GET(apiPrefix+"games/sicbo/bets", service.GetMySicboBets)
		authorized.GET(apiPrefix+"games/sicbo/volumes", func(c *gin.Context) {
			service.GetSicboRoundVolumes(c, redisService)
		})
		authorized.GET(apiPrefix+"games/sicbo/history", service.GetSicboHistory)
		authorized.GET(apiPrefix+"games/sicbo/commentary", func(c *gin.Context) {
			service.GetRoundCommentary(c, commentaryClient, redisService)
		})

		// funds
		authorized.POST(apiPrefix+"funds/deposit", service.CreateDepositRequest)
		authorized.POST(apiPrefix+"funds/withdraw", service.CreateWithdrawRequest)
		authorized.GET(apiPrefix+"funds/requests", service.GetMyFundsRequests)

		// settings
		authorized.GET(apiPrefix+"settings", service.GetSettings)
	}

	// admin
	{
		admin.POST(apiPrefix+"admin/sicbo/override", service.SetSicboOverride)
		admin.GET(apiPrefix+"admin/sicbo/override", service.GetSicboOverride)
		admin.DELETE(apiPrefix+"admin/sicbo/override", service.ClearSicboOverride)

		admin.GET(apiPrefix+"admin/users", service.ListUsers)
		admin.POST(apiPrefix+"admin/users/balance", service.AdjustUserBalance)

		admin.POST(apiPrefix+"admin/settings", service.UpdateSettings)

		admin.GET(apiPrefix+"admin/funds/requests", service.ListFundsRequests)
		admin.POST(apiPrefix+"admin/funds/resolve", service.ResolveFundsRequest)
	}

	srv := &http.Server{
		Addr:    ":8080",
		Handler: router.Handler(),
	}

	go func() {
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with
	// a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server...")

	if err := janitor.Shutdown(); err != nil {
		logger.Error("Janitor shutdown: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server Shutdown: %v", err)
	}

	<-ctx.Done()
	logger.Info("Server exiting")
}
