package main

import (
	"Kkutmal/config"
	"Kkutmal/middleware"
	"Kkutmal/routes"
	"Kkutmal/services/dictionary"
	"Kkutmal/services/game"
	"Kkutmal/services/redis"
	"Kkutmal/services/socket_io"
	"Kkutmal/services/socket_io/dispatcher"
	socketio_types "Kkutmal/services/socket_io/types"
	"Kkutmal/services/timer"
	"Kkutmal/sync"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	godotenv.Load()
	log.Println("Setting up server...")

	if os.Getenv("PROD") == "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	gormDB, err := config.ConnectGORM()
	if err != nil {
		log.Fatalf("Error connecting to PostgreSQL: %v", err)
	}
	log.Println("GORM Connected")

	// Only migrate in development or during deployment
	if os.Getenv("MIGRATE_POSTGRES") == "true" {
		log.Println("Migrating PostgreSQL database...")
		if err := config.MigrateDatabase(gormDB); err != nil {
			log.Printf("Warning: Database migration failed: %v", err)
			// Continue execution even if migration fails
		} else {
			log.Println("Database migrated successfully")
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("Error reading GORM PostgreSQL instance: %v", err)
	}
	defer sqlDB.Close()

	redisClient, err := config.Connect_redis()
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	log.Println("Connection to Redis successful")
	defer redis.CloseRedis(redisClient)

	dict := dictionary.NewService(gormDB, redisClient)
	if os.Getenv("PRELOAD_DICTIONARY") == "true" {
		n := 1000
		if raw := os.Getenv("PRELOAD_COUNT"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				n = parsed
			}
		}
		go func() {
			if err := dict.Preload(n); err != nil {
				log.Printf("Warning: dictionary preload failed: %v", err)
			}
		}()
	}

	timers := timer.NewService()

	sio := socketio_types.NewSocketServer()
	dispatch := dispatcher.NewDispatcher(sio)

	sink := sync.NewSyncManager(gormDB)

	engine := game.NewEngine(redisClient, dict, timers, dispatch, sink)

	r := gin.Default()

	middleware.SetUpMiddleware(r)

	routes.SetupRoutes(r, redisClient, engine)

	(*socket_io.MySocketServer)(sio).Start(r, engine, redisClient, dict)

	// Shut timers and the socket server down before the process exits
	signalC := make(chan os.Signal, 1)
	signal.Notify(signalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		s := <-signalC
		log.Printf("Received signal %v, shutting down", s)
		timers.StopAll()
		(*socket_io.MySocketServer)(sio).Close()
		os.Exit(0)
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
