package main

import (
	"time"

	"github.com/coneno/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pglab/traffic-sandbox/pkg/db"
	"github.com/pglab/traffic-sandbox/pkg/generator"
	"github.com/pglab/traffic-sandbox/pkg/http/handlers"
)

var conf Config

func init() {
	conf = initConfig()
	if !conf.GinDebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.SetLevel(conf.LogLevel)
}

func main() {
	logger.Info.Println("Starting traffic-sandbox")

	dbService := db.NewTrafficSandboxDBService(conf.DBConfig)

	queryPool := generator.DefaultPool()
	if conf.QueryPoolFile != "" {
		pool, err := generator.LoadPoolFromFile(conf.QueryPoolFile)
		if err != nil {
			logger.Error.Fatal("could not load query pool: " + err.Error())
		}
		queryPool = pool
	}

	trafficGenerator := generator.NewGenerator(
		conf.GeneratorConfig,
		queryPool,
		generator.NewPgxConnSource(dbService.Pool),
	)
	trafficGenerator.Start()

	// Start webserver
	router := gin.Default()
	if len(conf.AllowOrigins) > 0 && conf.AllowOrigins[0] != "" {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     conf.AllowOrigins,
			AllowMethods:     []string{"POST", "GET", "PUT", "DELETE"},
			AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Content-Length"},
			ExposeHeaders:    []string{"Authorization", "Content-Type", "Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	apiHandlers := handlers.NewHTTPHandler(dbService, trafficGenerator)
	router.GET("/", apiHandlers.HealthHandl)
	router.GET("/health", apiHandlers.HealthHandl)

	apiRoot := router.Group("")
	apiHandlers.AddQueryAPI(apiRoot)

	logger.Info.Printf("traffic-sandbox is listening on port %s", conf.Port)
	logger.Error.Fatal(router.Run(":" + conf.Port))
}
