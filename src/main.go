package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"tabo/src/boot"
	"tabo/src/config"
	"tabo/src/middlewares"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
)

const apiPrefix = "/api/v1"

// traveldate accepts a timestamp string in the API time format that lies in
// the future; departure dates in the past are not bookable.
var travelDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	t, err := time.Parse(config.TIME_PARSE_FORMAT, value)
	if err != nil {
		return false
	}
	return t.After(time.Now())
}

func maintenanceModeMiddleware(ctx *gin.Context) {
	if os.Getenv("MAINTENANCE_MODE") == "1" && ctx.FullPath() != "/healthz" {
		ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service under maintenance"})
		return
	}
	ctx.Next()
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(maintenanceModeMiddleware)

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func mountRoutes(router *gin.Engine) {
	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	{
		listingHandlers(authorized)
		draftHandlers(authorized)
		bookingHandlers(authorized)
		customerHandlers(authorized)
		transactionHandlers(authorized)
		feedHandlers(authorized)
	}
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()

	boot.InitDb()
	boot.InitScheduler()

	router := setupRouter()

	appHost := os.Getenv("APP_HOST")
	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowOrigins = []string{appHost}
		cc.AllowCredentials = true
		cc.AllowAllOrigins = false
		router.Use(cors.New(cc))
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("traveldate", travelDateValidatorFunc)
	}

	mountRoutes(router)

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("API listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Error starting server: %s\n", err.Error())
	}
}
