package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.mau.fi/whatsmeow/store"
	"golang.org/x/time/rate"
	"google.golang.org/protobuf/proto"

	"diagwa/config"
	"diagwa/database"
	"diagwa/internal/handler"
	"diagwa/internal/helper"
	customMiddleware "diagwa/internal/middleware"
	"diagwa/internal/model"
	"diagwa/internal/relay"
	"diagwa/internal/report"
	"diagwa/internal/service"
	"diagwa/internal/service/ai"
	"diagwa/internal/session"
	"diagwa/internal/transport"
	"diagwa/internal/ws"
)

func main() {

	// Load .env (ignore error if the file is missing, e.g. in production)
	_ = godotenv.Load()

	// bootstrap helper: print a bcrypt hash for ADMIN_PASSWORD_HASH and exit
	if len(os.Args) > 2 && os.Args[1] == "--hash-password" {
		hash, err := helper.HashPassword(os.Args[2])
		if err != nil {
			log.Fatal("Failed to hash password: ", err)
		}
		fmt.Println(hash)
		return
	}

	// app database (surveys, diagnoses, leads)
	appDbURL := os.Getenv("APP_DATABASE_URL")
	if appDbURL == "" {
		log.Fatal("APP_DATABASE_URL is not set")
	}
	database.InitAppDB(appDbURL)

	// transport + messaging configuration
	config.WAProvider = strings.ToLower(os.Getenv("WA_PROVIDER"))
	if config.WAProvider == "" {
		config.WAProvider = "whatsmeow"
	}
	config.SessionName = os.Getenv("WA_SESSION_NAME")
	if config.SessionName == "" {
		config.SessionName = "principal"
	}
	config.WebhookURL = os.Getenv("WEBHOOK_URL")
	config.WebhookSecret = os.Getenv("WEBHOOK_SECRET")

	config.MetaToken = os.Getenv("META_ACCESS_TOKEN")
	config.MetaNumberID = os.Getenv("META_NUMBER_ID")
	config.TwilioSID = os.Getenv("TWILIO_ACCOUNT_SID")
	config.TwilioToken = os.Getenv("TWILIO_AUTH_TOKEN")
	config.TwilioFrom = os.Getenv("TWILIO_FROM")

	// AI configuration
	config.AIDefaultProvider = os.Getenv("AI_DEFAULT_PROVIDER")
	if config.AIDefaultProvider == "" {
		config.AIDefaultProvider = "openai"
	}
	config.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	config.OpenAIDefaultModel = os.Getenv("OPENAI_DEFAULT_MODEL")
	if config.OpenAIDefaultModel == "" {
		config.OpenAIDefaultModel = "gpt-4o-mini"
	}
	config.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	config.GeminiDefaultModel = os.Getenv("GEMINI_DEFAULT_MODEL")
	if config.GeminiDefaultModel == "" {
		config.GeminiDefaultModel = "gemini-1.5-flash"
	}
	config.AIDefaultTemperature = helper.GetEnvAsFloat("AI_DEFAULT_TEMPERATURE", 0.7)
	config.AIDefaultMaxTokens = helper.GetEnvAsInt("AI_DEFAULT_MAX_TOKENS", 500)

	// admin auth
	config.AdminUsername = os.Getenv("ADMIN_USERNAME")
	config.AdminPasswordHash = os.Getenv("ADMIN_PASSWORD_HASH")

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Println("JWT_SECRET is not set")
	}
	service.InitAuthConfig(jwtSecret)

	if len(os.Args) > 1 && os.Args[1] == "--createschema" {
		helper.InitSchema()
	}

	// WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// inbound relay to the downstream consumer
	forwarder := relay.NewForwarder(config.WebhookURL, config.WebhookSecret)

	// outbound transport selection
	var tr transport.Transport
	var mgr *session.Manager

	switch config.WAProvider {
	case "meta":
		tr = transport.NewMetaTransport(config.MetaToken, config.MetaNumberID)
		log.Println("Using Meta cloud API transport")
	case "twilio":
		tr = transport.NewTwilioTransport(config.TwilioSID, config.TwilioToken, config.TwilioFrom)
		log.Println("Using Twilio transport")
	default:
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			log.Fatal("DATABASE_URL is not set")
		}
		database.InitWhatsmeow(dbURL)
		store.DeviceProps.Os = proto.String("DIAGWA")

		mgr = session.NewManager(config.SessionName, session.NewContainerCredentials(database.Container))
		mgr.Realtime = hub
		if forwarder.Enabled() {
			mgr.OnMessage(func(senderID, text string, ts time.Time) {
				if err := forwarder.Forward(relay.Inbound{SenderID: senderID, Text: text}); err != nil {
					log.Printf("relay failed for %s: %v", senderID, err)
				}
			})
		}
		tr = transport.NewSocketTransport(mgr)
		log.Println("Using whatsmeow socket transport")
	}

	// assessment provider selection
	var oracle ai.Provider
	var err error
	switch config.AIDefaultProvider {
	case "gemini":
		oracle, err = ai.NewGeminiProvider()
	default:
		oracle, err = ai.NewOpenAIProvider()
	}
	if err != nil {
		log.Fatal("Failed to init assessment provider: ", err)
	}

	repo := model.NewRepository(database.AppDB)
	surveySvc := service.NewSurveyService(repo, oracle, tr)
	surveySvc.Reports = report.NewGenerator()
	leadSvc := service.NewLeadService(repo, tr)

	surveyHandler := handler.NewSurveyHandler(surveySvc, repo)
	leadHandler := handler.NewLeadHandler(leadSvc, forwarder)

	// Setup Echo
	e := echo.New()
	e.Use(middleware.Recover())

	originsEnv := os.Getenv("CORS_ALLOW_ORIGINS")
	if originsEnv == "" {
		log.Println("CORS_ALLOW_ORIGINS is not set")
	}
	allowOrigins := strings.Split(originsEnv, ",")
	for i, o := range allowOrigins {
		allowOrigins[i] = strings.TrimSpace(o)
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{
			echo.GET,
			echo.POST,
			echo.PUT,
			echo.PATCH,
			echo.DELETE,
			echo.OPTIONS,
		},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderXRequestedWith,
			echo.HeaderAuthorization,
		},
		AllowCredentials: true,
	}))
	e.OPTIONS("/*", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// Rate limiter configuration from env
	rateLimit := helper.GetEnvAsInt("RATE_LIMIT_PER_SECOND", 10)
	rateBurst := helper.GetEnvAsInt("RATE_LIMIT_BURST", 10)
	rateWindow := helper.GetEnvAsInt("RATE_LIMIT_WINDOW_MINUTES", 3)

	e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(rateLimit),
				Burst:     rateBurst,
				ExpiresIn: time.Duration(rateWindow) * time.Minute,
			},
		),
	}))

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		message := "Internal Server Error"

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			message = fmt.Sprintf("%v", he.Message)
		}
		response := map[string]interface{}{
			"success": false,
			"error":   message,
		}
		switch code {
		case http.StatusUnauthorized:
			response["message"] = "Authentication required. Please login first."
		case http.StatusMethodNotAllowed:
			response["message"] = "Method not allowed for this endpoint"
		case http.StatusNotFound:
			response["message"] = "Endpoint not found"
		}

		c.JSON(code, response)
	}

	// =====================================================
	// PUBLIC ROUTES
	// =====================================================

	e.GET("/", func(c echo.Context) error { // Health check
		return c.JSON(200, map[string]interface{}{
			"success":  true,
			"message":  "Wellness survey API is running",
			"provider": config.WAProvider,
		})
	})

	e.POST("/login", handler.Login)
	e.GET("/ws", handler.WebSocketHandler(hub))

	e.POST("/survey", surveyHandler.Submit)
	e.POST("/lead", leadHandler.Send)
	e.POST("/lead/webhook", leadHandler.Webhook)

	if mgr != nil {
		e.GET("/qr/status", handler.QRStatus(mgr))
		e.GET("/qr/reset", handler.QRReset(mgr))
	}

	// =====================================================
	// PROTECTED ROUTES (JWT required)
	// =====================================================

	api := e.Group("/api", customMiddleware.JWTAuthMiddleware())
	api.GET("/surveys", surveyHandler.List)
	api.GET("/surveys/export", surveyHandler.Export)
	api.GET("/surveys/:id", surveyHandler.GetByID)

	// bring the socket session up in the background; a failed first attempt
	// is retried through the manager's reconnect path
	if mgr != nil {
		go func() {
			if err := mgr.Start(context.Background()); err != nil {
				log.Printf("session start failed: %v", err)
			}
		}()
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	log.Fatal(e.Start(":" + port))
}
