package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"greentalent/matching-engine/internal/config"
	"greentalent/matching-engine/internal/handlers"
	"greentalent/matching-engine/internal/repositories"
	"greentalent/matching-engine/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	profileRepo := repositories.NewProfileRepository(db)
	opportunityRepo := repositories.NewOpportunityRepository(db)
	evalRepo := repositories.NewEvaluationRepository(db)
	docRepo := repositories.NewDocumentRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	pdfParser := services.NewPDFParserService()
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize Qdrant vector index
	vectorIndex, err := services.NewVectorIndexService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := vectorIndex.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Initialize matchers and the judge
	similarity := services.NewCosineSimilarityProvider()
	structuredMatcher := services.NewStructuredMatcher()
	semanticMatcher := services.NewSemanticMatcher(similarity, cfg.Matching)
	judge := services.NewGeminiJudge(geminiService, cfg.Worker.RetryMaxAttempts)

	// Initialize evaluator
	evaluatorService := services.NewEvaluatorService(
		profileRepo,
		opportunityRepo,
		evalRepo,
		structuredMatcher,
		semanticMatcher,
		judge,
		cfg.Matching,
	)
	log.Println("✅ Evaluator service initialized")

	// Initialize worker
	worker := services.NewWorker(
		evalRepo,
		evaluatorService,
		cfg.Worker.Concurrency,
	)
	log.Println("✅ Worker initialized successfully")

	// Start worker
	ctx := context.Background()
	worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	// Initialize handlers
	evaluateHandler := handlers.NewEvaluateHandler(
		evaluatorService,
		evalRepo,
		profileRepo,
		opportunityRepo,
		worker,
		cfg.Matching.JudgeThreshold,
	)
	resultHandler := handlers.NewResultHandler(evalRepo, evaluatorService)
	uploadHandler := handlers.NewUploadHandler(
		profileRepo,
		docRepo,
		storageService,
		pdfParser,
		cfg.Storage.MaxFileSize,
	)
	discoveryHandler := handlers.NewDiscoveryHandler(
		opportunityRepo,
		geminiService,
		vectorIndex,
	)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Talent Matching Engine API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Evaluation endpoints
	api.Post("/opportunities/:id/evaluate", evaluateHandler.HandleEvaluateOpportunity)
	api.Post("/profiles/:id/evaluate", evaluateHandler.HandleEvaluateProfile)
	api.Post("/match/pair", evaluateHandler.HandleEvaluatePair)
	api.Post("/evaluations", evaluateHandler.HandleEnqueueEvaluation)

	// Result endpoints
	api.Get("/evaluation-sets/:id", resultHandler.HandleGetSet)
	api.Get("/evaluation-sets/:id/matches", resultHandler.HandleGetMatches)
	api.Get("/evaluation-sets/:id/judged", resultHandler.HandleGetJudged)

	// Intake and discovery
	api.Post("/profiles/:id/resume", uploadHandler.HandleUploadResume)
	api.Get("/opportunities/:id/similar-profiles", discoveryHandler.HandleSimilarProfiles)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Talent Matching Engine API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/opportunities/:id/evaluate",
				"POST /api/v1/profiles/:id/evaluate",
				"POST /api/v1/match/pair",
				"POST /api/v1/evaluations",
				"GET /api/v1/evaluation-sets/:id",
				"GET /api/v1/evaluation-sets/:id/matches",
				"GET /api/v1/evaluation-sets/:id/judged",
				"POST /api/v1/profiles/:id/resume",
				"GET /api/v1/opportunities/:id/similar-profiles",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
