package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/yourusername/career-suite/internal/config"
	"github.com/yourusername/career-suite/internal/generator"
	"github.com/yourusername/career-suite/internal/handler"
	"github.com/yourusername/career-suite/internal/middleware"
	"github.com/yourusername/career-suite/internal/repository/consentfile"
	sqliteRepo "github.com/yourusername/career-suite/internal/repository/sqlite"
	"github.com/yourusername/career-suite/internal/service"
	"github.com/yourusername/career-suite/pkg/database"
)

func main() {
	// Подхватываем .env, если он есть (локальная разработка)
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используются переменные окружения")
	}

	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Открываем хранилище
	db, err := openDatabase(cfg)
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем репозитории
	resultRepo := sqliteRepo.NewResultRepo(db)
	candidateRepo := sqliteRepo.NewCandidateRepo(db)
	prepRepo := sqliteRepo.NewPrepRepo(db)
	consentRepo := sqliteRepo.NewConsentRepo(db)
	accessLogRepo := sqliteRepo.NewAccessLogRepo(db)
	consentMirror := consentfile.NewStore(cfg.Privacy.ConsentFile)

	// Генератор вопросов. Без API-ключа работает резервный банк.
	if cfg.Generator.APIKey == "" {
		log.Println("GEMINI_API_KEY не задан: генерация будет работать в резервном режиме")
	}
	source := generator.NewGeminiClient(
		cfg.Generator.APIKey,
		cfg.Generator.Model,
		time.Duration(cfg.Generator.TimeoutSec)*time.Second,
	)

	// Путь к файлу базы нужен сводке данных только для SQLite
	dbPath := ""
	if cfg.Database.Driver == database.DriverSQLite {
		dbPath = cfg.Database.Path
	}

	// Инициализируем сервисы
	quizService := service.NewQuizService(resultRepo, source)
	privacyService := service.NewPrivacyService(
		resultRepo, candidateRepo, prepRepo,
		consentRepo, accessLogRepo, consentMirror,
		cfg.Privacy.ExportDir, dbPath,
	)
	screeningService := service.NewScreeningService(candidateRepo, source)
	prepService := service.NewPrepService(prepRepo, source)

	// Инициализируем обработчики
	quizHandler := handler.NewQuizHandler(quizService)
	privacyHandler := handler.NewPrivacyHandler(privacyService)
	screeningHandler := handler.NewScreeningHandler(screeningService)
	prepHandler := handler.NewPrepHandler(prepService)

	isProduction := gin.Mode() == gin.ReleaseMode

	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000", "http://localhost:8000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		quiz := api.Group("/quiz")
		{
			quiz.GET("/options", quizHandler.GetOptions)
			quiz.POST("/attempts", quizHandler.StartAttempt)
			quiz.GET("/attempts/:id", quizHandler.GetAttempt)
			quiz.POST("/attempts/:id/answers", quizHandler.SubmitAnswer)
			quiz.POST("/attempts/:id/finish", quizHandler.FinishAttempt)
			quiz.GET("/attempts/:id/review", quizHandler.GetReview)
			quiz.DELETE("/attempts/:id", quizHandler.CloseAttempt)

			quiz.GET("/history", quizHandler.GetHistory)
			quiz.GET("/history/:id",
				middleware.ExtractUintParam("id", "resultID"),
				quizHandler.GetHistoryDetail)

			quiz.GET("/stats", quizHandler.GetStats)
			quiz.GET("/stats/languages", quizHandler.GetStatsByLanguage)
			quiz.GET("/stats/difficulties", quizHandler.GetStatsByDifficulty)
		}

		privacy := api.Group("/privacy")
		{
			privacy.POST("/consents", privacyHandler.RecordConsent)
			privacy.GET("/consents", privacyHandler.GetConsents)
			privacy.POST("/export", privacyHandler.ExportData)
			privacy.POST("/delete", privacyHandler.DeleteData)
			privacy.POST("/anonymize", privacyHandler.AnonymizeData)
			privacy.GET("/summary", privacyHandler.GetSummary)
			privacy.GET("/access-log", privacyHandler.GetAccessLog)
		}

		screening := api.Group("/screening")
		{
			screening.POST("/sessions", screeningHandler.StartSession)
			screening.POST("/sessions/:id/messages", screeningHandler.SubmitMessage)
			screening.DELETE("/sessions/:id", screeningHandler.CloseSession)
			screening.GET("/candidates", screeningHandler.GetCandidates)
		}

		prep := api.Group("/prep")
		{
			prep.POST("/questions", prepHandler.GetQuestion)
			prep.POST("/answers", prepHandler.SubmitAnswer)
			prep.GET("/history", prepHandler.GetHistory)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}

// openDatabase открывает хранилище по настроенному драйверу
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case database.DriverPostgres:
		return database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	default:
		return database.NewSQLiteDB(cfg.Database.Path)
	}
}
