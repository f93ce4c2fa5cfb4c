package config

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Generator GeneratorConfig
	Privacy   PrivacyConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig содержит настройки хранилища.
// По умолчанию используется файловая SQLite; PostgreSQL включается
// переключением драйвера.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`

	// Path: путь к файлу SQLite (для driver=sqlite)
	Path string `mapstructure:"path"`

	// Параметры подключения к PostgreSQL (для driver=postgres)
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// GeneratorConfig содержит настройки генератора вопросов
type GeneratorConfig struct {
	// APIKey: ключ Gemini API. Пустой ключ переводит генератор
	// в резервный режим со встроенным банком вопросов.
	APIKey string `mapstructure:"api_key"`

	// Model: имя модели Gemini
	Model string `mapstructure:"model"`

	// TimeoutSec: таймаут одного запроса к API в секундах
	TimeoutSec int `mapstructure:"timeout_sec"`
}

// PrivacyConfig содержит настройки подсистемы управления данными
type PrivacyConfig struct {
	// ConsentFile: путь к зеркальному JSON-файлу текущих статусов согласий
	ConsentFile string `mapstructure:"consent_file"`

	// ExportDir: каталог для файлов экспорта
	ExportDir string `mapstructure:"export_dir"`

	// RetentionDays: возраст записей по умолчанию для анонимизации
	RetentionDays int `mapstructure:"retention_days"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load загружает конфигурацию из файла и переменных окружения
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Используем новый экземпляр Viper, чтобы избежать глобального состояния

	// 1. Значения по умолчанию
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readtimeout", 15)
	vip.SetDefault("server.writetimeout", 15)
	vip.SetDefault("database.driver", "sqlite")
	vip.SetDefault("database.path", "data/career_suite.db")
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("generator.model", "gemini-2.0-flash")
	vip.SetDefault("generator.timeout_sec", 30)
	vip.SetDefault("privacy.consent_file", "data/user_consent.json")
	vip.SetDefault("privacy.export_dir", "data/exports")
	vip.SetDefault("privacy.retention_days", 365)

	// 2. Привязываем переменные окружения ЯВНО
	vip.BindEnv("server.port", "SERVER_PORT")

	vip.BindEnv("database.driver", "DATABASE_DRIVER")
	vip.BindEnv("database.path", "DATABASE_PATH")
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("generator.api_key", "GEMINI_API_KEY")
	vip.BindEnv("generator.model", "GEMINI_MODEL")
	vip.BindEnv("generator.timeout_sec", "GEMINI_TIMEOUT_SEC")

	vip.BindEnv("privacy.consent_file", "PRIVACY_CONSENT_FILE")
	vip.BindEnv("privacy.export_dir", "PRIVACY_EXPORT_DIR")
	vip.BindEnv("privacy.retention_days", "PRIVACY_RETENTION_DAYS")

	// 3. Пытаемся прочитать файл конфигурации (не страшно, если его нет, т.к. есть BindEnv)
	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	// 4. Анмаршалим конфигурацию (Viper объединит значения из файла и привязанных env vars)
	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Логирование конфигурации (только в debug режиме)
	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("Database Driver: %s", cfg.Database.Driver)
		log.Printf("Database Path: %s", cfg.Database.Path)
		log.Printf("Generator Model: %s", cfg.Generator.Model)
		log.Printf("Generator API Key Set: %t", cfg.Generator.APIKey != "")
		log.Printf("Privacy Consent File: %s", cfg.Privacy.ConsentFile)
		log.Printf("Privacy Export Dir: %s", cfg.Privacy.ExportDir)
		log.Printf("Privacy Retention Days: %d", cfg.Privacy.RetentionDays)
		log.Printf("-----------------------------------------")
	}

	// 6. Проверка обязательных параметров
	switch cfg.Database.Driver {
	case "sqlite":
		if cfg.Database.Path == "" {
			return nil, fmt.Errorf("database path is required for sqlite driver (check DATABASE_PATH env var)")
		}
	case "postgres":
		if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
			return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q (expected sqlite or postgres)", cfg.Database.Driver)
	}
	if cfg.Privacy.RetentionDays <= 0 {
		return nil, fmt.Errorf("privacy retention days must be positive, got %d", cfg.Privacy.RetentionDays)
	}

	return &cfg, nil
}
