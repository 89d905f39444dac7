package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App                  App                  `mapstructure:",squash"`
	Server               Server               `mapstructure:",squash"`
	Database             Database             `mapstructure:",squash"`
	Meta                 Meta                 `mapstructure:",squash"`
	Render               Render               `mapstructure:",squash"`
	Auth                 Auth                 `mapstructure:",squash"`
	Guardrail            Guardrail            `mapstructure:",squash"`
	Pacing               Pacing               `mapstructure:",squash"`
	ProgressSnapshotSync ProgressSnapshotSync `mapstructure:",squash"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN           string `mapstructure:"-"`
	Driver        string `mapstructure:"database_driver"`
	Password      string `mapstructure:"database_password"`
	URL           string `mapstructure:"database_url"`
	User          string `mapstructure:"database_user"`
	SSLMode       string `mapstructure:"database_sslmode"`
	RunMigrations bool   `mapstructure:"database_run_migrations"`
}

type Meta struct {
	BaseURL        string    `mapstructure:"meta_base_url"`
	URL            string    `mapstructure:"meta_url"`
	Version        string    `mapstructure:"meta_version"`
	AccessToken    string    `mapstructure:"meta_access_token"`
	AppID          string    `mapstructure:"meta_app_id"`
	AppSecret      string    `mapstructure:"meta_app_secret"`
	LongLivedToken string    `mapstructure:"meta_long_lived_token"`
	TokenExpiresAt time.Time `mapstructure:"-"`
}

type Render struct {
	APIKey    string `mapstructure:"render_api_key"`
	ServiceID string `mapstructure:"render_service_id"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Auth struct {
	Secret   string        `mapstructure:"auth_secret"`
	TokenTTL time.Duration `mapstructure:"auth_token_ttl"`
}

// Guardrail agrupa os limites aplicados a qualquer alteração de orçamento
type Guardrail struct {
	MaxAdjustmentPercentage float64       `mapstructure:"guardrail_max_adjustment_percentage"`
	Cooldown                time.Duration `mapstructure:"guardrail_cooldown"`
	BatchMaxItems           int           `mapstructure:"guardrail_batch_max_items"`
	BatchMaxConcurrent      int           `mapstructure:"guardrail_batch_max_concurrent"`
	BatchDefaultConcurrent  int           `mapstructure:"guardrail_batch_default_concurrent"`
	PlatformTimeout         time.Duration `mapstructure:"guardrail_platform_timeout"`
}

// Pacing define o calendário único usado em toda aritmética de dias
type Pacing struct {
	Timezone       string         `mapstructure:"pacing_timezone"`
	AttentionRatio float64        `mapstructure:"pacing_attention_ratio"`
	Location       *time.Location `mapstructure:"-"`
}

type ProgressSnapshotSync struct {
	CronSchedule        string `mapstructure:"progress_snapshot_sync_cron"`
	RequestDelaySeconds int    `mapstructure:"progress_snapshot_sync_request_delay_seconds"`
	MaxConcurrentJobs   int    `mapstructure:"progress_snapshot_sync_max_concurrent_jobs"`
	Enabled             bool   `mapstructure:"progress_snapshot_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:4001")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/goal_pacing")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("DATABASE_RUN_MIGRATIONS", false)

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v22.0")
	viper.SetDefault("META_APP_ID", "your_app_id")
	viper.SetDefault("META_APP_SECRET", "your_app_secret")
	viper.SetDefault("META_ACCESS_TOKEN", "") // ONLY LOCAL
	viper.SetDefault("META_LONG_LIVED_TOKEN", "")

	viper.SetDefault("RENDER_API_KEY", "")
	viper.SetDefault("RENDER_SERVICE_ID", "")

	viper.SetDefault("AUTH_SECRET", "your_secret_key")
	viper.SetDefault("AUTH_TOKEN_TTL", "24h")

	viper.SetDefault("GUARDRAIL_MAX_ADJUSTMENT_PERCENTAGE", 20)
	viper.SetDefault("GUARDRAIL_COOLDOWN", "4h")
	viper.SetDefault("GUARDRAIL_BATCH_MAX_ITEMS", 50)
	viper.SetDefault("GUARDRAIL_BATCH_MAX_CONCURRENT", 10)
	viper.SetDefault("GUARDRAIL_BATCH_DEFAULT_CONCURRENT", 3)
	viper.SetDefault("GUARDRAIL_PLATFORM_TIMEOUT", "15s")

	viper.SetDefault("PACING_TIMEZONE", "America/Sao_Paulo")
	viper.SetDefault("PACING_ATTENTION_RATIO", 0.9)

	viper.SetDefault("PROGRESS_SNAPSHOT_SYNC_CRON", "0 7 * * *")      // Todos os dias às 7h da manhã
	viper.SetDefault("PROGRESS_SNAPSHOT_SYNC_REQUEST_DELAY_SECONDS", 1) // 1 segundo entre requisições
	viper.SetDefault("PROGRESS_SNAPSHOT_SYNC_MAX_CONCURRENT_JOBS", 3)   // 3 jobs concorrentes
	viper.SetDefault("PROGRESS_SNAPSHOT_SYNC_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.finalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// finalize deriva os campos calculados e valida os limites
func (c *Config) finalize() error {
	loc, err := time.LoadLocation(c.Pacing.Timezone)
	if err != nil {
		return fmt.Errorf("config: invalid pacing timezone %q: %w", c.Pacing.Timezone, err)
	}
	c.Pacing.Location = loc

	if c.Guardrail.MaxAdjustmentPercentage <= 0 || c.Guardrail.MaxAdjustmentPercentage > 100 {
		return fmt.Errorf("config: guardrail max adjustment percentage must be in (0, 100], got %v", c.Guardrail.MaxAdjustmentPercentage)
	}
	if c.Guardrail.Cooldown < 0 {
		return fmt.Errorf("config: guardrail cooldown must not be negative")
	}
	if c.Guardrail.BatchMaxConcurrent < 1 {
		return fmt.Errorf("config: guardrail batch max concurrent must be at least 1")
	}
	if c.Guardrail.BatchDefaultConcurrent < 1 || c.Guardrail.BatchDefaultConcurrent > c.Guardrail.BatchMaxConcurrent {
		c.Guardrail.BatchDefaultConcurrent = c.Guardrail.BatchMaxConcurrent
	}
	if c.Guardrail.PlatformTimeout <= 0 {
		return fmt.Errorf("config: guardrail platform timeout must be positive")
	}

	c.Meta.URL = fmt.Sprintf("%s/%s", c.Meta.BaseURL, c.Meta.Version)
	if c.Meta.LongLivedToken != "" && c.Meta.AccessToken == "" {
		c.Meta.AccessToken = c.Meta.LongLivedToken
	}

	c.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s?sslmode=%s",
		c.Database.Driver,
		c.Database.User,
		c.Database.Password,
		c.Database.URL,
		c.Database.SSLMode,
	)

	return nil
}

// LoadSecrets completa a configuração com os secrets armazenados no Render
func (c *Config) LoadSecrets(ctx context.Context, storage SecretStorage) error {
	if c.Render.ServiceID == "" || c.Meta.AccessToken != "" {
		return nil
	}

	secretsByName, err := storage.ListSecrets(ctx, c.Render.ServiceID)
	if err != nil {
		return fmt.Errorf("config: error loading secrets: %w", err)
	}

	if token, ok := secretsByName[MetaAccessTokenSecret]; ok && token != "" {
		c.Meta.AccessToken = token
		logrus.Info("Token de acesso do Meta carregado do Render")
	}

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
