package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	CMV      CMVConfig
	Export   ExportConfig
	Sheets   SheetsConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	WeeklyTTLSeconds int
}

// CMVConfig carries the business constants of the weekly cost computation.
// The deduction ratios encode how much of a comped account is attributed to
// cost of goods; the remainder is treated as a marketing/ops expense in the
// monthly statement. They are policy values, not derived ones.
type CMVConfig struct {
	TargetPercent     float64
	PartnerRatio      float64
	BenefitRatio      float64
	AdminRatio        float64
	EntertainRatio    float64
	PageSize          int
	MaxPages          int
	CandidateDates    int
	MinCoverage       int
	DefaultWeekOffset int
}

type ExportConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

type SheetsConfig struct {
	CredentialsJSON string
	SpreadsheetID   string
	ReadRange       string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 120)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "barmetrics")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_WEEKLY_TTL_SECONDS", 300)
		viper.SetDefault("CMV_TARGET_PERCENT", 33.0)
		viper.SetDefault("CMV_PARTNER_RATIO", 0.35)
		viper.SetDefault("CMV_BENEFIT_RATIO", 0.33)
		viper.SetDefault("CMV_ADMIN_RATIO", 0.35)
		viper.SetDefault("CMV_ENTERTAIN_RATIO", 0.35)
		viper.SetDefault("CMV_PAGE_SIZE", 1000)
		viper.SetDefault("CMV_MAX_PAGES", 100)
		viper.SetDefault("CMV_CANDIDATE_DATES", 50)
		viper.SetDefault("CMV_MIN_COVERAGE", 50)
		viper.SetDefault("CMV_DEFAULT_WEEK_OFFSET", -1)
		viper.SetDefault("EXPORT_ENABLED", false)
		viper.SetDefault("EXPORT_ENDPOINT", "")
		viper.SetDefault("EXPORT_ACCESS_KEY", "")
		viper.SetDefault("EXPORT_SECRET_KEY", "")
		viper.SetDefault("EXPORT_BUCKET", "cmv-reports")
		viper.SetDefault("EXPORT_REGION", "us-east-1")
		viper.SetDefault("EXPORT_USE_SSL", true)
		viper.SetDefault("SHEETS_CREDENTIALS_JSON", "")
		viper.SetDefault("SHEETS_SPREADSHEET_ID", "")
		viper.SetDefault("SHEETS_READ_RANGE", "Contagem!A2:G")

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:          viper.GetBool("CACHE_ENABLED"),
				RedisURL:         viper.GetString("REDIS_URL"),
				RedisHost:        viper.GetString("REDIS_HOST"),
				RedisPort:        viper.GetString("REDIS_PORT"),
				RedisPassword:    viper.GetString("REDIS_PASSWORD"),
				RedisDB:          viper.GetInt("REDIS_DB"),
				WeeklyTTLSeconds: viper.GetInt("CACHE_WEEKLY_TTL_SECONDS"),
			},
			CMV: CMVConfig{
				TargetPercent:     viper.GetFloat64("CMV_TARGET_PERCENT"),
				PartnerRatio:      viper.GetFloat64("CMV_PARTNER_RATIO"),
				BenefitRatio:      viper.GetFloat64("CMV_BENEFIT_RATIO"),
				AdminRatio:        viper.GetFloat64("CMV_ADMIN_RATIO"),
				EntertainRatio:    viper.GetFloat64("CMV_ENTERTAIN_RATIO"),
				PageSize:          viper.GetInt("CMV_PAGE_SIZE"),
				MaxPages:          viper.GetInt("CMV_MAX_PAGES"),
				CandidateDates:    viper.GetInt("CMV_CANDIDATE_DATES"),
				MinCoverage:       viper.GetInt("CMV_MIN_COVERAGE"),
				DefaultWeekOffset: viper.GetInt("CMV_DEFAULT_WEEK_OFFSET"),
			},
			Export: ExportConfig{
				Enabled:   viper.GetBool("EXPORT_ENABLED"),
				Endpoint:  viper.GetString("EXPORT_ENDPOINT"),
				AccessKey: viper.GetString("EXPORT_ACCESS_KEY"),
				SecretKey: viper.GetString("EXPORT_SECRET_KEY"),
				Bucket:    viper.GetString("EXPORT_BUCKET"),
				Region:    viper.GetString("EXPORT_REGION"),
				UseSSL:    viper.GetBool("EXPORT_USE_SSL"),
			},
			Sheets: SheetsConfig{
				CredentialsJSON: viper.GetString("SHEETS_CREDENTIALS_JSON"),
				SpreadsheetID:   viper.GetString("SHEETS_SPREADSHEET_ID"),
				ReadRange:       viper.GetString("SHEETS_READ_RANGE"),
			},
		}
	})

	return instance
}
