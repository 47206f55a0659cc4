package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/outagedesk/outage-server/models"
)

var DB *gorm.DB

// AppConfig is read from the environment (and an optional .env / config.yaml).
type AppConfig struct {
	Port     string `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	// TimeZone is where outage dates are calendar days.
	TimeZone string `mapstructure:"TIMEZONE"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBHost      string `mapstructure:"DB_HOST"`
	DBPort      string `mapstructure:"DB_PORT"`
	DBUser      string `mapstructure:"DB_USER"`
	DBPassword  string `mapstructure:"DB_PASSWORD"`
	DBName      string `mapstructure:"DB_NAME"`
	DBTimeZone  string `mapstructure:"DB_TIMEZONE"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	SupabaseURL    string `mapstructure:"SUPABASE_URL"`
	SupabaseKey    string `mapstructure:"SUPABASE_KEY"`
	SupabaseBucket string `mapstructure:"SUPABASE_BUCKET"`

	TemplatePath      string `mapstructure:"TEMPLATE_PATH"`
	QRPlaceholderName string `mapstructure:"QR_PLACEHOLDER_NAME"`

	CORSOrigins   string `mapstructure:"CORS_ORIGINS"`
	DocRatePerMin int    `mapstructure:"DOC_RATE_PER_MIN"`
}

var keys = []string{
	"PORT", "LOG_LEVEL", "TIMEZONE",
	"DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_TIMEZONE",
	"JWT_SECRET",
	"SUPABASE_URL", "SUPABASE_KEY", "SUPABASE_BUCKET",
	"TEMPLATE_PATH", "QR_PLACEHOLDER_NAME",
	"CORS_ORIGINS", "DOC_RATE_PER_MIN",
}

// Load builds the config from defaults, an optional config file and the
// environment, in increasing priority.
func Load(configFile string) (*AppConfig, error) {
	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TIMEZONE", "Asia/Bangkok")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_TIMEZONE", "Asia/Bangkok")
	v.SetDefault("SUPABASE_BUCKET", "outage_docs")
	v.SetDefault("TEMPLATE_PATH", "templates/outage_notice.docx")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("DOC_RATE_PER_MIN", 10)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	v.AutomaticEnv()
	// AutomaticEnv only applies to keys viper already knows about.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// DSN returns DATABASE_URL if set, else a key/value DSN from the DB_* parts.
func (c *AppConfig) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBTimeZone)
}

// Origins splits CORS_ORIGINS on commas.
func (c *AppConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Location resolves TIMEZONE, falling back to the host zone.
func (c *AppConfig) Location() *time.Location {
	if loc, err := time.LoadLocation(c.TimeZone); err == nil && c.TimeZone != "" {
		return loc
	}
	return time.Local
}

// ConnectDB opens PostgreSQL and sets DB.
func ConnectDB(cfg *AppConfig, log *zap.Logger) error {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	DB = db
	log.Info("connected to PostgreSQL")
	return nil
}

// Migrate creates or updates the tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.OutageJob{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
