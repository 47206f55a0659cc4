package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/outagedesk/outage-server/models"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	if os.Getenv("PORT") == "" {
		assert.Equal(t, "8080", cfg.Port)
	}
	if os.Getenv("DOC_RATE_PER_MIN") == "" {
		assert.Equal(t, 10, cfg.DocRatePerMin)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("PORT: \"9000\"\nTEMPLATE_PATH: /srv/tpl.docx\nLOG_LEVEL: debug\n"), 0o644))
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("QR_PLACEHOLDER_NAME", "image7.png")

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "/srv/tpl.docx", cfg.TemplatePath)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "image7.png", cfg.QRPlaceholderName)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg := &AppConfig{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBTimeZone: "Asia/Bangkok"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=require TimeZone=Asia/Bangkok", cfg.DSN())

	cfg.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", cfg.DSN())
}

func TestOrigins(t *testing.T) {
	cfg := &AppConfig{CORSOrigins: " https://a.example , ,https://b.example"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())
}

func TestLocation(t *testing.T) {
	cfg := &AppConfig{TimeZone: "Not/AZone"}
	assert.Equal(t, time.Local, cfg.Location())

	cfg = &AppConfig{}
	assert.Equal(t, time.Local, cfg.Location())
}

func TestMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	assert.True(t, db.Migrator().HasTable(&models.OutageJob{}))
}
