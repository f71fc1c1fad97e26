package config

import (
	"fmt"
	"os"
	"path/filepath"

	"cpi-console/internal/backend"
	"cpi-console/internal/delivery"
	"cpi-console/internal/logging"
	"cpi-console/internal/render"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	DefaultBaseURL     = "http://localhost:8889"
	DefaultUploadURL   = "http://localhost:5001"
	DefaultDownloadDir = "downloads"
	DefaultMockAddr    = "127.0.0.1:8889"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Backend      backend.Config
	DownloadDir  string
	DatasetLabel string
	Variant      render.Variant
	OpenBrowser  bool
	S3           delivery.S3Config
	DataPath     string
	LogDir       string
	MockAddr     string
}

// UseS3 reports whether downloads go to a bucket instead of DownloadDir.
func (c *AppConfig) UseS3() bool {
	return c.S3.Bucket != ""
}

// Load reads .env files, then the optional config file, then the
// environment. Environment variables win over the config file.
func Load(configFile string) (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v, exeDir)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Debug().Str("path", configFile).Msg("Loaded configuration file")
	}

	variant := render.Variant(v.GetString("CPI_VARIANT"))
	if _, err := render.ScheduleFor(variant); err != nil {
		return nil, fmt.Errorf("CPI_VARIANT: %w", err)
	}

	dataPath := v.GetString("DATA_PATH")
	logDir := logging.Dir(v.GetString("LOGS_FOLDER"), dataPath)

	cfg := &AppConfig{
		Backend: backend.Config{
			BaseURL:   v.GetString("CPI_BASE_URL"),
			UploadURL: v.GetString("CPI_UPLOAD_URL"),
			UserAgent: v.GetString("CPI_USER_AGENT"),
		},
		DownloadDir:  v.GetString("CPI_DOWNLOAD_DIR"),
		DatasetLabel: v.GetString("CPI_DATASET_LABEL"),
		Variant:      variant,
		OpenBrowser:  v.GetBool("CPI_OPEN_BROWSER"),
		S3: delivery.S3Config{
			Bucket:   v.GetString("CPI_S3_BUCKET"),
			Endpoint: v.GetString("CPI_S3_ENDPOINT"),
			Region:   v.GetString("CPI_S3_REGION"),
			Prefix:   v.GetString("CPI_S3_PREFIX"),
		},
		DataPath: dataPath,
		LogDir:   logDir,
		MockAddr: v.GetString("MOCK_ADDR"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, exeDir string) {
	dataPath := exeDir
	if dataPath == "" {
		dataPath = "."
	}

	v.SetDefault("CPI_BASE_URL", DefaultBaseURL)
	v.SetDefault("CPI_UPLOAD_URL", DefaultUploadURL)
	v.SetDefault("CPI_USER_AGENT", "")
	v.SetDefault("CPI_DOWNLOAD_DIR", DefaultDownloadDir)
	v.SetDefault("CPI_DATASET_LABEL", delivery.DefaultDatasetLabel)
	v.SetDefault("CPI_VARIANT", string(render.VariantPeriod))
	v.SetDefault("CPI_OPEN_BROWSER", false)
	v.SetDefault("CPI_S3_BUCKET", "")
	v.SetDefault("CPI_S3_ENDPOINT", "")
	v.SetDefault("CPI_S3_REGION", "")
	v.SetDefault("CPI_S3_PREFIX", "")
	v.SetDefault("DATA_PATH", dataPath)
	v.SetDefault("LOGS_FOLDER", "")
	v.SetDefault("MOCK_ADDR", DefaultMockAddr)
}
