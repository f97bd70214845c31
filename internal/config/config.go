package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fhuszti/media-pipeline-go/internal/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	MariaDBDSN      string `env:"MARIADB_DSN"`
	MaxOpenConns    int    `env:"MARIADB_MAX_OPEN_CONN" validate:"gte=1"`
	MaxIdleConns    int    `env:"MARIADB_MAX_IDLE_CONNS" validate:"gte=0"`
	ConnMaxLifetime time.Duration
	ServerPort      int `env:"SERVER_PORT" validate:"gte=1,lte=65535"`

	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioUseSSL    bool
	MinioBucket    string `env:"MINIO_BUCKET"`

	PipelineEnabled     bool
	PollIntervalSeconds int    `env:"POLL_INTERVAL_SECONDS" validate:"gte=5"`
	BatchSize           int    `env:"BATCH_SIZE" validate:"gte=1"`
	TempDir             string `env:"TEMP_DIR"`
	LockFile            string `env:"LOCK_FILE"`

	FFmpegPath  string `env:"FFMPEG_PATH"`
	FFprobePath string `env:"FFPROBE_PATH"`

	PhotoOptimizationEnabled bool
	PhotoMaxWidth            int `env:"PHOTO_MAX_WIDTH"`
	PhotoMaxHeight           int `env:"PHOTO_MAX_HEIGHT"`
	PhotoJPEGQuality         int `env:"PHOTO_JPEG_QUALITY" validate:"gte=30,lte=100"`

	PhotoSourcePrefix    string `env:"PHOTO_SOURCE_PREFIX"`
	PhotoOptimizedPrefix string `env:"PHOTO_OPTIMIZED_PREFIX"`
	VideoPlaybackPrefix  string `env:"VIDEO_PLAYBACK_PREFIX"`
	RehomePhotos         bool

	StatusJWTPublicKey string `env:"STATUS_JWT_PUBLIC_KEY"`
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	viper.AutomaticEnv()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	required := []string{
		"MARIADB_DSN",
		"MARIADB_MAX_OPEN_CONN",
		"MARIADB_MAX_IDLE_CONNS",
		"MARIADB_CONN_MAX_LIFETIME",
		"SERVER_PORT",
		"MINIO_ENDPOINT",
		"MINIO_ACCESS_KEY",
		"MINIO_SECRET_KEY",
		"MINIO_BUCKET",
	}
	for _, key := range required {
		if !viper.IsSet(key) {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	viper.SetDefault("PIPELINE_ENABLED", true)
	viper.SetDefault("POLL_INTERVAL_SECONDS", 15)
	viper.SetDefault("BATCH_SIZE", 4)
	viper.SetDefault("TEMP_DIR", os.TempDir())
	viper.SetDefault("LOCK_FILE", "media-pipeline.lock")
	viper.SetDefault("PHOTO_OPTIMIZATION_ENABLED", true)
	viper.SetDefault("PHOTO_MAX_WIDTH", 2048)
	viper.SetDefault("PHOTO_MAX_HEIGHT", 2048)
	viper.SetDefault("PHOTO_JPEG_QUALITY", 82)
	viper.SetDefault("PHOTO_SOURCE_PREFIX", "media/photos/originals")
	viper.SetDefault("PHOTO_OPTIMIZED_PREFIX", "media/photos/web")
	viper.SetDefault("VIDEO_PLAYBACK_PREFIX", "media/videos/web")
	viper.SetDefault("REHOME_PHOTOS", false)

	s := &Settings{
		MariaDBDSN:      viper.GetString("MARIADB_DSN"),
		MaxOpenConns:    viper.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    viper.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(viper.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,
		ServerPort:      viper.GetInt("SERVER_PORT"),

		MinioEndpoint:  viper.GetString("MINIO_ENDPOINT"),
		MinioAccessKey: viper.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey: viper.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:    viper.GetBool("MINIO_USE_SSL"),
		MinioBucket:    viper.GetString("MINIO_BUCKET"),

		PipelineEnabled:     viper.GetBool("PIPELINE_ENABLED"),
		PollIntervalSeconds: viper.GetInt("POLL_INTERVAL_SECONDS"),
		BatchSize:           viper.GetInt("BATCH_SIZE"),
		TempDir:             viper.GetString("TEMP_DIR"),
		LockFile:            viper.GetString("LOCK_FILE"),

		FFmpegPath:  viper.GetString("FFMPEG_PATH"),
		FFprobePath: viper.GetString("FFPROBE_PATH"),

		PhotoOptimizationEnabled: viper.GetBool("PHOTO_OPTIMIZATION_ENABLED"),
		PhotoMaxWidth:            viper.GetInt("PHOTO_MAX_WIDTH"),
		PhotoMaxHeight:           viper.GetInt("PHOTO_MAX_HEIGHT"),
		PhotoJPEGQuality:         viper.GetInt("PHOTO_JPEG_QUALITY"),

		PhotoSourcePrefix:    viper.GetString("PHOTO_SOURCE_PREFIX"),
		PhotoOptimizedPrefix: viper.GetString("PHOTO_OPTIMIZED_PREFIX"),
		VideoPlaybackPrefix:  viper.GetString("VIDEO_PLAYBACK_PREFIX"),
		RehomePhotos:         viper.GetBool("REHOME_PHOTOS"),

		StatusJWTPublicKey: viper.GetString("STATUS_JWT_PUBLIC_KEY"),
	}

	if err := validation.ValidateStruct(s); err != nil {
		return nil, err
	}
	return s, nil
}
