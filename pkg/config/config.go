package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	CORS      CORSConfig
	Log       LogConfig
	Storage   StorageConfig
	Rooms     RoomsConfig
	Scheduler SchedulerConfig
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// StorageConfig locates the on-disk schedule store.
type StorageConfig struct {
	SchedulesDir string
}

// RoomsConfig optionally overrides the built-in room catalog with a CSV
// file (room_id, capacity, large_hall).
type RoomsConfig struct {
	CatalogFile string
}

// SchedulerConfig tunes the assignment engine's soft constraints and
// placement policies.
type SchedulerConfig struct {
	DailyLectureCap     int
	DualRoomTutorials   bool
	AllowSplitTutorials bool

	LectureCapacityRatio  float64
	DualRoomCapacityRatio float64

	WeightDailyLoad       float64
	WeightGap             float64
	WeightEarlySlot       float64
	WeightRoomConsistency float64
	WeightContinuity      float64
	WeightSplitTutorial   float64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Storage = StorageConfig{
		SchedulesDir: v.GetString("SCHEDULES_DIR"),
	}

	cfg.Rooms = RoomsConfig{
		CatalogFile: v.GetString("ROOMS_CATALOG_FILE"),
	}

	cfg.Scheduler = SchedulerConfig{
		DailyLectureCap:       v.GetInt("SCHEDULER_DAILY_LECTURE_CAP"),
		DualRoomTutorials:     v.GetBool("SCHEDULER_DUAL_ROOM_TUTORIALS"),
		AllowSplitTutorials:   v.GetBool("SCHEDULER_ALLOW_SPLIT_TUTORIALS"),
		LectureCapacityRatio:  v.GetFloat64("SCHEDULER_LECTURE_CAPACITY_RATIO"),
		DualRoomCapacityRatio: v.GetFloat64("SCHEDULER_DUAL_ROOM_CAPACITY_RATIO"),
		WeightDailyLoad:       v.GetFloat64("SCHEDULER_WEIGHT_DAILY_LOAD"),
		WeightGap:             v.GetFloat64("SCHEDULER_WEIGHT_GAP"),
		WeightEarlySlot:       v.GetFloat64("SCHEDULER_WEIGHT_EARLY_SLOT"),
		WeightRoomConsistency: v.GetFloat64("SCHEDULER_WEIGHT_ROOM_CONSISTENCY"),
		WeightContinuity:      v.GetFloat64("SCHEDULER_WEIGHT_CONTINUITY"),
		WeightSplitTutorial:   v.GetFloat64("SCHEDULER_WEIGHT_SPLIT_TUTORIAL"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULES_DIR", "./data/schedules")
	v.SetDefault("ROOMS_CATALOG_FILE", "")

	v.SetDefault("SCHEDULER_DAILY_LECTURE_CAP", 3)
	v.SetDefault("SCHEDULER_DUAL_ROOM_TUTORIALS", false)
	v.SetDefault("SCHEDULER_ALLOW_SPLIT_TUTORIALS", true)
	v.SetDefault("SCHEDULER_LECTURE_CAPACITY_RATIO", 0.5)
	v.SetDefault("SCHEDULER_DUAL_ROOM_CAPACITY_RATIO", 0.25)
	v.SetDefault("SCHEDULER_WEIGHT_DAILY_LOAD", 15.0)
	v.SetDefault("SCHEDULER_WEIGHT_GAP", 5.0)
	v.SetDefault("SCHEDULER_WEIGHT_EARLY_SLOT", 3.0)
	v.SetDefault("SCHEDULER_WEIGHT_ROOM_CONSISTENCY", 8.0)
	v.SetDefault("SCHEDULER_WEIGHT_CONTINUITY", 2.0)
	v.SetDefault("SCHEDULER_WEIGHT_SPLIT_TUTORIAL", 10.0)
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
