package config

import (
	"errors"
	"strings"
	"time"

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

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig carries the solver knobs spec.md §6 lists as toggles.
// Load fills it from the environment, but nothing in internal/service reads
// it: ScheduleService uses a fixed 60s phase budget and takes the seed,
// toggles and slot capacity from each generate request, and SearchService
// caches results for a fixed 5 minutes.
type SchedulerConfig struct {
	// MaxClassesPerSlot bounds how many sections may share a timeslot (default 24).
	MaxClassesPerSlot int
	// AddProfConstraints corresponds to instructor exclusivity (L2).
	AddProfConstraints bool
	// AddStudentConflicts corresponds to the student-clash soft penalty (L4).
	AddStudentConflicts bool
	// AddRequiredPairConstraints has no counterpart in domain.Toggles; the
	// solver gates the required-pair soft penalty (L4) on AddNoSameDay.
	AddRequiredPairConstraints bool
	// AddConsecutiveDayPenalty corresponds to the no-consecutive-days soft penalty (L6).
	AddConsecutiveDayPenalty bool
	// PhaseTimeBudget is a wall-clock bound for each phase's search.
	PhaseTimeBudget time.Duration
	// RandomSeed is a seed for the solver's tie-breaking and restart order.
	RandomSeed int64
	// ProposalTTL is a lifetime for cached schedules and analyzer query results.
	ProposalTTL time.Duration
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

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		MaxClassesPerSlot:          v.GetInt("SCHEDULER_MAX_CLASSES_PER_SLOT"),
		AddProfConstraints:         v.GetBool("SCHEDULER_ADD_PROF_CONSTRAINTS"),
		AddStudentConflicts:        v.GetBool("SCHEDULER_ADD_STUDENT_CONFLICTS"),
		AddRequiredPairConstraints: v.GetBool("SCHEDULER_ADD_REQUIRED_PAIR_CONSTRAINTS"),
		AddConsecutiveDayPenalty:   v.GetBool("SCHEDULER_ADD_CONSECUTIVE_DAY_PENALTY"),
		PhaseTimeBudget:            parseDuration(v.GetString("SCHEDULER_PHASE_TIME_BUDGET"), 60*time.Second),
		RandomSeed:                 v.GetInt64("SCHEDULER_RANDOM_SEED"),
		ProposalTTL:                parseDuration(v.GetString("SCHEDULER_PROPOSAL_TTL"), 30*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "coursesched")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULER_MAX_CLASSES_PER_SLOT", 24)
	v.SetDefault("SCHEDULER_ADD_PROF_CONSTRAINTS", true)
	v.SetDefault("SCHEDULER_ADD_STUDENT_CONFLICTS", true)
	v.SetDefault("SCHEDULER_ADD_REQUIRED_PAIR_CONSTRAINTS", true)
	v.SetDefault("SCHEDULER_ADD_CONSECUTIVE_DAY_PENALTY", true)
	v.SetDefault("SCHEDULER_PHASE_TIME_BUDGET", "60s")
	v.SetDefault("SCHEDULER_RANDOM_SEED", 1)
	v.SetDefault("SCHEDULER_PROPOSAL_TTL", "30m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
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
