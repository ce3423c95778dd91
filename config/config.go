package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all process configuration. Every field has a working default
// so the binary runs with no environment at all; env vars override.
type Config struct {
	Port string

	MetadataBaseURL string
	EpisodeBaseURL  string

	FetchAttempts  int
	FetchBaseDelay time.Duration
	FetchCapDelay  time.Duration
	RequestTimeout time.Duration

	ScheduleDayDelay time.Duration

	PageLimit        int
	QuickSearchLimit int
	DebounceWindow   time.Duration

	AllowedOrigins []string

	LogFile string
}

// Load reads an optional .env file and then the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found")
	}

	return Config{
		Port:             getEnv("PORT", "8080"),
		MetadataBaseURL:  getEnv("METADATA_BASE_URL", "https://api.jikan.moe/v4"),
		EpisodeBaseURL:   getEnv("EPISODE_BASE_URL", "https://api-anime-info.vercel.app/anime/gogoanime"),
		FetchAttempts:    getEnvInt("FETCH_ATTEMPTS", 4),
		FetchBaseDelay:   getEnvDuration("FETCH_BASE_DELAY", time.Second),
		FetchCapDelay:    getEnvDuration("FETCH_CAP_DELAY", 5*time.Second),
		RequestTimeout:   getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
		ScheduleDayDelay: getEnvDuration("SCHEDULE_DAY_DELAY", time.Second),
		PageLimit:        getEnvInt("PAGE_LIMIT", 20),
		QuickSearchLimit: getEnvInt("QUICK_SEARCH_LIMIT", 5),
		DebounceWindow:   getEnvDuration("DEBOUNCE_WINDOW", 300*time.Millisecond),
		AllowedOrigins:   getEnvList("ALLOWED_ORIGINS", nil),
		LogFile:          getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[config] invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
