package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	AppPort        string
	DbHost         string
	DbPort         string
	DbUser         string
	DbPassword     string
	DbName         string
	DbParams       string
	TrustedProxies []string

	CachePath         string
	FeedPollInterval  time.Duration
	DoubleClickWindow time.Duration
	ExitAnimation     time.Duration
	RecentWindow      time.Duration
	WeekStart         time.Weekday
	Location          *time.Location
}

func LoadConfig() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		AppPort:        getEnv("APP_PORT", "8080"),
		DbHost:         getEnv("MYSQL_HOST", "db"),
		DbPort:         getEnv("MYSQL_PORT", "3306"),
		DbUser:         getEnv("MYSQL_USER", "taskcraftify"),
		DbPassword:     getEnv("MYSQL_PASSWORD", "taskcraftify"),
		DbName:         getEnv("MYSQL_DATABASE", "taskcraftify"),
		DbParams:       getEnv("MYSQL_PARAMS", "parseTime=true&multiStatements=true"),
		TrustedProxies: parseTrustedProxies(os.Getenv("TRUSTED_PROXIES")),

		CachePath:         getEnv("CACHE_PATH", "taskcraftify-cache.db"),
		FeedPollInterval:  getDuration("FEED_POLL_INTERVAL", 2*time.Second),
		DoubleClickWindow: getDuration("DOUBLE_CLICK_WINDOW", 350*time.Millisecond),
		ExitAnimation:     getDuration("EXIT_ANIMATION", 400*time.Millisecond),
		RecentWindow:      getDuration("RECENT_WINDOW", 72*time.Hour),
		WeekStart:         parseWeekday(os.Getenv("WEEK_START")),
		Location:          loadLocation(os.Getenv("TIMEZONE")),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d <= 0 {
		zap.L().Warn("invalid duration, using default", zap.String("key", key), zap.String("value", value))
		return fallback
	}
	return d
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekday(value string) time.Weekday {
	if day, ok := weekdays[strings.ToLower(strings.TrimSpace(value))]; ok {
		return day
	}
	return time.Sunday
}

func loadLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		zap.L().Warn("unknown timezone, using local", zap.String("timezone", name), zap.Error(err))
		return time.Local
	}
	return loc
}

func parseTrustedProxies(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	proxies := make([]string, 0, len(parts))
	for _, part := range parts {
		proxy := strings.TrimSpace(part)
		if proxy == "" {
			continue
		}
		proxies = append(proxies, proxy)
	}

	if len(proxies) == 0 {
		return nil
	}

	return proxies
}
