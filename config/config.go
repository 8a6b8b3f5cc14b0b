package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config holds the application's configuration values.
type Config struct {
	AppName         string `json:"appname"`
	AppEnv          string `json:"appenv"`
	AppPort         uint16 `json:"appport"`
	GinMode         string `json:"ginmode"`
	JWTSecret       string `json:"-"`
	SessionTTLHours int    `json:"session_ttl_hours"`
	StaleTTLHours   int    `json:"stale_ttl_hours"`
	FirstUserAdmin  bool   `json:"first_user_admin"`
	AccessLogCap    int    `json:"access_log_cap"`
	ReportListCap   int    `json:"report_list_cap"`
	DBHost          string `json:"dbhost"`
	DBPort          uint16 `json:"dbport"`
	DBName          string `json:"dbname"`
	DBUSER          string `json:"dbuser"`
	DBPass          string `json:"dbpass"`
}

var config *Config
var once sync.Once

// LoadConfig loads the environment variables from a .env file, and returns a singleton Config instance.
func LoadConfig() *Config {
	once.Do(func() {
		// Environment variables already set (tests, containers) take
		// precedence over the .env file, so a missing file is not fatal.
		if err := godotenv.Load(); err != nil {
			log.Printf("no .env file loaded: %v", err)
		}

		appPort, _ := strconv.ParseUint(os.Getenv("APPPORT"), 10, 16)
		dbPort, _ := strconv.ParseUint(os.Getenv("DBPORT"), 10, 16)

		// Initialize the Config struct with values from environment variables.
		config = &Config{
			AppName:         os.Getenv("APPNAME"),
			AppEnv:          os.Getenv("APPENV"),
			AppPort:         uint16(appPort),
			GinMode:         os.Getenv("GINMODE"),
			JWTSecret:       os.Getenv("JWTSECRET"),
			SessionTTLHours: envInt("SESSION_TTL_HOURS", 24),
			StaleTTLHours:   envInt("PRESENCE_TTL_HOURS", 24),
			FirstUserAdmin:  envBool("FIRST_USER_ADMIN", true),
			AccessLogCap:    envInt("ACCESS_LOG_CAP", 1000),
			ReportListCap:   envInt("REPORT_LIST_CAP", 1000),
			DBHost:          os.Getenv("DBHOST"),
			DBPort:          uint16(dbPort),
			DBName:          os.Getenv("DBNAME"),
			DBUSER:          os.Getenv("DBUSER"),
			DBPass:          os.Getenv("DBPASS"),
		}
	})
	return config
}

// ResetConfigForTesting clears the singleton so the next LoadConfig call
// re-reads the environment. This should only be used in tests.
func ResetConfigForTesting() {
	config = nil
	once = sync.Once{}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// ConnectMySQL establishes the audit database connection using the
// configuration values. In the test environment an in-memory sqlite database
// is used instead so tests never require a running MySQL server.
func ConnectMySQL() (*gorm.DB, error) {
	cfg := LoadConfig()

	if cfg.AppEnv == "test" {
		return gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	}

	// Build the Data Source Name (DSN) using the configuration values.
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", cfg.DBUSER, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)

	// Open a database connection.
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}
