package configuration

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"yt-channel-fetcher/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Session     Session     `json:"session"`
	YouTube     YouTube     `json:"youtube"`
	Fetch       Fetch       `json:"fetch"`
	GoogleSheet GoogleSheet `json:"googleSheet"`
	Pubsub      Pubsub      `json:"pubsub"`
	Logger      Logger      `json:"logger"`
}

type App struct {
	Port           int      `json:"port"`
	TLSEnabled     bool     `json:"tlsEnabled"`
	TLSCertFile    string   `json:"tlsCertFile"`
	TLSKeyFile     string   `json:"tlsKeyFile"`
	AllowedOrigins []string `json:"allowedOrigins"`
}

type Database struct {
	Psql Db `json:"psql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
}

type RedisClient struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Password     string `json:"password"`
	DatabaseName string `json:"databaseName"`
	Username     string `json:"username"`
	URL          string `json:"url"`
}

// Session selects where per-session fetch results live: memory, redis or postgres.
type Session struct {
	Store      string `json:"store"`
	CookieName string `json:"cookieName"`
	TTLMinutes int    `json:"ttlMinutes"`
}

type YouTube struct {
	APIKey   string `json:"apiKey"`
	Endpoint string `json:"endpoint"`
}

type Fetch struct {
	PageSize         int64 `json:"pageSize"`
	IncludeLive      bool  `json:"includeLive"`
	IncludePlaylists bool  `json:"includePlaylists"`
	TimeoutSeconds   int   `json:"timeoutSeconds"`
}

type GoogleSheet struct {
	CredentialsFile string `json:"credentialsFile"`
	Endpoint        string `json:"endpoint"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	TopicID   string `json:"topicID"`
}

type Logger struct {
	Level string `json:"level"`
}

var C Config

func init() {
	Reload()
}

// Reload rebuilds C from the config file and the environment, e.g. after LoadEnvFromFile.
func Reload() {
	C = Config{}
	LoadConfig()
	initApp(&C)
	initDatabase(&C)
	initSession(&C)
	initFetch(&C)
	initIntegrations(&C)
	if C.Logger.Level != "" {
		logger.SetLevel(C.Logger.Level)
	}
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	// Defaults keep a config-less run usable: include every pass, page size 50.
	viper.SetDefault("fetch.pageSize", DefaultPageSize)
	viper.SetDefault("fetch.includeLive", true)
	viper.SetDefault("fetch.includePlaylists", true)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initApp(C *Config) {
	// APP_PORT -> PORT -> config -> 10001
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		switch v {
		case "1", "true", "TRUE", "True":
			C.App.TLSEnabled = true
		case "0", "false", "FALSE", "False":
			C.App.TLSEnabled = false
		}
	}
	if C.App.TLSCertFile == "" {
		C.App.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if C.App.TLSKeyFile == "" {
		C.App.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}
	if len(C.App.AllowedOrigins) == 0 {
		C.App.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:4200"}
	}
	if C.App.TLSEnabled {
		logger.GetLogger().WithFields(map[string]interface{}{"cert": C.App.TLSCertFile, "key": C.App.TLSKeyFile}).Info("TLS enabled via configuration")
	}
}

func initDatabase(C *Config) {
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = getEnv("DB_PORT", "5432")
	}
	if C.Database.Psql.SSLMode == "" {
		C.Database.Psql.SSLMode = getEnv("DB_SSLMODE", "disable")
	}
}

func initSession(C *Config) {
	if v := os.Getenv("SESSION_BACKEND"); v != "" {
		C.Session.Store = v
	}
	switch C.Session.Store {
	case SessionStoreMemory, SessionStoreRedis, SessionStorePostgres:
	default:
		if C.Session.Store != "" {
			logger.GetLogger().WithField("store", C.Session.Store).Warn("Unknown session store, using memory")
		}
		C.Session.Store = SessionStoreMemory
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		C.RedisClient.URL = v
	}
	if C.Session.CookieName == "" {
		C.Session.CookieName = "yt_fetcher_session"
	}
	if C.Session.TTLMinutes <= 0 {
		C.Session.TTLMinutes = 24 * 60
	}
}

func initFetch(C *Config) {
	if C.Fetch.PageSize <= 0 || C.Fetch.PageSize > DefaultPageSize {
		C.Fetch.PageSize = DefaultPageSize
	}
	if C.Fetch.TimeoutSeconds <= 0 {
		C.Fetch.TimeoutSeconds = 300
	}
}

const (
	DefaultPageSize = 50

	SessionStoreMemory   = "memory"
	SessionStoreRedis    = "redis"
	SessionStorePostgres = "postgres"
)

// SessionTTL is the lifetime of a stored fetch result.
func (s Session) SessionTTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}

// FetchTimeout bounds one whole fetch of a channel.
func (f Fetch) FetchTimeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// initIntegrations applies env overrides for the optional Google Sheets and Pub/Sub integrations.
func initIntegrations(C *Config) {
	if v := os.Getenv("GOOGLE_SHEETS_CREDENTIALS_FILE"); v != "" {
		C.GoogleSheet.CredentialsFile = v
	}
	if v := os.Getenv("PUBSUB_PROJECT_ID"); v != "" {
		C.Pubsub.ProjectID = v
	}
	if v := os.Getenv("PUBSUB_TOPIC_ID"); v != "" {
		C.Pubsub.TopicID = v
	}
	if C.Pubsub.ProjectID != "" && C.Pubsub.TopicID == "" {
		C.Pubsub.TopicID = "channel-fetch-events"
	}
}
