package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/weiawesome/wes-dashboard/pkg/config"
	"github.com/weiawesome/wes-dashboard/pkg/storage"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Index         IndexConfig
	Elasticsearch ElasticsearchConfig
	Bleve         BleveConfig
	Redis         RedisConfig
	Cache         CacheConfig
	Storage       StorageConfig
	Images        ImagesConfig
	Item          ItemConfig
	Log           LogConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	FilePath        string `mapstructure:"file_path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type IndexConfig struct {
	Driver     string `mapstructure:"driver"` // elasticsearch, bleve, memory
	Name       string `mapstructure:"name"`
	MaxResults int    `mapstructure:"max_results"`
}

type ElasticsearchConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Refresh  string `mapstructure:"refresh"`
}

// Address returns the HTTP endpoint of the Elasticsearch node.
func (c ElasticsearchConfig) Address() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.Port)
}

type BleveConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Address returns host:port.
func (c RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type CacheConfig struct {
	Driver  string        `mapstructure:"driver"` // redis, memory, none
	Prefix  string        `mapstructure:"prefix"`
	TTL     time.Duration `mapstructure:"ttl"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type StorageConfig struct {
	Driver string              `mapstructure:"driver"` // local, s3
	Local  storage.LocalConfig `mapstructure:"local"`
	S3     storage.S3Config    `mapstructure:"s3"`
}

type ImagesConfig struct {
	Prefix        string `mapstructure:"prefix"`
	NameGenerator string `mapstructure:"name_generator"` // uuid, ulid, ksuid
}

type ItemConfig struct {
	Timezone string `mapstructure:"timezone"`
}

type LogConfig struct {
	Level  string
	Pretty bool
}

var envBindings = map[string]string{
	"server.host":                  "HOST",
	"server.port":                  "PORT",
	"database.driver":              "DB_DRIVER",
	"database.host":                "DB_HOST",
	"database.port":                "DB_PORT",
	"database.user":                "DB_USER",
	"database.password":            "DB_PASSWORD",
	"database.dbname":              "DB_NAME",
	"database.sslmode":             "DB_SSLMODE",
	"database.file_path":           "DB_FILE_PATH",
	"database.log_level":           "DB_LOG_LEVEL",
	"index.driver":                 "INDEX_DRIVER",
	"index.name":                   "INDEX_NAME",
	"index.max_results":            "INDEX_MAX_RESULTS",
	"elasticsearch.host":           "ES_HOST",
	"elasticsearch.port":           "ES_PORT",
	"elasticsearch.username":       "ES_USERNAME",
	"elasticsearch.password":       "ES_PASSWORD",
	"elasticsearch.refresh":        "ES_REFRESH",
	"bleve.path":                   "BLEVE_PATH",
	"redis.host":                   "REDIS_HOST",
	"redis.port":                   "REDIS_PORT",
	"redis.password":               "REDIS_PASSWORD",
	"redis.db":                     "REDIS_DB",
	"cache.driver":                 "CACHE_DRIVER",
	"cache.prefix":                 "CACHE_PREFIX",
	"cache.ttl":                    "CACHE_TTL",
	"cache.timeout":                "CACHE_TIMEOUT",
	"storage.driver":               "STORAGE_DRIVER",
	"storage.local.base_path":      "STORAGE_BASE_PATH",
	"storage.s3.endpoint":          "S3_ENDPOINT",
	"storage.s3.region":            "S3_REGION",
	"storage.s3.bucket":            "S3_BUCKET",
	"storage.s3.access_key_id":     "S3_ACCESS_KEY_ID",
	"storage.s3.secret_access_key": "S3_SECRET_ACCESS_KEY",
	"storage.s3.use_path_style":    "S3_USE_PATH_STYLE",
	"images.prefix":                "IMAGES_PREFIX",
	"images.name_generator":        "IMAGES_NAME_GENERATOR",
	"item.timezone":                "ITEM_TIMEZONE",
	"log.level":                    "LOG_LEVEL",
	"log.pretty":                   "LOG_PRETTY",
}

func Load() (*Config, error) {
	v, err := pkgconfig.Load("./config", "config")
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "dashboard_db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.file_path", "./data/dashboard.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("index.driver", "elasticsearch")
	v.SetDefault("index.name", "dashboard_items")
	v.SetDefault("index.max_results", 10)
	v.SetDefault("elasticsearch.host", "localhost")
	v.SetDefault("elasticsearch.port", 9200)
	v.SetDefault("elasticsearch.username", "")
	v.SetDefault("elasticsearch.password", "")
	v.SetDefault("elasticsearch.refresh", "")
	v.SetDefault("bleve.path", "./data/dashboard.bleve")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.driver", "redis")
	v.SetDefault("cache.prefix", "search")
	v.SetDefault("cache.ttl", "15s")
	v.SetDefault("cache.timeout", "100ms")
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local.base_path", ".")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.bucket", "dashboard")
	v.SetDefault("storage.s3.use_path_style", true)
	v.SetDefault("images.prefix", "uploads")
	v.SetDefault("images.name_generator", "uuid")
	v.SetDefault("item.timezone", "Asia/Seoul")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	if err := pkgconfig.BindEnvs(v, envBindings); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
