package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Advisor  AdvisorConfig  `mapstructure:"advisor"`
	Studio   StudioConfig   `mapstructure:"studio"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"` // gin mode: debug, release, test
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	File   string `mapstructure:"file"` // empty means stdout only
	Stdout bool   `mapstructure:"stdout"`
	JSON   bool   `mapstructure:"json"`
}

// DatabaseConfig selects and addresses the row store.
// Driver is one of "libsql", "sqlite" or "mongo".
type DatabaseConfig struct {
	Driver    string `mapstructure:"driver"`
	URI       string `mapstructure:"uri"`
	Name      string `mapstructure:"name"`       // mongo database name
	AccessKey string `mapstructure:"access_key"` // libsql auth token
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// EndpointURL returns the endpoint with a scheme. A bare host:port gets https
// when UseSSL is set and http otherwise; an explicit scheme is kept.
func (c S3Config) EndpointURL() string {
	if c.Endpoint == "" || strings.Contains(c.Endpoint, "://") {
		return c.Endpoint
	}
	if c.UseSSL {
		return "https://" + c.Endpoint
	}
	return "http://" + c.Endpoint
}

// Enabled reports whether photo storage has enough settings to connect.
func (c S3Config) Enabled() bool {
	return c.BucketName != "" && c.Region != ""
}

// JWTConfig defines JWT specific configuration.
// A zero Expiration issues tokens without an exp claim.
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// AdvisorConfig points at an OpenAI-compatible chat completion endpoint.
type AdvisorConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type StudioConfig struct {
	SessionFile string `mapstructure:"session_file"`
}

// LoadConfig reads configuration from file or environment variables.
// A .env file in the working directory is loaded first when present.
func LoadConfig(path string) (Config, error) {
	var config Config

	// a missing .env is normal outside development
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)
	bindAliases(v)

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return config, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "release")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.stdout", true)
	v.SetDefault("log.json", false)

	// no default URI: an unset store must fail fast
	v.SetDefault("database.driver", "libsql")
	v.SetDefault("database.uri", "")
	v.SetDefault("database.name", "studio_tracker")
	v.SetDefault("database.access_key", "")

	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "0s")

	v.SetDefault("advisor.api_key", "")
	v.SetDefault("advisor.base_url", "https://api.moonshot.cn/v1")
	v.SetDefault("advisor.model", "moonshot-v1-8k")
	v.SetDefault("advisor.temperature", 0.7)
	v.SetDefault("advisor.timeout", "60s")

	v.SetDefault("studio.session_file", ".studio-session.toml")
}

// bindAliases accepts the variable names used by the hosted services' own tooling.
func bindAliases(v *viper.Viper) {
	_ = v.BindEnv("database.uri", "DATABASE_URI", "TURSO_DATABASE_URL")
	_ = v.BindEnv("database.access_key", "DATABASE_ACCESS_KEY", "TURSO_AUTH_TOKEN")
	_ = v.BindEnv("advisor.api_key", "ADVISOR_API_KEY", "KIMI_API_KEY", "VITE_KIMI_API_KEY")
}
