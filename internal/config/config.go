package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Jira     JiraConfig     `yaml:"jira"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

// JiraConfig drives webhook classification and field extraction.
// CustomerIDFields is an ordered fallback chain: the first field id present
// in the payload with a non-empty value supplies the customer id.
type JiraConfig struct {
	CloseLabel         string   `yaml:"close_label"`
	BrowseBaseURL      string   `yaml:"browse_base_url"`
	CustomerIDFields   []string `yaml:"customer_id_fields"`
	CustomerPhoneField string   `yaml:"customer_phone_field"`
	TransactionIDField string   `yaml:"transaction_id_field"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

var GlobalConfig *Config

func Load(configPath string) (*Config, error) {
	// .env is optional; real env vars still win below.
	_ = godotenv.Load()

	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		fileCfg := *DefaultConfig()
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, err
		}
		cfg = &fileCfg
	}

	cfg.overrideFromEnv()
	GlobalConfig = cfg
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8000",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "ticketbridge.db",
		},
		Jira: JiraConfig{
			CloseLabel: "Close",
			CustomerIDFields: []string{
				"customfield_10496",
				"customfield_10019",
				"customfield_11227",
			},
			CustomerPhoneField: "customfield_11227",
			TransactionIDField: "customfield_11226",
		},
		Log: LogConfig{
			Level: "info",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if label := os.Getenv("JIRA_CLOSE_LABEL"); label != "" {
		c.Jira.CloseLabel = label
	}
	if baseURL := os.Getenv("JIRA_BROWSE_BASE_URL"); baseURL != "" {
		c.Jira.BrowseBaseURL = baseURL
	}
	if fields := os.Getenv("JIRA_CUSTOMER_ID_FIELDS"); fields != "" {
		c.Jira.CustomerIDFields = splitAndTrim(fields)
	}
	if field := os.Getenv("JIRA_CUSTOMER_PHONE_FIELD"); field != "" {
		c.Jira.CustomerPhoneField = field
	}
	if field := os.Getenv("JIRA_TRANSACTION_ID_FIELD"); field != "" {
		c.Jira.TransactionIDField = field
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORS.AllowedOrigins = splitAndTrim(origins)
	}
}

// splitAndTrim parses a comma-separated env value, dropping empty entries.
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
