package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	Store struct {
		Driver string
		DSN    string
	} `mapstructure:"store"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Reports struct {
		OutputDir   string `mapstructure:"output_dir"`
		InvoicesDir string `mapstructure:"invoices_dir"`
	} `mapstructure:"reports"`
}

// Load читает YAML по пути path (файл необязателен) и переменные APP_*,
// например APP_STORE_DSN. Перед этим подхватывает .env из текущего каталога.
func Load(path string) (Config, error) {
	_ = gotenv.Load()

	v := viper.New()
	v.SetDefault("app.env", "prod")
	v.SetDefault("app.timezone", "Indian/Antananarivo")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", filepath.Join("data", "vente.db"))
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("reports.output_dir", os.TempDir())
	v.SetDefault("reports.invoices_dir", "factures")

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return c, err
			}
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	if c.Reports.OutputDir == "" {
		c.Reports.OutputDir = os.TempDir()
	}
	return c, nil
}

// Location: часовой пояс для дат счетов; неизвестное имя даёт UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
