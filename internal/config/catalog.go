package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// CatalogSettings are catalog tunables that can change without a restart.
type CatalogSettings struct {
	Pagination PaginationSettings `mapstructure:"pagination"`
}

type PaginationSettings struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

func DefaultCatalogSettings() CatalogSettings {
	return CatalogSettings{
		Pagination: PaginationSettings{
			DefaultLimit: 10,
			MaxLimit:     100,
		},
	}
}

type CatalogSettingsHolder struct {
	current atomic.Value // holds CatalogSettings
}

// NewStaticCatalogSettingsHolder returns a holder that never reloads.
func NewStaticCatalogSettingsHolder(settings CatalogSettings) *CatalogSettingsHolder {
	holder := &CatalogSettingsHolder{}
	holder.current.Store(settings)
	return holder
}

func NewCatalogSettingsHolder(cfg Config) (*CatalogSettingsHolder, error) {
	v := viper.New()

	v.SetConfigName("catalog")
	v.SetConfigType("yml")
	v.AddConfigPath(cfg.Catalog.SettingsPath)
	v.AddConfigPath("/etc/oemcatalog")

	v.SetEnvPrefix("OEMCATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultCatalogSettings()
	v.SetDefault("catalog.pagination.default_limit", defaults.Pagination.DefaultLimit)
	v.SetDefault("catalog.pagination.max_limit", defaults.Pagination.MaxLimit)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		fileFound = false
	}

	var settings CatalogSettings
	if err := v.UnmarshalKey("catalog", &settings); err != nil {
		return nil, err
	}
	if err := validateCatalogSettings(settings); err != nil {
		return nil, err
	}

	holder := NewStaticCatalogSettingsHolder(settings)
	if !fileFound {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated CatalogSettings
		if err := v.UnmarshalKey("catalog", &updated); err != nil {
			log.Printf("[catalog-config] reload failed: %v", err)
			return
		}
		if err := validateCatalogSettings(updated); err != nil {
			log.Printf("[catalog-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[catalog-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *CatalogSettingsHolder) Get() CatalogSettings {
	return h.current.Load().(CatalogSettings)
}

func validateCatalogSettings(settings CatalogSettings) error {
	if settings.Pagination.DefaultLimit <= 0 {
		return errors.New("catalog.pagination.default_limit must be positive")
	}
	if settings.Pagination.MaxLimit < settings.Pagination.DefaultLimit {
		return errors.New("catalog.pagination.max_limit cannot be lower than default_limit")
	}
	return nil
}
