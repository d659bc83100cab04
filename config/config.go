package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/ini.v1"
)

const (
	// DefaultShopTitle is shown in the page header
	DefaultShopTitle = "Bookstall"
	// DefaultCartKey is the storage key of the cart snapshot
	DefaultCartKey = "bookstall.cart"
)

// Config holds the application settings
type Config struct {
	Debug         bool   `ini:"debug"`
	Port          int    `ini:"port"`
	ShopTitle     string `ini:"shop_title"`
	CatalogFile   string `ini:"catalog_file"` // empty means the bundled catalog
	WatchCatalog  bool   `ini:"watch_catalog"`
	StoreBackend  string `ini:"store_backend"` // "sqlite", "redis", "memory"
	DBPath        string `ini:"db_path"`
	RedisAddr     string `ini:"redis_addr"`
	RedisDB       int    `ini:"redis_db"`
	CartKey       string `ini:"cart_key"`
	CoversDir     string `ini:"covers_dir"`
	CoverCacheDir string `ini:"cover_cache_dir"`
	CoverHeight   int    `ini:"cover_height"`
	CurrentYear   int    `ini:"current_year"` // 0 means the wall-clock year
	PriceStep     string `ini:"price_step"`
	LogFile       string `ini:"log_file"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Debug:         false,
		Port:          8698,
		ShopTitle:     DefaultShopTitle,
		CatalogFile:   "",
		WatchCatalog:  false,
		StoreBackend:  "sqlite",
		DBPath:        "bookstall.db",
		RedisAddr:     "127.0.0.1:6379",
		RedisDB:       0,
		CartKey:       DefaultCartKey,
		CoversDir:     "covers",
		CoverCacheDir: "cache/covers",
		CoverHeight:   300,
		CurrentYear:   0,
		PriceStep:     "1.00",
		LogFile:       "bookstall.log",
	}
}

// LoadConfig reads the configuration file. A missing file yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Printf("config file %s not found, using defaults", configPath)
		return cfg, nil
	}

	iniCfg, err := ini.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config file %s: %w", configPath, err)
	}

	section := iniCfg.Section("")

	readString := func(key string, defaultValue string) string {
		if value := section.Key(key).String(); value != "" {
			return value
		}
		return defaultValue
	}

	readInt := func(key string, defaultValue int) int {
		if value, err := section.Key(key).Int(); err == nil {
			return value
		}
		return defaultValue
	}

	readBool := func(key string, defaultValue bool) bool {
		if value, err := section.Key(key).Bool(); err == nil {
			return value
		}
		return defaultValue
	}

	cfg.Debug = readBool("debug", cfg.Debug)
	cfg.Port = readInt("port", cfg.Port)
	cfg.ShopTitle = readString("shop_title", cfg.ShopTitle)
	cfg.CatalogFile = readString("catalog_file", cfg.CatalogFile)
	cfg.WatchCatalog = readBool("watch_catalog", cfg.WatchCatalog)
	cfg.StoreBackend = readString("store_backend", cfg.StoreBackend)
	cfg.DBPath = readString("db_path", cfg.DBPath)
	cfg.RedisAddr = readString("redis_addr", cfg.RedisAddr)
	cfg.RedisDB = readInt("redis_db", cfg.RedisDB)
	cfg.CartKey = readString("cart_key", cfg.CartKey)
	cfg.CoversDir = readString("covers_dir", cfg.CoversDir)
	cfg.CoverCacheDir = readString("cover_cache_dir", cfg.CoverCacheDir)
	cfg.CoverHeight = readInt("cover_height", cfg.CoverHeight)
	cfg.CurrentYear = readInt("current_year", cfg.CurrentYear)
	cfg.PriceStep = readString("price_step", cfg.PriceStep)
	cfg.LogFile = readString("log_file", cfg.LogFile)

	return cfg, nil
}

// Validate checks the configuration. Recoverable mistakes are replaced by
// defaults with a warning; the rest are returned as errors.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be between 1 and 65535)", c.Port)
	}

	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	validBackends := map[string]bool{"sqlite": true, "redis": true, "memory": true}
	if !validBackends[c.StoreBackend] {
		log.Printf("invalid store_backend '%s', using 'sqlite'", c.StoreBackend)
		c.StoreBackend = "sqlite"
	}

	if c.StoreBackend == "sqlite" {
		if c.DBPath == "" {
			return fmt.Errorf("db_path cannot be empty with the sqlite backend")
		}
		if strings.ContainsAny(c.DBPath, "\x00") {
			return fmt.Errorf("db_path contains invalid characters")
		}
	}

	if c.StoreBackend == "redis" {
		if c.RedisAddr == "" || strings.ContainsAny(c.RedisAddr, " \t\n\r") {
			return fmt.Errorf("invalid redis_addr: %q", c.RedisAddr)
		}
		if c.RedisDB < 0 {
			log.Printf("invalid redis_db %d, using 0", c.RedisDB)
			c.RedisDB = 0
		}
	}

	if strings.TrimSpace(c.CartKey) == "" {
		c.CartKey = DefaultCartKey
	}

	if c.ShopTitle == "" {
		c.ShopTitle = DefaultShopTitle
	}

	if c.CoverHeight <= 0 {
		log.Printf("invalid cover_height %d, using 300", c.CoverHeight)
		c.CoverHeight = 300
	}

	if c.CurrentYear < 0 {
		log.Printf("invalid current_year %d, using the wall-clock year", c.CurrentYear)
		c.CurrentYear = 0
	}

	if step, err := decimal.NewFromString(c.PriceStep); err != nil || !step.IsPositive() {
		log.Printf("invalid price_step '%s', using 1.00", c.PriceStep)
		c.PriceStep = "1.00"
	}

	if c.WatchCatalog && c.CatalogFile == "" {
		log.Printf("watch_catalog has no effect without catalog_file")
		c.WatchCatalog = false
	}

	return nil
}

// PriceStepDecimal returns the ceiling increment used by the terminal storefront
func (c *Config) PriceStepDecimal() decimal.Decimal {
	step, err := decimal.NewFromString(c.PriceStep)
	if err != nil || !step.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return step
}

// String returns a printable representation of the configuration
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Debug: %t\n", c.Debug))
	sb.WriteString(fmt.Sprintf("Port: %d\n", c.Port))
	sb.WriteString(fmt.Sprintf("ShopTitle: %s\n", c.ShopTitle))
	sb.WriteString(fmt.Sprintf("CatalogFile: %s\n", func() string {
		if c.CatalogFile == "" {
			return "(bundled)"
		}
		return c.CatalogFile
	}()))
	sb.WriteString(fmt.Sprintf("WatchCatalog: %t\n", c.WatchCatalog))
	sb.WriteString(fmt.Sprintf("StoreBackend: %s\n", c.StoreBackend))
	sb.WriteString(fmt.Sprintf("DBPath: %s\n", c.DBPath))
	sb.WriteString(fmt.Sprintf("RedisAddr: %s\n", c.RedisAddr))
	sb.WriteString(fmt.Sprintf("RedisDB: %d\n", c.RedisDB))
	sb.WriteString(fmt.Sprintf("CartKey: %s\n", c.CartKey))
	sb.WriteString(fmt.Sprintf("CoversDir: %s\n", c.CoversDir))
	sb.WriteString(fmt.Sprintf("CoverCacheDir: %s\n", c.CoverCacheDir))
	sb.WriteString(fmt.Sprintf("CoverHeight: %d\n", c.CoverHeight))
	sb.WriteString(fmt.Sprintf("CurrentYear: %d\n", c.CurrentYear))
	sb.WriteString(fmt.Sprintf("PriceStep: %s\n", c.PriceStep))
	sb.WriteString(fmt.Sprintf("LogFile: %s\n", c.LogFile))
	return sb.String()
}

// GetAbsolutePath resolves a path from the config relative to rootPath
func (c *Config) GetAbsolutePath(rootPath, relativePath string) string {
	if relativePath == "" || filepath.IsAbs(relativePath) {
		return relativePath
	}
	return filepath.Join(rootPath, relativePath)
}

// SaveConfig writes the configuration to configPath
func (c *Config) SaveConfig(configPath string) error {
	cfg := ini.Empty()
	section := cfg.Section("")

	section.Key("debug").SetValue(fmt.Sprintf("%t", c.Debug))
	section.Key("port").SetValue(fmt.Sprintf("%d", c.Port))
	section.Key("shop_title").SetValue(c.ShopTitle)
	section.Key("catalog_file").SetValue(c.CatalogFile)
	section.Key("watch_catalog").SetValue(fmt.Sprintf("%t", c.WatchCatalog))
	section.Key("store_backend").SetValue(c.StoreBackend)
	section.Key("db_path").SetValue(c.DBPath)
	section.Key("redis_addr").SetValue(c.RedisAddr)
	section.Key("redis_db").SetValue(fmt.Sprintf("%d", c.RedisDB))
	section.Key("cart_key").SetValue(c.CartKey)
	section.Key("covers_dir").SetValue(c.CoversDir)
	section.Key("cover_cache_dir").SetValue(c.CoverCacheDir)
	section.Key("cover_height").SetValue(fmt.Sprintf("%d", c.CoverHeight))
	section.Key("current_year").SetValue(fmt.Sprintf("%d", c.CurrentYear))
	section.Key("price_step").SetValue(c.PriceStep)
	section.Key("log_file").SetValue(c.LogFile)

	if dir := filepath.Dir(configPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("save config file %s: %w", configPath, err)
	}
	return nil
}
