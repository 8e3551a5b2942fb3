package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

const DefaultPath = "verbena.json"

type Config struct {
	Port        string `json:"port"`
	DBURL       string `json:"dbUrl"`
	AutoMigrate bool   `json:"autoMigrate"`
	LogLevel    string `json:"logLevel"` // error | warning | info | verbose

	// компиляторы
	TagsFile string `json:"tagsFile"` // пусто: встроенный реестр тегов
	OutDir   string `json:"outDir"`
	Package  string `json:"package"`

	StmtCacheSize int `json:"stmtCacheSize"`
}

func def() Config {
	return Config{
		Port:          "8080",
		DBURL:         "",
		AutoMigrate:   false,
		LogLevel:      "info",
		TagsFile:      "",
		OutDir:        ".",
		Package:       "gen",
		StmtCacheSize: 64,
	}
}

func loadJSON(path string, c *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, c)
}

func getenv(k, fallback string) string {
	if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getenvBool(k string, fallback bool) bool {
	if v, ok := os.LookupEnv(k); ok {
		v = strings.TrimSpace(strings.ToLower(v))
		if v == "1" || v == "true" || v == "yes" {
			return true
		}
		if v == "0" || v == "false" || v == "no" {
			return false
		}
	}
	return fallback
}

func getenvInt(k string, fallback int) int {
	if v, ok := os.LookupEnv(k); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

// Load: умолчания, затем JSON (если файл есть), затем ENV.
// Отсутствующий файл не ошибка, битый: ошибка.
func Load(path string) (Config, error) {
	cfg := def()

	if st, err := os.Stat(path); err == nil && !st.IsDir() {
		if err := loadJSON(path, &cfg); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}

	// ENV overrides
	cfg.Port = getenv("VERBENA_PORT", cfg.Port)
	cfg.DBURL = getenv("VERBENA_DB_URL", cfg.DBURL)
	cfg.AutoMigrate = getenvBool("VERBENA_AUTO_MIGRATE", cfg.AutoMigrate)
	cfg.LogLevel = getenv("VERBENA_LOG_LEVEL", cfg.LogLevel)
	cfg.TagsFile = getenv("VERBENA_TAGS_FILE", cfg.TagsFile)
	cfg.OutDir = getenv("VERBENA_OUT_DIR", cfg.OutDir)
	cfg.Package = getenv("VERBENA_PACKAGE", cfg.Package)
	cfg.StmtCacheSize = getenvInt("VERBENA_STMT_CACHE_SIZE", cfg.StmtCacheSize)

	return cfg, nil
}

// Flags: флаги команды поверх файла и ENV.
type Flags struct {
	cmd    *cobra.Command
	path   string
	values Config
}

type binder func(f *Flags)

var binders = map[string]binder{
	"port":            func(f *Flags) { f.cmd.Flags().StringVar(&f.values.Port, "port", "", "HTTP port") },
	"db":              func(f *Flags) { f.cmd.Flags().StringVar(&f.values.DBURL, "db", "", "Postgres URL") },
	"auto-migrate":    func(f *Flags) { f.cmd.Flags().BoolVar(&f.values.AutoMigrate, "auto-migrate", false, "Auto-migrate add-only") },
	"log-level":       func(f *Flags) { f.cmd.Flags().StringVar(&f.values.LogLevel, "log-level", "", "error, warning, info or verbose") },
	"tags":            func(f *Flags) { f.cmd.Flags().StringVar(&f.values.TagsFile, "tags", "", "Tag registry YAML (default: built-in)") },
	"out-dir":         func(f *Flags) { f.cmd.Flags().StringVar(&f.values.OutDir, "out-dir", "", "Directory for generated files") },
	"package":         func(f *Flags) { f.cmd.Flags().StringVar(&f.values.Package, "package", "", "Go package name of generated files") },
	"stmt-cache-size": func(f *Flags) { f.cmd.Flags().IntVar(&f.values.StmtCacheSize, "stmt-cache-size", 0, "Prepared statement cache size") },
}

// Bind регистрирует у cmd флаг --config и перечисленные флаги конфигурации.
func Bind(cmd *cobra.Command, names ...string) *Flags {
	f := &Flags{cmd: cmd}
	cmd.Flags().StringVar(&f.path, "config", DefaultPath, "Path to config JSON")
	for _, n := range names {
		b, ok := binders[n]
		if !ok {
			panic("config: unknown flag " + n)
		}
		b(f)
	}
	return f
}

// Resolve собирает итоговую конфигурацию: явно заданные флаги побеждают.
func (f *Flags) Resolve() (Config, error) {
	cfg, err := Load(f.path)
	if err != nil {
		return cfg, err
	}
	fs := f.cmd.Flags()
	if fs.Changed("port") {
		cfg.Port = strings.TrimSpace(f.values.Port)
	}
	if fs.Changed("db") {
		cfg.DBURL = strings.TrimSpace(f.values.DBURL)
	}
	if fs.Changed("auto-migrate") {
		cfg.AutoMigrate = f.values.AutoMigrate
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = strings.TrimSpace(f.values.LogLevel)
	}
	if fs.Changed("tags") {
		cfg.TagsFile = strings.TrimSpace(f.values.TagsFile)
	}
	if fs.Changed("out-dir") {
		cfg.OutDir = strings.TrimSpace(f.values.OutDir)
	}
	if fs.Changed("package") {
		cfg.Package = strings.TrimSpace(f.values.Package)
	}
	if fs.Changed("stmt-cache-size") {
		cfg.StmtCacheSize = f.values.StmtCacheSize
	}
	return cfg, nil
}
