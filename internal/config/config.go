package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todo.db"
	DefaultStorageKey     = "todos"
	appName               = "tasklist"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	Add            string `toml:"add"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Toggle         string `toml:"toggle"`
	Delete         string `toml:"delete"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	Edit           string `toml:"edit"`
	CyclePriority  string `toml:"cycle_priority"`
	CycleFilter    string `toml:"cycle_filter"`
	FilterAll      string `toml:"filter_all"`
	FilterActive   string `toml:"filter_active"`
	FilterDone     string `toml:"filter_completed"`
	ClearCompleted string `toml:"clear_completed"`
}

type Config struct {
	DBPath          string `toml:"db_path"`
	StorageKey      string `toml:"storage_key"`
	DefaultFilter   string `toml:"default_filter"`
	DefaultPriority string `toml:"default_priority"`
	Locale          string `toml:"locale"`
	Keys            Keymap `toml:"keys"`
}

// ResolveConfigPath returns $XDG_CONFIG_HOME/tasklist/config.toml, falling back to ~/.config.
func ResolveConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, appName, DefaultConfigFileName)
}

// DefaultDBPath returns $XDG_DATA_HOME/tasklist/todo.db, falling back to ~/.local/share.
func DefaultDBPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, appName, DefaultDBName)
}

// LoadOrCreate reads the config at path. A missing file is created with defaults.
// Fields absent from an existing file keep their default values.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = DefaultStorageKey
	}
	return cfg, cfg.Validate()
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Default() Config {
	return Config{
		DBPath:          DefaultDBPath(),
		StorageKey:      DefaultStorageKey,
		DefaultFilter:   "all",
		DefaultPriority: "medium",
		Locale:          "en",
		Keys: Keymap{
			Quit:           "q",
			Add:            "a",
			Up:             "k",
			Down:           "j",
			Toggle:         " ",
			Delete:         "d",
			Confirm:        "enter",
			Cancel:         "esc",
			Edit:           "e",
			CyclePriority:  "tab",
			CycleFilter:    "f",
			FilterAll:      "1",
			FilterActive:   "2",
			FilterDone:     "3",
			ClearCompleted: "C",
		},
	}
}
