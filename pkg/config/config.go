package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var configDir string
var configFilePath string
var sessionPath string

// getConfigDir returns platform-specific config directory
func getConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		// Windows: %LOCALAPPDATA%\filxconnect\cli
		appData := os.Getenv("LOCALAPPDATA")
		if appData == "" {
			appData = os.Getenv("APPDATA")
		}
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = home
		}
		return filepath.Join(appData, "filxconnect", "cli"), nil
	}

	// Unix-like (macOS, Linux): ~/.config/filxconnect/cli
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "filxconnect", "cli"), nil
}

// Init initializes the configuration
func Init(configPath string) error {
	// A local .env can seed environment variables before viper binds them
	_ = godotenv.Load()

	var err error
	if configPath != "" {
		configDir = filepath.Dir(configPath)
		configFilePath = configPath
	} else {
		configDir, err = getConfigDir()
		if err != nil {
			return err
		}
		configFilePath = filepath.Join(configDir, "config.toml")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	sessionPath = filepath.Join(configDir, "session.json")

	viper.SetConfigType("toml")
	viper.SetEnvPrefix("FILX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	viper.SetConfigFile(configFilePath)
	_ = viper.ReadInConfig()

	return nil
}

func setDefaults() {
	viper.SetDefault("api.base_url", "https://fil-x-connect-final-backend.onrender.com/api")
	viper.SetDefault("api.timeout", 30)

	viper.SetDefault("auth.base_url", "https://identitytoolkit.googleapis.com/v1")
	viper.SetDefault("auth.api_key", "")

	viper.SetDefault("media.upload_url", "https://api.cloudinary.com/v1_1/djvat4mcp/image/upload")
	viper.SetDefault("media.base_url", "https://res.cloudinary.com/djvat4mcp/image/upload/v1741357526/")
	viper.SetDefault("media.upload_preset", "filxconnect")
	viper.SetDefault("media.default_avatar", "https://res.cloudinary.com/djvat4mcp/image/upload/v1741357526/zybt9ffewrjwhq7tyvy1.png")

	// Poll intervals in seconds, matching the web client's timers
	viper.SetDefault("sync.feed_interval", 30)
	viper.SetDefault("sync.message_interval", 3)
	viper.SetDefault("sync.notification_interval", 10)
	viper.SetDefault("sync.status_interval", 5)

	viper.SetDefault("output.format", "text")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", filepath.Join(configDir, "filxconnect-cli.log"))
	viper.SetDefault("log.max_size_mb", 10)
	viper.SetDefault("log.max_backups", 3)
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetString returns a string configuration value
func GetString(key string) string {
	value := viper.GetString(key)
	if key == "log.file" {
		return expandPath(value)
	}
	return value
}

// GetInt returns an int configuration value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool configuration value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetInterval returns a sync.* key as a duration
func GetInterval(key string) time.Duration {
	secs := viper.GetInt(key)
	if secs < 1 {
		secs = 1
	}
	return time.Duration(secs) * time.Second
}

// Set overrides a configuration value in memory without persisting it
func Set(key string, value interface{}) {
	viper.Set(key, value)
}

// SetString sets a string configuration value and writes the config file
func SetString(key string, value string) error {
	viper.Set(key, value)
	return viper.WriteConfig()
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() string {
	return configDir
}

// GetSessionPath returns the path to the session file
func GetSessionPath() string {
	return sessionPath
}

// SetSessionPath overrides the session file location (used by tests)
func SetSessionPath(path string) {
	sessionPath = path
}
