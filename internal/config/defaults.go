package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/providers/confmap"
)

const envPrefix = "GRACE_"

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"assistant": map[string]interface{}{
			"delay_ms": 1500,
		},
		"ui": map[string]interface{}{
			"confirmation_ms": 3000,
			"celebration_ms":  2000,
			"compact":         false,
			"expanded":        false,
			"animations":      true,
		},
		"notifications": map[string]interface{}{
			"desktop":      false,
			"reminders":    true,
			"achievements": true,
		},
		// Demo values shown on first launch.
		"metrics": map[string]interface{}{
			"tasks_completed":  12,
			"times_saved":      47,
			"efficiency_score": 78,
			"streak":           3,
		},
		"export": map[string]interface{}{
			"dir": ".",
		},
		"scheduler": map[string]interface{}{
			"buffer": 64,
		},
		"history": map[string]interface{}{
			"dsn": "file:grace-history?mode=memory&cache=shared",
		},
		"log": map[string]interface{}{
			"file":  filepath.Join(os.TempDir(), "grace.log"),
			"level": "info",
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.grace/config.yaml"
}
