package update

import "time"

// RuntimeConfig is the slice of configuration the Model consumes.
type RuntimeConfig struct {
	ResponseDelay            time.Duration
	ConfirmationDelay        time.Duration
	CelebrationDelay         time.Duration
	DesktopNotifications     bool
	ReminderNotifications    bool
	AchievementNotifications bool
	Animations               bool
	Compact                  bool
	Expanded                 bool
	ExportDir                string
	Version                  string
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		ResponseDelay:            1500 * time.Millisecond,
		ConfirmationDelay:        3 * time.Second,
		CelebrationDelay:         2 * time.Second,
		DesktopNotifications:     false,
		ReminderNotifications:    true,
		AchievementNotifications: true,
		Animations:               true,
		ExportDir:                ".",
		Version:                  "dev",
	}
}
