package ui

// Config contains window and host related settings.
type Config struct {
	Title         string // window title
	Scale         int    // integer upscaling factor
	SettingsPath  string // settings file kept in sync with the menu; empty disables
	ScreenshotDir string // where F12 snapshots go
	ROMPath       string // reloaded with Enter after the session stops
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbpanel"
	}
	if c.Scale <= 0 {
		c.Scale = 2
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "screenshots"
	}
}
