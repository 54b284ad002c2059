package config

const (
	defaultThreshold = 0.6
	defaultBorder    = 10
	defaultDPI       = 150
	defaultLanguage  = "eng"
	defaultScript    = "autodetect"
	defaultBlacklist = "|\\/`_~"
	defaultCachePath = "~/.cache/vobscribe/ocr.db"
	defaultLogLevel  = "info"
	defaultLogFormat = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		OCR: OCR{
			Threshold: defaultThreshold,
			Border:    defaultBorder,
			DPI:       defaultDPI,
			Language:  defaultLanguage,
			Script:    defaultScript,
			Blacklist: defaultBlacklist,
		},
		Cache: Cache{
			Enabled: false,
			Path:    defaultCachePath,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
