package config

const (
	defaultDataDir        = "~/.local/share/lookpub"
	defaultLogDir         = "~/.local/share/lookpub/logs"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultFileMode       = 0o644
	defaultWatchDebounce  = 500
	defaultVerifyCopies   = true
	defaultProjectRootEnv = "LOOKPUB_PROJECT_ROOT"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Templates: map[string]Template{},
		Publish: Publish{
			VerifyCopies: defaultVerifyCopies,
			FileMode:     defaultFileMode,
		},
		Watch: Watch{
			DebounceMillis: defaultWatchDebounce,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
