package config

const (
	defaultDataDir           = "~/.local/share/sceneflow/data"
	defaultLogDir            = "~/.local/share/sceneflow/logs"
	defaultBatchLimit        = 50
	defaultPollInterval      = 10
	defaultClaimLeaseSeconds = 60
	defaultJobPriority       = 5
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Propagation: Propagation{
			BatchLimit:        defaultBatchLimit,
			PollInterval:      defaultPollInterval,
			ClaimLeaseSeconds: defaultClaimLeaseSeconds,
			DefaultPriority:   defaultJobPriority,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
