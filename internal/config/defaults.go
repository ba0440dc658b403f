package config

const (
	defaultBind              = "127.0.0.1:8571"
	defaultLogDir            = "~/.local/share/reelsmith/logs"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultBlockMaxWords     = 300
	defaultSoftLimitRatio    = 0.8
	defaultMaxWorkers        = 5
	defaultNumConcepts       = 4
	defaultLLMTimeoutSeconds = 60
	defaultAzureAPIVersion   = "2024-06-01"
)

// Default returns the baseline configuration before any file overrides.
func Default() Config {
	return Config{
		Server: Server{
			Bind:   defaultBind,
			LogDir: defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Pipeline: Pipeline{
			BlockMaxWords:      defaultBlockMaxWords,
			SoftLimitRatio:     defaultSoftLimitRatio,
			MaxWorkers:         defaultMaxWorkers,
			DefaultNumConcepts: defaultNumConcepts,
		},
		LLM: LLM{
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			Azure: LLMProvider{
				APIVersion: defaultAzureAPIVersion,
			},
		},
	}
}
