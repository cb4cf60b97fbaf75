package config

const (
	defaultDataDir                    = "~/.local/share/recut/data"
	defaultLogDir                     = "~/.local/share/recut/logs"
	defaultAPIBind                    = "127.0.0.1:7519"
	defaultSpeechBaseURL              = "https://api.speechcatcher.dev/v1"
	defaultSpeechTimeoutSeconds       = 120
	defaultRenderBaseURL              = "https://farm.renderhaus.dev/v2"
	defaultRenderSubmitTimeoutSeconds = 30
	defaultRenderPollTimeoutSeconds   = 10
	defaultLLMBaseURL                 = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel                   = "google/gemini-3-flash-preview"
	defaultLLMTimeoutSeconds          = 60
	defaultSilenceMinGapSeconds       = 0.75
	defaultLogFormat                  = "console"
	defaultLogLevel                   = "info"
)

// DefaultFillerWords is the filler vocabulary used when the config does not
// override it.
var DefaultFillerWords = []string{"um", "uh", "erm", "hmm", "like", "y'know"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Speech: Speech{
			BaseURL:        defaultSpeechBaseURL,
			TimeoutSeconds: defaultSpeechTimeoutSeconds,
		},
		Render: Render{
			BaseURL:              defaultRenderBaseURL,
			SubmitTimeoutSeconds: defaultRenderSubmitTimeoutSeconds,
			PollTimeoutSeconds:   defaultRenderPollTimeoutSeconds,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Compiler: Compiler{
			SilenceMinGapSeconds: defaultSilenceMinGapSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// FillerWords returns the configured filler vocabulary or the default set.
func (c *Config) FillerWords() []string {
	if len(c.Compiler.FillerWords) > 0 {
		cp := make([]string, len(c.Compiler.FillerWords))
		copy(cp, c.Compiler.FillerWords)
		return cp
	}
	cp := make([]string, len(DefaultFillerWords))
	copy(cp, DefaultFillerWords)
	return cp
}
