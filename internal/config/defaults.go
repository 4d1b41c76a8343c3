package config

const (
	defaultWorkDir            = "~/.local/share/videodigest/work"
	defaultLogDir             = "~/.local/share/videodigest/logs"
	defaultAPIBind            = "127.0.0.1:7844"
	defaultLanguage           = "Chinese"
	defaultMaxFrames          = 12
	defaultMergeWindowSeconds = 60.0
	defaultMergeGapSeconds    = 3.0
	defaultDedupThreshold     = 8
	defaultVideoMaxHeight     = 480
	defaultWhisperModel       = "base"
	defaultLLMBaseURL         = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel           = "anthropic/claude-sonnet-4.5"
	defaultLLMTimeoutSeconds  = 120
	defaultMetadataTimeout    = 60
	defaultDownloadTimeout    = 900
	defaultTranscribeTimeout  = 3600
	defaultAnalysisTimeout    = 600
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

func defaultSubtitleLanguages() []string {
	return []string{"zh-Hans", "zh-Hant", "zh", "en"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Digest: Digest{
			Language:           defaultLanguage,
			MaxFrames:          defaultMaxFrames,
			MergeWindowSeconds: defaultMergeWindowSeconds,
			MergeGapSeconds:    defaultMergeGapSeconds,
			DedupThreshold:     defaultDedupThreshold,
			VideoMaxHeight:     defaultVideoMaxHeight,
			SubtitleLanguages:  defaultSubtitleLanguages(),
		},
		Whisper: Whisper{
			Model: defaultWhisperModel,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		MediaCache: MediaCache{
			Dir: defaultMediaCacheDir(),
		},
		Workflow: Workflow{
			MetadataTimeout:   defaultMetadataTimeout,
			DownloadTimeout:   defaultDownloadTimeout,
			TranscribeTimeout: defaultTranscribeTimeout,
			AnalysisTimeout:   defaultAnalysisTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
