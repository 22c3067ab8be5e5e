package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Transcribe  TranscribeConfig  `yaml:"transcribe"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Summary     SummaryConfig     `yaml:"summary"`
	Upload      UploadConfig      `yaml:"upload"`
	Server      ServerConfig      `yaml:"server"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type TranscribeConfig struct {
	Backend        string `yaml:"backend"`
	ChunkLengthSec int    `yaml:"chunk_length_sec"`
	ModelSize      string `yaml:"model_size"`
	ModelPath      string `yaml:"model_path"`
	BinaryPath     string `yaml:"binary_path"`
	Language       string `yaml:"language"`
	Threads        int    `yaml:"threads"`
	Workers        int    `yaml:"workers"`
	CacheEntries   int    `yaml:"cache_entries"`
	OpenAIModel    string `yaml:"openai_model"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	AudioCodec string `yaml:"audio_codec"`
	SampleRate int    `yaml:"sample_rate"`
	Channels   int    `yaml:"channels"`
}

// SummaryConfig.Temperature is nil when unset so that an explicit 0 survives Validate
type SummaryConfig struct {
	Provider    string   `yaml:"provider"`
	Model       string   `yaml:"model"`
	MaxTokens   int      `yaml:"max_tokens"`
	Temperature *float32 `yaml:"temperature"`
}

type UploadConfig struct {
	MaxSizeMB       int64    `yaml:"max_size_mb"`
	Extensions      []string `yaml:"extensions"`
	VideoExtensions []string `yaml:"video_extensions"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	Environment  string        `yaml:"environment"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

const (
	BackendWhisperCPP = "whisper_cpp"
	BackendOpenAI     = "openai"

	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultTemperature float32 = 0.5
)

// Load reads a YAML config file and validates it
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate rejects unusable values and fills in defaults
func (c *Config) Validate() error {
	if c.Transcribe.Backend == "" {
		c.Transcribe.Backend = BackendWhisperCPP
	}
	if c.Transcribe.Backend != BackendWhisperCPP && c.Transcribe.Backend != BackendOpenAI {
		return fmt.Errorf("transcribe.backend must be %q or %q", BackendWhisperCPP, BackendOpenAI)
	}
	if c.Transcribe.ChunkLengthSec < 0 {
		return fmt.Errorf("transcribe.chunk_length_sec must be positive")
	}
	if c.Summary.Provider == "" {
		c.Summary.Provider = ProviderGemini
	}
	if c.Summary.Provider != ProviderGemini && c.Summary.Provider != ProviderOpenAI {
		return fmt.Errorf("summary.provider must be %q or %q", ProviderGemini, ProviderOpenAI)
	}
	if t := c.Summary.Temperature; t != nil && (*t < 0 || *t > 2) {
		return fmt.Errorf("summary.temperature must be within [0, 2]")
	}
	if c.Summary.MaxTokens < 0 {
		return fmt.Errorf("summary.max_tokens must be positive")
	}

	if c.Transcribe.ChunkLengthSec == 0 {
		c.Transcribe.ChunkLengthSec = 30
	}
	if c.Transcribe.ModelSize == "" {
		c.Transcribe.ModelSize = "tiny"
	}
	if c.Transcribe.ModelPath == "" {
		c.Transcribe.ModelPath = fmt.Sprintf("models/ggml-%s.bin", c.Transcribe.ModelSize)
	}
	if c.Transcribe.BinaryPath == "" {
		c.Transcribe.BinaryPath = "whisper-cli"
	}
	if c.Transcribe.Language == "" {
		c.Transcribe.Language = "en"
	}
	if c.Transcribe.Threads == 0 {
		c.Transcribe.Threads = 4
	}
	if c.Transcribe.Workers <= 0 {
		c.Transcribe.Workers = 1
	}
	if c.Transcribe.CacheEntries == 0 {
		c.Transcribe.CacheEntries = 64
	}
	if c.Transcribe.OpenAIModel == "" {
		c.Transcribe.OpenAIModel = "whisper-1"
	}

	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.AudioCodec == "" {
		c.FFmpeg.AudioCodec = "pcm_s16le"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 44100
	}
	if c.FFmpeg.Channels == 0 {
		c.FFmpeg.Channels = 2
	}

	if c.Summary.Model == "" {
		if c.Summary.Provider == ProviderOpenAI {
			c.Summary.Model = "gpt-4o-mini"
		} else {
			c.Summary.Model = "gemini-2.5-flash"
		}
	}
	if c.Summary.MaxTokens == 0 {
		c.Summary.MaxTokens = 400
	}
	if c.Summary.Temperature == nil {
		t := DefaultTemperature
		c.Summary.Temperature = &t
	}

	if c.Upload.MaxSizeMB == 0 {
		c.Upload.MaxSizeMB = 200
	}
	if len(c.Upload.Extensions) == 0 {
		c.Upload.Extensions = []string{"mp3", "wav", "mp4"}
	}
	if len(c.Upload.VideoExtensions) == 0 {
		c.Upload.VideoExtensions = []string{"mp4"}
	}
	c.Upload.Extensions = normalizeExtensions(c.Upload.Extensions)
	c.Upload.VideoExtensions = normalizeExtensions(c.Upload.VideoExtensions)

	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "development"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 5 * time.Minute
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Minute
	}

	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Performance.MaxConcurrent <= 0 {
		c.Performance.MaxConcurrent = 1
	}

	return nil
}

// TemperatureValue returns the sampling temperature, or the default when unset
func (c SummaryConfig) TemperatureValue() float32 {
	if c.Temperature == nil {
		return DefaultTemperature
	}
	return *c.Temperature
}

// Addr is the listen address of the web server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// MaxUploadBytes returns the upload ceiling in bytes, 0 means unlimited
func (c *Config) MaxUploadBytes() int64 {
	if c.Upload.MaxSizeMB < 0 {
		return 0
	}
	return c.Upload.MaxSizeMB << 20
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			out = append(out, ext)
		}
	}
	return out
}
