// Package config loads ocr-overlay settings.
//
// Settings come from three layers, later ones winning:
//
//  1. built-in defaults (Default)
//  2. an optional YAML file (--config)
//  3. OCR_OVERLAY_* environment variables, which may themselves come from a
//     .env file loaded with LoadEnvFiles
//
// The resolved Config is checked with Validate before use.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "OCR_OVERLAY_"

// DefaultMaxImageDimension is the largest width or height accepted for OCR.
const DefaultMaxImageDimension = 10000

// Config holds the application configuration
type Config struct {
	Log       LogConfig       `yaml:"log"`
	OCR       OCRConfig       `yaml:"ocr"`
	Speech    SpeechConfig    `yaml:"speech"`
	Render    RenderConfig    `yaml:"render"`
	Detection DetectionConfig `yaml:"detection"`

	// SampleDir is where the generated sample image and its recorded
	// recognition are written.
	SampleDir string `yaml:"sample_dir"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level"`
}

// OCRConfig holds recognition settings.
type OCRConfig struct {
	// TessdataPrefix is the directory holding *.traineddata files. Empty uses
	// Tesseract's own default.
	TessdataPrefix string `yaml:"tessdata_prefix"`

	// ProfileLanguages is the user's preferred languages as BCP 47 tags, most
	// preferred first.
	ProfileLanguages []string `yaml:"profile_languages"`

	// UseProfileLanguages starts the session with the profile toggle on.
	UseProfileLanguages bool `yaml:"use_profile_languages"`

	// MaxImageDimension rejects images wider or taller than this.
	MaxImageDimension int `yaml:"max_image_dimension"`

	// RecordedResults consults .ocr.yaml sidecar files before Tesseract.
	RecordedResults bool `yaml:"recorded_results"`
}

// SpeechConfig holds text-to-speech settings.
type SpeechConfig struct {
	// Enabled reads recognized text aloud after every recognition.
	Enabled bool `yaml:"enabled"`

	// Voice is passed to the synthesizer; empty uses its default voice.
	Voice string `yaml:"voice"`

	// Synthesizer is the text-to-speech program (espeak-ng compatible).
	Synthesizer string `yaml:"synthesizer"`

	// Player is the audio player program (aplay compatible).
	Player string `yaml:"player"`

	// OutputDir, when set, writes audio files there instead of playing them.
	OutputDir string `yaml:"output_dir"`
}

// RenderConfig holds overlay drawing settings.
type RenderConfig struct {
	// Colors maps a box style (horizontal, vertical, face) to a hex color.
	Colors map[string]string `yaml:"colors"`

	// Thickness is the outline width in pixels.
	Thickness int `yaml:"thickness"`

	// Labels draws word text above the boxes.
	Labels bool `yaml:"labels"`
}

// DetectionConfig holds face detection settings.
type DetectionConfig struct {
	// MaxSide is the longest side images are downscaled to before detection.
	MaxSide int `yaml:"max_side"`

	// BlurRadius smooths the image before skin classification.
	BlurRadius float64 `yaml:"blur_radius"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		OCR: OCRConfig{
			ProfileLanguages:  ProfileLanguagesFromLocale(),
			MaxImageDimension: DefaultMaxImageDimension,
			RecordedResults:   true,
		},
		Speech: SpeechConfig{
			Synthesizer: "espeak-ng",
			Player:      "aplay",
		},
		Render: RenderConfig{
			Colors: map[string]string{
				"horizontal": "#2B88D8",
				"vertical":   "#E81123",
				"face":       "#FFB900",
			},
			Thickness: 2,
		},
		Detection: DetectionConfig{
			MaxSide:    320,
			BlurRadius: 1.5,
		},
		SampleDir: filepath.Join(os.TempDir(), "ocr-overlay"),
	}
}

// LoadEnvFiles loads .env style files into the process environment without
// overriding variables that are already set. Missing files are skipped, so
// calling it with ".env" is safe when none exists.
func LoadEnvFiles(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
		slog.Debug("loaded env file", "path", f)
	}
	return nil
}

// Load resolves the configuration from defaults, the YAML file at path
// (skipped when empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(filename string) (*Config, error) {
	cfg := Default()
	if err := cfg.mergeFile(filename); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// applyEnv overrides settings from OCR_OVERLAY_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}

	if v, ok := get("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := get("TESSDATA_PREFIX"); ok {
		c.OCR.TessdataPrefix = v
	} else if v, ok := lookup("TESSDATA_PREFIX"); ok && c.OCR.TessdataPrefix == "" {
		c.OCR.TessdataPrefix = v
	}
	if v, ok := get("PROFILE_LANGUAGES"); ok {
		c.OCR.ProfileLanguages = splitList(v)
	}
	if v, ok := get("MAX_IMAGE_DIMENSION"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sMAX_IMAGE_DIMENSION %q: %w", EnvPrefix, v, err)
		}
		c.OCR.MaxImageDimension = n
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"USE_PROFILE_LANGUAGES", &c.OCR.UseProfileLanguages},
		{"RECORDED_RESULTS", &c.OCR.RecordedResults},
		{"SPEAK", &c.Speech.Enabled},
		{"LABELS", &c.Render.Labels},
	}
	for _, b := range bools {
		v, ok := get(b.name)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, b.name, v, err)
		}
		*b.dst = parsed
	}

	if v, ok := get("VOICE"); ok {
		c.Speech.Voice = v
	}
	if v, ok := get("SPEECH_DIR"); ok {
		c.Speech.OutputDir = v
	}
	if v, ok := get("SAMPLE_DIR"); ok {
		c.SampleDir = v
	}
	return nil
}

var validStyles = map[string]bool{"horizontal": true, "vertical": true, "face": true}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.OCR.MaxImageDimension < 1 {
		return fmt.Errorf("ocr.max_image_dimension must be positive")
	}
	for _, tag := range c.OCR.ProfileLanguages {
		if strings.TrimSpace(tag) == "" {
			return fmt.Errorf("ocr.profile_languages cannot contain empty entries")
		}
	}
	if c.Speech.Synthesizer == "" {
		return fmt.Errorf("speech.synthesizer cannot be empty")
	}
	if c.Speech.Player == "" && c.Speech.OutputDir == "" {
		return fmt.Errorf("speech.player or speech.output_dir must be set")
	}
	for style, hex := range c.Render.Colors {
		if !validStyles[style] {
			return fmt.Errorf("render.colors: unknown style %q", style)
		}
		if !strings.HasPrefix(hex, "#") {
			return fmt.Errorf("render.colors.%s must be a hex color like #RRGGBB", style)
		}
	}
	if c.Render.Thickness < 1 {
		return fmt.Errorf("render.thickness must be positive")
	}
	if c.Detection.MaxSide < 16 {
		return fmt.Errorf("detection.max_side must be at least 16")
	}
	if c.Detection.BlurRadius < 0 {
		return fmt.Errorf("detection.blur_radius cannot be negative")
	}
	if c.SampleDir == "" {
		return fmt.Errorf("sample_dir cannot be empty")
	}
	return nil
}

// ParseLevel maps a level name to a slog level. Names are case-insensitive.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "", "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: use debug, info, warn or error", name)
	}
}

// ProfileLanguagesFromLocale derives the user's language list from the POSIX
// locale variables: LANGUAGE (a colon separated list) first, then LC_ALL,
// LC_MESSAGES and LANG. It falls back to en-US.
func ProfileLanguagesFromLocale() []string {
	return profileLanguages(os.Getenv)
}

func profileLanguages(getenv func(string) string) []string {
	var tags []string
	seen := make(map[string]bool)
	add := func(locale string) {
		tag := localeToTag(locale)
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	for _, l := range strings.Split(getenv("LANGUAGE"), ":") {
		add(l)
	}
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := getenv(name); v != "" {
			add(v)
			break
		}
	}

	if len(tags) == 0 {
		return []string{"en-US"}
	}
	return tags
}

// localeToTag turns "de_DE.UTF-8@euro" into "de-DE". The C and POSIX locales
// carry no language.
func localeToTag(locale string) string {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "" || locale == "C" || locale == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(locale, "_", "-")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
