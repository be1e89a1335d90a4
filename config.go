package vkbegins

import (
	"bytes"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Config holds everything the renderer needs to know before it touches the
// GPU. It maps one-to-one onto a TOML document.
type Config struct {
	AppName    string `toml:"app_name"`
	AppVersion [3]int `toml:"app_version"`
	EngineName string `toml:"engine_name"`

	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`

	// Validation enables the validation layers and the debug messenger.
	Validation       bool     `toml:"validation"`
	ValidationLayers []string `toml:"validation_layers"`
	DeviceExtensions []string `toml:"device_extensions"`

	VertexShader   string `toml:"vertex_shader"`
	FragmentShader string `toml:"fragment_shader"`

	ClearColor [4]float32 `toml:"clear_color"`
	LogLevel   string     `toml:"log_level"`
}

// DefaultConfig is the stock demo setup: a 1920x1080
// non-resizable window, Khronos validation and the swapchain extension.
func DefaultConfig() Config {
	return Config{
		AppName:          "Vulkan Begins",
		AppVersion:       [3]int{1, 0, 0},
		EngineName:       "No Engine",
		Width:            1920,
		Height:           1080,
		Title:            "Vulkan Begins",
		Validation:       false,
		ValidationLayers: []string{"VK_LAYER_KHRONOS_validation"},
		DeviceExtensions: []string{"VK_KHR_swapchain"},
		VertexShader:     "shaders/vert.spv",
		FragmentShader:   "shaders/frag.spv",
		ClearColor:       [4]float32{0, 0, 0, 1},
		LogLevel:         "info",
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig. Keys absent from the
// file keep their default values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	return ParseConfig(data)
}

// ParseConfig decodes TOML data on top of DefaultConfig and validates it.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the renderer cannot start with.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return errors.Errorf("config: window size %dx%d must be positive", c.Width, c.Height)
	case c.VertexShader == "" || c.FragmentShader == "":
		return errors.New("config: vertex_shader and fragment_shader are required")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// AppVersionNumber packs AppVersion the way VkApplicationInfo expects.
func (c Config) AppVersionNumber() uint32 {
	return uint32(vk.MakeVersion(c.AppVersion[0], c.AppVersion[1], c.AppVersion[2]))
}

// ParseLogLevel maps debug, info, warn and error to slog levels. An empty
// string means info.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, errors.Errorf("config: unknown log level %q", s)
}
