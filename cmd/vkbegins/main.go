// Command vkbegins opens a window and draws a triangle with Vulkan until the
// window is closed.
//
// The shader paths in the default config are relative to the module root and
// the SPIR-V is not checked in. Compile it with glslc first:
//
//	go generate .
//	go run ./cmd/vkbegins
package main

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/andewx/vkbegins"
	"github.com/spf13/cobra"
)

// GLFW and the Vulkan surface must be driven from the main thread.
func init() {
	runtime.LockOSThread()
}

type options struct {
	config     string
	validation bool
	width      int
	height     int
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "vkbegins",
		Short:        "Draw a triangle with Vulkan",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			run(cfg)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.config, "config", "", "path to a TOML config file")
	flags.BoolVar(&opts.validation, "validation", false, "enable validation layers and the debug messenger")
	flags.IntVar(&opts.width, "width", 0, "window width in pixels")
	flags.IntVar(&opts.height, "height", 0, "window height in pixels")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	return cmd
}

// loadConfig layers explicitly set flags over the config file over the
// defaults.
func loadConfig(cmd *cobra.Command, opts options) (vkbegins.Config, error) {
	cfg := vkbegins.DefaultConfig()
	if opts.config != "" {
		var err error
		if cfg, err = vkbegins.LoadConfig(opts.config); err != nil {
			return cfg, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("validation") {
		cfg.Validation = opts.validation
	}
	if flags.Changed("width") {
		cfg.Width = opts.width
	}
	if flags.Changed("height") {
		cfg.Height = opts.height
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	return cfg, cfg.Validate()
}

func run(cfg vkbegins.Config) {
	level, err := vkbegins.ParseLogLevel(cfg.LogLevel)
	vkbegins.Fatal(err)
	vkbegins.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	vkbegins.Fatal(vkbegins.Init())
	defer vkbegins.Terminate()

	display, closeWindow, err := vkbegins.OpenWindow(cfg)
	vkbegins.Fatal(err, vkbegins.Terminate)
	defer closeWindow()

	ctx, err := vkbegins.NewContext(cfg, display, vkbegins.NewVulkanDriver(), vkbegins.FileLoader{})
	vkbegins.Fatal(err, closeWindow, vkbegins.Terminate)

	err = ctx.Run()
	ctx.Destroy()
	vkbegins.Fatal(err, closeWindow, vkbegins.Terminate)
}
