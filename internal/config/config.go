// Package config loads settings for the popsheet demo programs.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phanxgames/popsheet"
	"github.com/spf13/viper"
)

// Config holds demo configuration.
type Config struct {
	Panel  PanelConfig
	Window WindowConfig
	Debug  bool
	// Script is an optional path to a JSON test script.
	Script string
}

// PanelConfig holds the bottom sheet's geometry and timing.
type PanelConfig struct {
	Offset       float64
	Height       float64
	Duration     float64
	CornerRadius float64 `mapstructure:"corner_radius"`
	OverlayAlpha float64 `mapstructure:"overlay_alpha"`
	Title        string
}

// WindowConfig holds window settings.
type WindowConfig struct {
	Width   int
	Height  int
	Title   string
	ShowFPS bool `mapstructure:"show_fps"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// POPSHEET_, e.g. POPSHEET_PANEL_DURATION=0.5.
func Load() (Config, error) {
	v := viper.New()

	def := popsheet.DefaultPanelConfig()
	v.SetDefault("panel.offset", def.Offset)
	v.SetDefault("panel.height", def.Height)
	v.SetDefault("panel.duration", float64(def.Duration))
	v.SetDefault("panel.corner_radius", def.CornerRadius)
	v.SetDefault("panel.overlay_alpha", def.OverlayAlpha)
	v.SetDefault("panel.title", def.Title)
	v.SetDefault("window.width", int(def.ScreenWidth))
	v.SetDefault("window.height", int(def.ScreenHeight))
	v.SetDefault("window.title", "popsheet")
	v.SetDefault("window.show_fps", false)
	v.SetDefault("debug", false)
	v.SetDefault("script", "")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("POPSHEET_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "popsheet"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("POPSHEET")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing file is fine; a broken one named explicitly is not.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports settings the panel cannot work with.
func (c Config) Validate() error {
	switch {
	case c.Panel.Offset <= 0:
		return fmt.Errorf("config: panel.offset must be positive, got %g", c.Panel.Offset)
	case c.Panel.Offset > c.Panel.Height:
		return fmt.Errorf("config: panel.offset %g exceeds panel.height %g", c.Panel.Offset, c.Panel.Height)
	case c.Panel.Duration <= 0:
		return fmt.Errorf("config: panel.duration must be positive, got %g", c.Panel.Duration)
	case c.Panel.OverlayAlpha < 0 || c.Panel.OverlayAlpha > 1:
		return fmt.Errorf("config: panel.overlay_alpha must be in [0, 1], got %g", c.Panel.OverlayAlpha)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("config: invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}

// PanelConfig converts the settings into a popsheet.PanelConfig sized to the
// window. Fonts are left for the caller to load.
func (c Config) PanelConfig() popsheet.PanelConfig {
	return popsheet.PanelConfig{
		ScreenWidth:  float64(c.Window.Width),
		ScreenHeight: float64(c.Window.Height),
		Height:       c.Panel.Height,
		Offset:       c.Panel.Offset,
		Duration:     float32(c.Panel.Duration),
		CornerRadius: c.Panel.CornerRadius,
		OverlayAlpha: c.Panel.OverlayAlpha,
		Title:        c.Panel.Title,
	}
}

// RunConfig converts the window settings for popsheet.Run.
func (c Config) RunConfig() popsheet.RunConfig {
	return popsheet.RunConfig{
		Title:   c.Window.Title,
		Width:   c.Window.Width,
		Height:  c.Window.Height,
		ShowFPS: c.Window.ShowFPS,
	}
}
