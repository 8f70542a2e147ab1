package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds everything the game loop tunes at startup: the shared
// directory, the local player id, and the timing constants from spec
// section 6 — all overridable so the binary stays useful for testing
// against faster or slower boards.
//
// squava has no configuration surface beyond its flag.* CLI switches; the
// viper/fsnotify layering here is grounded on bluebear94-odnocam, per
// DESIGN.md, and covers the parts of the ambient stack squava is simply
// too small to need.
type Config struct {
	SharedDir      string        `mapstructure:"shared_dir"`
	PlayerID       string        `mapstructure:"player_id"`
	BaseTick       time.Duration `mapstructure:"base_tick"`
	MinTick        time.Duration `mapstructure:"min_tick"`
	LinesPerSpeed  int           `mapstructure:"lines_per_speedup"`
	SpeedupAmount  time.Duration `mapstructure:"speedup_amount"`
	Keybindings    Keybindings   `mapstructure:"keybindings"`
}

// Keybindings maps the core actions named in spec section 6 to single key
// runes. Out of scope to prescribe exact defaults beyond "configurable via
// profile" (spec section 1); the defaults below are a reasonable WASD+arrow
// hybrid a terminal player would expect.
type Keybindings struct {
	Left, Right        rune
	RotateCW, RotateCCW rune
	SoftDrop, HardDrop  rune
	Hold                rune
	Quit                rune
	PeerLeft, PeerRight rune
}

func defaultKeybindings() Keybindings {
	return Keybindings{
		Left: 'a', Right: 'd',
		RotateCW: 'l', RotateCCW: 'k',
		SoftDrop: 's', HardDrop: ' ',
		Hold: 'e', Quit: 'q',
		PeerLeft: '[', PeerRight: ']',
	}
}

func defaultSharedDir() string {
	return "/sgoinfre/lusteur/tetris"
}

func defaultPlayerID() string {
	user := os.Getenv("USER")
	if user == "" {
		user = os.Getenv("USERNAME")
	}
	if user == "" {
		user = "player"
	}
	return strings.ReplaceAll(user, "_", "-")
}

// LoadConfig reads built-in defaults, then an optional
// ~/.config/tetris/config.yaml, then TETRIS_-prefixed environment
// variables, in that precedence order (highest last), matching spec
// section 9's "configurable" wording without requiring a file to exist.
func LoadConfig() (*Config, *viper.Viper, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "tetris"))
	}

	v.SetDefault("shared_dir", defaultSharedDir())
	v.SetDefault("player_id", defaultPlayerID())
	v.SetDefault("base_tick", "600ms")
	v.SetDefault("min_tick", "10ms")
	v.SetDefault("lines_per_speedup", 5)
	v.SetDefault("speedup_amount", "50ms")

	v.SetEnvPrefix("TETRIS")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, nil, err
		}
	}

	cfg := &Config{
		SharedDir:     v.GetString("shared_dir"),
		PlayerID:      strings.ReplaceAll(v.GetString("player_id"), "_", "-"),
		BaseTick:      v.GetDuration("base_tick"),
		MinTick:       v.GetDuration("min_tick"),
		LinesPerSpeed: v.GetInt("lines_per_speedup"),
		SpeedupAmount: v.GetDuration("speedup_amount"),
		Keybindings:   defaultKeybindings(),
	}
	return cfg, v, nil
}

// WatchConfig re-reads the config file on change and invokes onChange with
// the updated values. It is a no-op if no config file was found (there is
// nothing to watch). This is the first of two unrelated fsnotify watches
// in this program — the second watches the shared peer directory, in
// peer.go.
func WatchConfig(v *viper.Viper, onChange func(*Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		cfg := &Config{
			SharedDir:     v.GetString("shared_dir"),
			PlayerID:      strings.ReplaceAll(v.GetString("player_id"), "_", "-"),
			BaseTick:      v.GetDuration("base_tick"),
			MinTick:       v.GetDuration("min_tick"),
			LinesPerSpeed: v.GetInt("lines_per_speedup"),
			SpeedupAmount: v.GetDuration("speedup_amount"),
			Keybindings:   defaultKeybindings(),
		}
		onChange(cfg)
	})
	v.WatchConfig()
}
