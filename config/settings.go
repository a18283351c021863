package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix scopes environment overrides, e.g. PROXIMITY_PLAY_SOUNDS=false
const EnvPrefix = "PROXIMITY"

// DefaultFontSize applies when the font name carries no trailing size
const DefaultFontSize = 13

var (
	ErrBadFont  = errors.New("config: font must end in a two-digit size")
	ErrBadScale = errors.New("config: scale must be positive")
)

// Settings is the host-facing configuration of the alert engine
type Settings struct {
	Enable            bool          `mapstructure:"enable"`
	PlaySounds        bool          `mapstructure:"play_sounds"`
	ShowModAlerts     bool          `mapstructure:"show_mod_alerts"`
	ShowPathAlerts    bool          `mapstructure:"show_path_alerts"`
	ShowTetherLine    bool          `mapstructure:"show_tether_line"`
	Font              string        `mapstructure:"font"`
	Scale             float64       `mapstructure:"scale"`
	ProximityX        float64       `mapstructure:"proximity_x"`
	ProximityY        float64       `mapstructure:"proximity_y"`
	SoundDir          string        `mapstructure:"sound_dir"`
	PathRulesFile     string        `mapstructure:"path_rules_file"`
	ModRulesFile      string        `mapstructure:"mod_rules_file"`
	ArrowImage        string        `mapstructure:"arrow_image"`
	TetherMetadata    string        `mapstructure:"tether_metadata"`
	TetherMaxDistance float64       `mapstructure:"tether_max_distance"`
	Cache             CacheSettings `mapstructure:"cache"`
	Audio             AudioSettings `mapstructure:"audio"`
	TickInterval      time.Duration `mapstructure:"tick_interval"`
	FrameInterval     time.Duration `mapstructure:"frame_interval"`
}

// CacheSettings bounds the memoization caches
type CacheSettings struct {
	MeasureCapacity int `mapstructure:"measure_capacity"`
	SplitCapacity   int `mapstructure:"split_capacity"`
	NameCapacity    int `mapstructure:"name_capacity"`
}

type AudioSettings struct {
	Volume float64 `mapstructure:"volume"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("enable", true)
	v.SetDefault("play_sounds", true)
	v.SetDefault("show_mod_alerts", true)
	v.SetDefault("show_path_alerts", true)
	v.SetDefault("show_tether_line", true)
	v.SetDefault("font", "FrizQuadrataITC:13")
	v.SetDefault("scale", 1.0)
	v.SetDefault("proximity_x", 0.0)
	v.SetDefault("proximity_y", 0.0)
	v.SetDefault("sound_dir", "sounds")
	v.SetDefault("path_rules_file", "PathAlerts.txt")
	v.SetDefault("mod_rules_file", "ModAlerts.txt")
	v.SetDefault("arrow_image", "Direction-Arrow.png")
	v.SetDefault("tether_metadata", "Metadata/Monsters/AtlasExiles/AtlasExile5")
	v.SetDefault("tether_max_distance", 200.0)
	v.SetDefault("cache.measure_capacity", 256)
	v.SetDefault("cache.split_capacity", 128)
	v.SetDefault("cache.name_capacity", 128)
	v.SetDefault("audio.volume", 1.0)
	v.SetDefault("tick_interval", "50ms")
	v.SetDefault("frame_interval", "33ms")
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Default returns the built-in settings, ignoring files and environment
func Default() *Settings {
	v := viper.New()
	setDefaults(v)
	s := &Settings{}
	_ = v.Unmarshal(s) // built-in defaults always decode
	return s
}

// Load reads settings from a YAML or TOML file, layered over defaults and environment
// An empty path yields defaults
func Load(path string) (*Settings, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Settings, error) {
	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks fields that cannot fall back to a default
func (s *Settings) Validate() error {
	if s.Scale <= 0 {
		return ErrBadScale
	}
	if _, ok := parseFontSize(s.Font); !ok {
		return fmt.Errorf("%w: %q", ErrBadFont, s.Font)
	}
	return nil
}

// FontSize returns the size encoded in the last two characters of Font
func (s *Settings) FontSize() int {
	if n, ok := parseFontSize(s.Font); ok {
		return n
	}
	return DefaultFontSize
}

func parseFontSize(font string) (int, bool) {
	if len(font) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(font[len(font)-2:])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
