package internal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment overrides, e.g. PLAYFAIR_NONCE=Q.
const EnvPrefix = "PLAYFAIR_"

// Settings is the user-facing configuration. Letters are kept as strings
// here and validated by Options.
//
// Precedence, highest first: flags, environment, YAML file, defaults.
type Settings struct {
	Omit      string `koanf:"omit"`
	MapTo     string `koanf:"map_to"` // "" or "none" deletes the omitted letter
	Nonce     string `koanf:"nonce"`
	Direction string `koanf:"direction"`
	Group     int    `koanf:"group"` // output letters per group, 0 for none

	KDF         string `koanf:"kdf"`
	KDFMemMB    uint32 `koanf:"kdf_mem_mb"`
	KDFTime     uint32 `koanf:"kdf_time"`
	KDFParallel uint8  `koanf:"kdf_parallel"`
	AllowWeak   bool   `koanf:"allow_weak"`
}

// DefaultSettings mirrors DefaultOptions and DefaultKeyPolicy.
func DefaultSettings() Settings {
	p := DefaultKeyPolicy()
	return Settings{
		Omit:        "J",
		MapTo:       "I",
		Nonce:       "X",
		Direction:   Encode.String(),
		Group:       2,
		KDF:         p.KDF,
		KDFMemMB:    p.KDFMemMB,
		KDFTime:     p.KDFTime,
		KDFParallel: p.KDFParallel,
		AllowWeak:   p.AllowWeak,
	}
}

func (s Settings) toMap() map[string]any {
	return map[string]any{
		"omit":         s.Omit,
		"map_to":       s.MapTo,
		"nonce":        s.Nonce,
		"direction":    s.Direction,
		"group":        s.Group,
		"kdf":          s.KDF,
		"kdf_mem_mb":   s.KDFMemMB,
		"kdf_time":     s.KDFTime,
		"kdf_parallel": s.KDFParallel,
		"allow_weak":   s.AllowWeak,
	}
}

// LoadSettings layers defaults, the optional YAML file at path, PLAYFAIR_*
// environment variables and explicitly set flags (keyed like the koanf tags).
func LoadSettings(path string, flags map[string]any) (Settings, error) {
	k := koanf.New(".")

	if err := k.Load(mapProvider(DefaultSettings().toMap()), nil); err != nil {
		return Settings{}, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Settings{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	envKey := func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Settings{}, fmt.Errorf("load env: %w", err)
	}
	if len(flags) > 0 {
		if err := k.Load(mapProvider(flags), nil); err != nil {
			return Settings{}, fmt.Errorf("load flags: %w", err)
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return s, nil
}

// Options converts the letter settings into validated cipher options.
func (s Settings) Options() (Options, error) {
	omit, err := parseLetter("omit", s.Omit)
	if err != nil {
		return Options{}, err
	}
	var mapTo byte
	switch m := strings.TrimSpace(s.MapTo); strings.ToLower(m) {
	case "", "none":
	default:
		if mapTo, err = parseLetter("map-to", m); err != nil {
			return Options{}, err
		}
	}
	nonce, err := parseLetter("nonce", s.Nonce)
	if err != nil {
		return Options{}, err
	}
	o := Options{Alphabet: Alphabet{Omit: omit, MapTo: mapTo}, Nonce: nonce}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// KeyPolicy returns the key generation policy described by s.
func (s Settings) KeyPolicy() KeyPolicy {
	return KeyPolicy{
		KDF:         s.KDF,
		KDFMemMB:    s.KDFMemMB,
		KDFTime:     s.KDFTime,
		KDFParallel: s.KDFParallel,
		AllowWeak:   s.AllowWeak,
	}
}

func parseLetter(name, s string) (byte, error) {
	s = strings.TrimSpace(s)
	if len(s) != 1 || !isLetter(s[0]) {
		return 0, fmt.Errorf("%w: %s must be a single letter A-Z, got %q", ErrInvalidOption, name, s)
	}
	return ToUppercase(s)[0], nil
}

var errReadBytesNotSupported = errors.New("map provider does not support ReadBytes")

// mapProvider feeds a plain map into koanf.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) { return nil, errReadBytesNotSupported }

func (m mapProvider) Read() (map[string]any, error) { return m, nil }
