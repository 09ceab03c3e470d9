// Package flags provides the feature-flag interceptor.  Flag state
// comes from a Source capability; a koanf-backed source and a static
// map source are supplied.
package flags

import "github.com/knadh/koanf"

// Source answers whether a named feature is enabled.  The second
// return reports whether the flag is known at all; unknown flags
// never block a call.
type Source interface {
	Enabled(name string) (enabled bool, known bool)
}

// StaticSource is a fixed name to state mapping.
type StaticSource map[string]bool

func (s StaticSource) Enabled(name string) (bool, bool) {
	enabled, known := s[name]
	return enabled, known
}

type koanfSource struct {
	k      *koanf.Koanf
	prefix string
}

// Koanf adapts a koanf configuration tree to the Source capability.
// The flag named "x" is read from the boolean at "<prefix>.x".
func Koanf(k *koanf.Koanf, prefix string) Source {
	if prefix != "" {
		prefix += "."
	}
	return &koanfSource{k: k, prefix: prefix}
}

func (s *koanfSource) Enabled(name string) (bool, bool) {
	path := s.prefix + name
	if !s.k.Exists(path) {
		return false, false
	}
	return s.k.Bool(path), true
}
