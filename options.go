package terminus

import (
	"time"

	"github.com/imdario/mergo"
	"github.com/knadh/koanf"
)

// Options are pipeline-level settings.  The zero value is usable;
// unset fields are filled from DefaultOptions when a Pipeline is
// built.
type Options struct {
	// CacheTTL is the expiration applied by caching interceptors
	// when the method's own metadata declares none.
	CacheTTL time.Duration `koanf:"cacheTTL"`

	// Verbosity is the log level passed to the logging interceptor.
	Verbosity int `koanf:"verbosity"`
}

// DefaultOptions returns the built-in settings.
func DefaultOptions() Options {
	return Options{
		CacheTTL: 5 * time.Minute,
	}
}

// MergeFrom fills unset fields from defaults, leaving set fields
// untouched.
func (o Options) MergeFrom(defaults Options) Options {
	merged := o
	if err := mergo.Merge(&merged, defaults); err != nil {
		return o
	}
	return merged
}

// OptionsFromKoanf loads Options from the configuration subtree at
// path, backfilling defaults.
func OptionsFromKoanf(k *koanf.Koanf, path string) (Options, error) {
	var o Options
	if err := k.Unmarshal(path, &o); err != nil {
		return Options{}, err
	}
	return o.MergeFrom(DefaultOptions()), nil
}
