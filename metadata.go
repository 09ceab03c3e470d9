package terminus

import "time"

type (
	// Metadata exposes the named properties of the attribute
	// descriptor attached to an exposed or handler method.  Values
	// are opaque; typed access goes through the Meta helpers or,
	// preferably, the capability interfaces below.
	Metadata interface {
		Lookup(name string) (any, bool)
	}

	// Attrs is a plain map-backed Metadata.
	Attrs map[string]any

	// FeatureGated is implemented by attribute types that gate a
	// method behind a feature flag.
	FeatureGated interface {
		FeatureName() string
	}

	// RateLimited is implemented by attribute types that declare a
	// sliding-window quota for a method.
	RateLimited interface {
		RateLimit() (key string, maxRequests int, window time.Duration)
	}

	// Cacheable is implemented by attribute types that declare a
	// cache expiration for a method's results.
	Cacheable interface {
		CacheTTL() time.Duration
	}

	// NamedResource is implemented by attribute types that expose a
	// resource name usable as a cache or rate-limit key.
	NamedResource interface {
		ResourceName() string
	}
)

func (a Attrs) Lookup(name string) (any, bool) {
	value, ok := a[name]
	return value, ok
}

// MetaString extracts a string property by name.
func MetaString(m Metadata, name string) (string, bool) {
	if m == nil {
		return "", false
	}
	if value, ok := m.Lookup(name); ok {
		if s, ok := value.(string); ok {
			return s, true
		}
	}
	return "", false
}

// MetaInt extracts an integer property by name, converting the
// numeric representations a descriptor map commonly carries.
func MetaInt(m Metadata, name string) (int, bool) {
	if m == nil {
		return 0, false
	}
	if value, ok := m.Lookup(name); ok {
		switch n := value.(type) {
		case int:
			return n, true
		case int32:
			return int(n), true
		case int64:
			return int(n), true
		case float64:
			return int(n), true
		}
	}
	return 0, false
}

// MetaDuration extracts a duration property by name.  Accepts a
// time.Duration, a duration string, or a number of seconds.
func MetaDuration(m Metadata, name string) (time.Duration, bool) {
	if m == nil {
		return 0, false
	}
	if value, ok := m.Lookup(name); ok {
		switch d := value.(type) {
		case time.Duration:
			return d, true
		case string:
			if parsed, err := time.ParseDuration(d); err == nil {
				return parsed, true
			}
		case int:
			return time.Duration(d) * time.Second, true
		case int64:
			return time.Duration(d) * time.Second, true
		case float64:
			return time.Duration(d * float64(time.Second)), true
		}
	}
	return 0, false
}
