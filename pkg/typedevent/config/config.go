package config

import (
	"slices"
	"strings"
)

// Config is a decoded settings document. Accessors return the supplied
// default when a key is missing or holds a value of another type.
type Config struct {
	data map[string]any
}

// New creates a Config from the given map. A nil map is an empty document.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

func get[V any](c Config, key string) (V, bool) {
	v, ok := c.data[key].(V)
	return v, ok
}

// String returns the string stored under key.
func (c Config) String(key, defaultVal string) string {
	if s, ok := get[string](c, key); ok {
		return s
	}
	return defaultVal
}

// Bool returns the boolean stored under key.
func (c Config) Bool(key string, defaultVal bool) bool {
	if b, ok := get[bool](c, key); ok {
		return b
	}
	return defaultVal
}

// Int returns the integer stored under key. YAML decodes integers as int;
// JSON decodes every number as float64, which is accepted only when whole.
func (c Config) Int(key string, defaultVal int) int {
	switch n := c.data[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		if n == float64(int(n)) {
			return int(n)
		}
	}
	return defaultVal
}

// StringSlice returns the list stored under key. A sequence must hold only
// strings. A plain string is split on commas, the same form the
// environment overrides use.
func (c Config) StringSlice(key string, defaultVal []string) []string {
	switch v := c.data[key].(type) {
	case []string:
		return v
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return defaultVal
			}
			out = append(out, s)
		}
		return out
	}
	return defaultVal
}

// Section returns the nested document stored under key, or an empty
// Config when key is missing or not a mapping.
func (c Config) Section(key string) Config {
	m, _ := get[map[string]any](c, key)
	return New(m)
}

// Has reports whether key is present.
func (c Config) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// Keys returns the top-level keys in sorted order.
func (c Config) Keys() []string {
	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Unknown returns the top-level keys not in known, sorted.
func (c Config) Unknown(known ...string) []string {
	var out []string
	for _, k := range c.Keys() {
		if !slices.Contains(known, k) {
			out = append(out, k)
		}
	}
	return out
}
