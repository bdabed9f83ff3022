package config

// Config wraps a map[string]any for type-safe value extraction.
// All accessor methods return default values if the key is missing
// or the value cannot be converted to the requested type.
type Config struct {
	data map[string]any
}

// New creates a Config from the given map.
// If data is nil, an empty Config is returned.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// String returns the string value for key, or defaultVal if missing or not a string.
func (c Config) String(key, defaultVal string) string {
	return lookup(c, key, defaultVal)
}

// Bool returns the boolean value for key, or defaultVal if missing or not a bool.
func (c Config) Bool(key string, defaultVal bool) bool {
	return lookup(c, key, defaultVal)
}

func lookup[T any](c Config, key string, defaultVal T) T {
	if v, ok := c.data[key].(T); ok {
		return v
	}
	return defaultVal
}

// Sub returns the nested section under key.
// Missing keys and non-map values yield an empty Config.
func (c Config) Sub(key string) Config {
	v, ok := c.data[key]
	if !ok {
		return New(nil)
	}
	switch val := v.(type) {
	case map[string]any:
		return New(val)
	case map[any]any:
		// Older YAML decoders produce untyped keys
		m := make(map[string]any, len(val))
		for k, item := range val {
			if s, ok := k.(string); ok {
				m[s] = item
			}
		}
		return New(m)
	}
	return New(nil)
}

// Has returns true if the key exists in the config.
func (c Config) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

// Raw returns the underlying map.
// The returned map should not be modified.
func (c Config) Raw() map[string]any {
	return c.data
}
