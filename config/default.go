package config

// New returns the default configuration: JSON recordings, once mode.
func New() *Config {
	return &Config{
		RecordMode: "once",
		Serializer: "json",
	}
}
