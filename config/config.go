// Package config provides the configuration structure for the netreplay
// CLI.
package config

// Config carries the CLI-facing options. Filter values map a field name to
// its replacement; an empty replacement deletes the field.
type Config struct {
	Path              string            `json:"path" yaml:"path" mapstructure:"path"`
	Debug             bool              `json:"debug" yaml:"debug" mapstructure:"debug"`
	ConfigPath        string            `json:"configPath" yaml:"configPath" mapstructure:"configPath"`
	RecordOnError     bool              `json:"recordOnError" yaml:"recordOnError" mapstructure:"recordOnError"`
	RecordMode        string            `json:"recordMode" yaml:"recordMode" mapstructure:"recordMode"`
	Serializer        string            `json:"serializer" yaml:"serializer" mapstructure:"serializer"`
	FilterHeaders     map[string]string `json:"filterHeaders" yaml:"filterHeaders" mapstructure:"filterHeaders"`
	FilterQuerystring map[string]string `json:"filterQuerystring" yaml:"filterQuerystring" mapstructure:"filterQuerystring"`
	FilterURI         map[string]string `json:"filterUri" yaml:"filterUri" mapstructure:"filterUri"`
}
