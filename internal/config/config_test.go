package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("parser.default_language", "typescript")
	v.SetDefault("parser.max_file_size", 1048576)
	v.SetDefault("parser.concurrency", 4)
	v.SetDefault("output.format", "json")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	return v
}

func TestNew_LoadsConfigFromViper(t *testing.T) {
	cfg := New(validViper())

	assert.Equal(t, "typescript", cfg.Parser.DefaultLanguage)
	assert.Equal(t, int64(1048576), cfg.Parser.MaxFileSize)
	assert.Equal(t, 4, cfg.Parser.Concurrency)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestNew_PanicsOnInvalidConfig(t *testing.T) {
	v := validViper()
	v.Set("output.format", "xml")

	assert.Panics(t, func() {
		New(v)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}, wantErr: false},
		{name: "zero concurrency", mutate: func(c *Config) { c.Parser.Concurrency = 0 }, wantErr: true},
		{name: "zero file size", mutate: func(c *Config) { c.Parser.MaxFileSize = 0 }, wantErr: true},
		{name: "unknown language", mutate: func(c *Config) { c.Parser.DefaultLanguage = "fortran" }, wantErr: true},
		{name: "yaml output", mutate: func(c *Config) { c.Output.Format = "yaml" }, wantErr: false},
		{name: "bad output", mutate: func(c *Config) { c.Output.Format = "csv" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				Parser: ParserConfig{DefaultLanguage: "typescript", MaxFileSize: 1 << 20, Concurrency: 2},
				Output: OutputConfig{Format: "json"},
				Log:    LogConfig{Level: "info", Format: "json"},
			}
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
