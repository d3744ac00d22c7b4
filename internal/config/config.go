// Package config loads cmd/mrtdump's configuration from an optional
// YAML file overlaid with MRTDUMP_-prefixed environment variables,
// grounded on pobradovic08-route-beacon-ri/internal/config.go's koanf
// layering.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config is cmd/mrtdump's full configuration surface.
type Config struct {
	Input    InputConfig    `koanf:"input"`
	Filter   FilterConfig   `koanf:"filter"`
	Output   OutputConfig   `koanf:"output"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Postgres PostgresConfig `koanf:"postgres"`
	Kafka    KafkaConfig    `koanf:"kafka"`
}

type InputConfig struct {
	Path string `koanf:"path"`
}

type FilterConfig struct {
	Prefixes       []string `koanf:"prefixes"`
	PrefixLocation string   `koanf:"prefix_location"` // adv, wdr, any
	SourceASes     string   `koanf:"source_ases"`
	DestASes       string   `koanf:"dest_ases"`
}

type OutputConfig struct {
	Format string `koanf:"format"` // text, json
	Path   string `koanf:"path"`   // "-" for stdout
}

type MetricsConfig struct {
	ListenAddr string `koanf:"listen_addr"` // empty disables the /metrics server
}

type PostgresConfig struct {
	DSN      string `koanf:"dsn"` // empty disables the postgres sink
	MaxConns int32  `koanf:"max_conns"`
}

type KafkaConfig struct {
	Brokers []string `koanf:"brokers"` // empty disables the kafka sink
	Topic   string   `koanf:"topic"`
}

// Load reads path (if non-empty) as YAML, then overlays MRTDUMP_-prefixed
// environment variables (e.g. MRTDUMP_KAFKA__BROKERS maps to
// kafka.brokers), applying defaults before either source is consulted.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := &Config{
		Output:   OutputConfig{Format: "text", Path: "-"},
		Filter:   FilterConfig{PrefixLocation: "any"},
		Postgres: PostgresConfig{MaxConns: 10},
	}
	if err := k.Load(structs.Provider(*defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: loading file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("MRTDUMP_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "MRTDUMP_")
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("config: loading env: %w", err)
	}

	out := &Config{}
	if err := k.Unmarshal("", out); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}

	if len(out.Kafka.Brokers) == 1 && strings.Contains(out.Kafka.Brokers[0], ",") {
		out.Kafka.Brokers = strings.Split(out.Kafka.Brokers[0], ",")
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate rejects configuration combinations the CLI can't act on.
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return fmt.Errorf("config: input.path is required")
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: output.format must be text or json, got %q", c.Output.Format)
	}
	switch c.Filter.PrefixLocation {
	case "adv", "wdr", "any":
	default:
		return fmt.Errorf("config: filter.prefix_location must be adv, wdr, or any, got %q", c.Filter.PrefixLocation)
	}
	if c.Kafka.Topic == "" && len(c.Kafka.Brokers) > 0 {
		return fmt.Errorf("config: kafka.topic is required when kafka.brokers is set")
	}
	return nil
}
