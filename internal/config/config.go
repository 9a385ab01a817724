package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/Versifine/stride/internal/locomotion"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "stride://config.schema.json"

const (
	DefaultArchetype     = "default"
	DefaultTickRateHz    = 60
	DefaultPhysicsRateHz = 50
)

type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Simulation SimulationConfig `yaml:"simulation"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Reporting  ReportingConfig  `yaml:"reporting"`
	Animation  AnimationConfig  `yaml:"animation"`

	// Archetypes are decoded over locomotion.DefaultConfig, so omitted keys
	// keep their defaults.
	Archetypes map[string]locomotion.Config `yaml:"-"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type SimulationConfig struct {
	TickRateHz    int        `yaml:"tick_rate_hz"`
	PhysicsRateHz int        `yaml:"physics_rate_hz"`
	Archetype     string     `yaml:"archetype"`
	Spawn         [3]float64 `yaml:"spawn"`
}

type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

type ReportingConfig struct {
	SentryDSN   string `yaml:"sentry_dsn"`
	Environment string `yaml:"environment"`
}

// AnimationConfig lists clip lengths in seconds. Cues without a length never
// report completion.
type AnimationConfig struct {
	Clips map[string]float64 `yaml:"clips"`
}

type document struct {
	Logging    LoggingConfig        `yaml:"logging"`
	Simulation SimulationConfig     `yaml:"simulation"`
	Metrics    MetricsConfig        `yaml:"metrics"`
	Reporting  ReportingConfig      `yaml:"reporting"`
	Animation  AnimationConfig      `yaml:"animation"`
	Archetypes map[string]yaml.Node `yaml:"archetypes"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse validates data against the embedded schema and decodes it.
func Parse(data []byte) (*Config, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	cfg := &Config{
		Logging:    doc.Logging,
		Simulation: doc.Simulation,
		Metrics:    doc.Metrics,
		Reporting:  doc.Reporting,
		Animation:  doc.Animation,
		Archetypes: make(map[string]locomotion.Config, len(doc.Archetypes)),
	}
	for name, node := range doc.Archetypes {
		arch := locomotion.DefaultConfig()
		if err := node.Decode(&arch); err != nil {
			return nil, fmt.Errorf("archetype %q: %w", name, err)
		}
		cfg.Archetypes[name] = arch
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Simulation.TickRateHz <= 0 {
		c.Simulation.TickRateHz = DefaultTickRateHz
	}
	if c.Simulation.PhysicsRateHz <= 0 {
		c.Simulation.PhysicsRateHz = DefaultPhysicsRateHz
	}
	if len(c.Archetypes) == 0 {
		c.Archetypes = map[string]locomotion.Config{DefaultArchetype: locomotion.DefaultConfig()}
	}
	if c.Simulation.Archetype == "" {
		if _, ok := c.Archetypes[DefaultArchetype]; ok {
			c.Simulation.Archetype = DefaultArchetype
		} else {
			c.Simulation.Archetype = c.ArchetypeNames()[0]
		}
	}
}

// Archetype returns the named archetype; an empty name selects the one the
// simulation section names.
func (c *Config) Archetype(name string) (locomotion.Config, error) {
	if name == "" {
		name = c.Simulation.Archetype
	}
	arch, ok := c.Archetypes[name]
	if !ok {
		return locomotion.Config{}, fmt.Errorf("unknown archetype %q", name)
	}
	return arch, nil
}

func (c *Config) ArchetypeNames() []string {
	names := make([]string, 0, len(c.Archetypes))
	for name := range c.Archetypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Config) FixedStep() float64 {
	return 1 / float64(c.Simulation.PhysicsRateHz)
}

func (c *Config) FrameStep() float64 {
	return 1 / float64(c.Simulation.TickRateHz)
}

var compiled *jsonschema.Schema

func schema() (*jsonschema.Schema, error) {
	if compiled != nil {
		return compiled, nil
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("load config schema: %w", err)
	}
	s, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile config schema: %w", err)
	}
	compiled = s
	return s, nil
}

// validate checks the YAML document's shape. YAML is converted through JSON
// so numbers reach the validator as JSON numbers.
func validate(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	js, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("config is not representable as JSON: %w", err)
	}
	var doc any
	if err := json.Unmarshal(js, &doc); err != nil {
		return err
	}
	s, err := schema()
	if err != nil {
		return err
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
