package policy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bfv/blogkit/internal/subyaml"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// ErrNoTables is returned when a config has no usable table list.
var ErrNoTables = errors.New("no tables found in config (expected 'tables:')")

// Format selects the parser used for config text.
type Format string

const (
	// FormatSubset is the lenient indentation parser for the documented shape.
	FormatSubset Format = "subset"
	// FormatYAML is full YAML.
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name. An empty name selects FormatSubset.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatSubset:
		return FormatSubset, nil
	case FormatYAML:
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown config format %q (expected subset or yaml)", s)
}

// Load parses and validates config text.
func Load(data []byte, format Format) (*Config, error) {
	var cfg *Config
	switch format {
	case FormatYAML:
		cfg = &Config{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
	case FormatSubset, "":
		var err error
		if cfg, err = FromNode(subyaml.Parse(string(data))); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown config format %q", format)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Debug().Str("format", string(format)).Int("version", cfg.Version).Int("tables", len(cfg.Tables)).Msg("config loaded")
	return cfg, nil
}

// FromNode maps a parsed tree onto a Config. Keys outside the config shape
// are ignored; a missing or empty table list is ErrNoTables.
func FromNode(root *subyaml.Node) (*Config, error) {
	cfg := &Config{}
	if v, ok := root.Get("version").Int(); ok {
		cfg.Version = int(v)
	}

	tables := root.Get("tables")
	if tables == nil || tables.Kind != subyaml.Sequence || tables.Len() == 0 {
		return nil, ErrNoTables
	}

	for i, tn := range tables.Items() {
		t := Table{
			Name:      text(tn.Get("name")),
			EnableRLS: flag(tn.Get("enable_rls")),
			ForceRLS:  flag(tn.Get("force_rls")),
		}
		for j, pn := range tn.Get("policies").Items() {
			p := Policy{
				Name:  text(pn.Get("name")),
				Role:  text(pn.Get("role")),
				Using: text(pn.Get("using")),
				Check: text(pn.Get("check")),
			}
			actions, err := actionList(pn.Get("actions"))
			if err != nil {
				return nil, fmt.Errorf("table %d policy %d: %w", i+1, j+1, err)
			}
			p.Actions = actions
			t.Policies = append(t.Policies, p)
		}
		cfg.Tables = append(cfg.Tables, t)
	}
	return cfg, nil
}

// Validate checks the table list and normalises action names.
func (c *Config) Validate() error {
	if c == nil || len(c.Tables) == 0 {
		return ErrNoTables
	}
	for i := range c.Tables {
		t := &c.Tables[i]
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("table %d: name is required", i+1)
		}
		for j := range t.Policies {
			p := &t.Policies[j]
			for k, a := range p.Actions {
				action, err := ParseAction(string(a))
				if err != nil {
					return fmt.Errorf("table %q policy %q: %w", t.Name, p.Name, err)
				}
				p.Actions[k] = action
			}
		}
	}
	return nil
}

// YAML renders the config as YAML.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshalling yaml: %w", err)
	}
	return data, nil
}

func text(n *subyaml.Node) string {
	s, _ := n.Text()
	return s
}

func flag(n *subyaml.Node) bool {
	b, _ := n.Bool()
	return b
}

// actionList accepts an inline or block sequence, or a single scalar.
func actionList(n *subyaml.Node) ([]Action, error) {
	if n == nil {
		return nil, nil
	}
	var raw []string
	switch n.Kind {
	case subyaml.Sequence:
		for _, it := range n.Items() {
			s, ok := it.Text()
			if !ok {
				return nil, fmt.Errorf("action must be a scalar, got %s", it.Kind)
			}
			raw = append(raw, s)
		}
	case subyaml.Scalar:
		raw = append(raw, text(n))
	}

	actions := make([]Action, 0, len(raw))
	for _, s := range raw {
		a, err := ParseAction(s)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}
