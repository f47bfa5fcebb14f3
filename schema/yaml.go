package schema

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Schema tables are versioned configuration, not code. The YAML layout keyed
// by type name:
//
//	Subject:
//	  identifier: SbId
//	  fields:
//	    Description: {alias: description, kind: string, required: true}
//	    Done:        {kind: bool, default: false}
//	  references:
//	    SubjectLink: {target: SubjectLink, alias: link, multiple: true}

type yamlField struct {
	Alias    string `yaml:"alias"`
	Kind     Kind   `yaml:"kind"`
	Required bool   `yaml:"required"`
	Critical bool   `yaml:"critical"`
	Default  any    `yaml:"default"`
}

type yamlReference struct {
	Target   string `yaml:"target"`
	Alias    string `yaml:"alias"`
	Multiple bool   `yaml:"multiple"`
	Required bool   `yaml:"required"`
	Critical bool   `yaml:"critical"`
	Default  any    `yaml:"default"`
}

type yamlDefinition struct {
	Identifier string                   `yaml:"identifier"`
	Fields     map[string]yamlField     `yaml:"fields"`
	References map[string]yamlReference `yaml:"references"`
}

// UnmarshalYAML decodes a kind from its name; an empty node means KindString.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		*k = KindString
		return nil
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Load reads a YAML schema table from r.
func Load(r io.Reader) (Table, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("schema: read: %w", err)
	}
	return LoadBytes(b)
}

// LoadBytes parses a YAML schema table.
func LoadBytes(b []byte) (Table, error) {
	raw := map[string]yamlDefinition{}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("schema: parse: %w", err)
	}
	out := make(Table, len(raw))
	for typ, yd := range raw {
		def := &Definition{
			Identifier: yd.Identifier,
			Fields:     make(map[string]Field, len(yd.Fields)),
			References: make(map[string]Reference, len(yd.References)),
		}
		for name, f := range yd.Fields {
			def.Fields[name] = Field{
				Alias:    f.Alias,
				Kind:     f.Kind,
				Required: f.Required,
				Critical: f.Critical,
				Default:  f.Default,
			}
		}
		for name, ref := range yd.References {
			def.References[name] = Reference{
				TargetType:    ref.Target,
				Alias:         ref.Alias,
				AllowMultiple: ref.Multiple,
				Required:      ref.Required,
				Critical:      ref.Critical,
				Default:       ref.Default,
			}
		}
		out[typ] = def
	}
	return out, nil
}
