package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// overrideFile is the YAML layout of a schema file:
//
//	columns:
//	  id: int64
//	  date: datetime
type overrideFile struct {
	Columns map[string]string `yaml:"columns"`
}

// MarshalYAML renders d as a schema file, keeping column order.
func MarshalYAML(d *Declaration) ([]byte, error) {
	cols := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range d.entries {
		cols.Content = append(cols.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Column},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Type.String()},
		)
	}
	doc := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: "columns"},
		cols,
	}}
	b, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}
	return b, nil
}

// ParseOverrides decodes a schema file into column -> declared type name.
// Values are not validated here; Editor.Apply does that.
func ParseOverrides(data []byte) (map[string]string, error) {
	var f overrideFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse schema file: %w", err)
	}
	if f.Columns == nil {
		return map[string]string{}, nil
	}
	return f.Columns, nil
}

// LoadOverrides reads a schema file from disk.
func LoadOverrides(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	return ParseOverrides(b)
}
