package contracts

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlSchema is the on-disk form of a declarative schema:
//
//	name: Order
//	fields:
//	  - name: id
//	  - name: note
//	    optional: true
//	  - name: customer
//	    fields:
//	      - name: email
type yamlSchema struct {
	Name   string      `yaml:"name"`
	Fields []yamlField `yaml:"fields"`
}

type yamlField struct {
	Name     string      `yaml:"name"`
	Optional bool        `yaml:"optional"`
	Fields   []yamlField `yaml:"fields"`
}

// ParseYAML builds a declarative schema from its YAML definition
func ParseYAML(data []byte) (*Schema, error) {
	var doc yamlSchema
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse yaml: %v", ErrInvalidSchema, err)
	}
	return doc.build(doc.Name)
}

// LoadYAML reads and parses a YAML schema file
func LoadYAML(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return ParseYAML(data)
}

func (y yamlSchema) build(name string) (*Schema, error) {
	fields := make([]Field, 0, len(y.Fields))
	for _, yf := range y.Fields {
		var opts []FieldOption
		if yf.Optional {
			opts = append(opts, Optional())
		}

		// A field with sub-fields is a nested record named after its parent path
		if len(yf.Fields) > 0 {
			nested, err := yamlSchema{Fields: yf.Fields}.build(name + "." + yf.Name)
			if err != nil {
				return nil, err
			}
			fields = append(fields, Record(yf.Name, nested, opts...))
			continue
		}
		fields = append(fields, Scalar(yf.Name, opts...))
	}
	return New(name, fields...)
}
