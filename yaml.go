package featenc

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlDecl is the document form of a Declaration. Only these keys are
// recognized; anything else fails the load.
type yamlDecl struct {
	Name        string         `yaml:"name"`
	Kind        string         `yaml:"kind"`
	Values      []any          `yaml:"values"`
	ValueSet    []any          `yaml:"value_set"`
	ValuesFile  string         `yaml:"values_file"`
	Range       string         `yaml:"range"`
	Default     any            `yaml:"default"`
	Format      string         `yaml:"format"`
	Fn          string         `yaml:"fn"`
	Postprocess string         `yaml:"postprocess"`
	Mapping     map[string]int `yaml:"mapping"`
}

// LoadDeclarations parses a YAML sequence of feature declarations. Functions
// are referenced by name and resolved at registration through the usual
// lookup chain. An unrecognized key anywhere in the document is fatal.
func LoadDeclarations(data []byte) ([]Declaration, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var docs []yamlDecl
	if err := dec.Decode(&docs); err != nil && err != io.EOF {
		// yaml reports unrecognized mapping keys as "field x not found".
		if strings.Contains(err.Error(), "not found in type") {
			return nil, newDeclarationError(ErrUnknownKey, "", err.Error())
		}
		return nil, fmt.Errorf("featenc: parse declarations: %w", err)
	}

	decls := make([]Declaration, 0, len(docs))
	for _, doc := range docs {
		decl := Declaration{
			Name:            doc.Name,
			Kind:            doc.Kind,
			Values:          doc.Values,
			ValuesFile:      doc.ValuesFile,
			Range:           doc.Range,
			Default:         doc.Default,
			Format:          doc.Format,
			FnName:          doc.Fn,
			PostprocessName: doc.Postprocess,
		}
		if len(doc.ValueSet) > 0 {
			decl.ValueSet = make(map[any]struct{}, len(doc.ValueSet))
			for _, v := range doc.ValueSet {
				decl.ValueSet[v] = struct{}{}
			}
		}
		if len(doc.Mapping) > 0 {
			decl.Mapping = make(map[any]int, len(doc.Mapping))
			for cat, num := range doc.Mapping {
				decl.Mapping[cat] = num
			}
		}
		decls = append(decls, decl)
	}
	return decls, nil
}
