package env

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// YAML reads a YAML document and flattens it into dotted property names,
// e.g. `datasource: {url: x}` becomes `datasource.url=x` and list items are addressed by index.
func YAML(path string) (Map, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close() //nolint:errcheck

	result, err := ParseYAML(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return result, nil
}

// ParseYAML parses a YAML document from r. See YAML.
func ParseYAML(r io.Reader) (Map, error) {
	var doc any

	err := yaml.NewDecoder(r).Decode(&doc)
	if errors.Is(err, io.EOF) {
		return Map{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parsing yaml properties: %w", err)
	}

	result := Map{}
	flatten(result, "", doc)

	return result, nil
}

func flatten(result Map, prefix string, node any) {
	switch value := node.(type) {
	case nil:
		return
	case map[string]any:
		for k, v := range value {
			flatten(result, join(prefix, k), v)
		}
	case map[any]any:
		for k, v := range value {
			flatten(result, join(prefix, fmt.Sprint(k)), v)
		}
	case []any:
		for i, v := range value {
			flatten(result, join(prefix, strconv.Itoa(i)), v)
		}
	default:
		result[prefix] = fmt.Sprint(value)
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
