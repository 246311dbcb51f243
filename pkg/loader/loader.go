// Package loader turns raw input into values the renderer understands.
//
// JSON and YAML objects decode into *renderjson.Object so that key order in
// the source survives to the rendered tree. TOML tables decode into plain
// maps and render in sorted key order.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/renderjson/pkg/renderjson"
)

// Format names reported by Detect.
const (
	FormatJWT       = "jwt"
	FormatJSON      = "json"
	FormatNDJSON    = "ndjson"
	FormatYAML      = "yaml"
	FormatYAMLMulti = "yaml-multi"
	FormatTOML      = "toml"
)

// ErrEmptyInput is returned for blank input.
var ErrEmptyInput = errors.New("empty input")

// Detect reports which format LoadData would parse input as.
func Detect(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrEmptyInput
	}
	if IsJWT(input) {
		return FormatJWT, nil
	}
	if strings.Contains(input, "\n---") || strings.HasPrefix(input, "---") {
		return FormatYAMLMulti, nil
	}
	if lines := strings.Split(input, "\n"); len(lines) > 1 && isLikelyNDJSON(lines) {
		// a pretty-printed document also has many lines starting with { or [
		if !isSingleJSON(input) {
			return FormatNDJSON, nil
		}
	}
	jsonLike := strings.HasPrefix(input, "{") || strings.HasPrefix(input, "[")
	if jsonLike && isSingleJSON(input) {
		return FormatJSON, nil
	}
	// TOML [section] headers look like JSON arrays, so TOML is checked
	// before the prefix fallback.
	if isLikelyTOML(input) {
		return FormatTOML, nil
	}
	if jsonLike {
		return FormatJSON, nil
	}
	return FormatYAML, nil
}

// LoadData parses input, auto-detecting its format, and returns one value
// per document. Single-document formats return a slice of length one.
func LoadData(input string) ([]any, error) {
	format, err := Detect(input)
	if err != nil {
		return nil, err
	}
	input = strings.TrimSpace(input)
	switch format {
	case FormatJWT:
		return loadJWT(input)
	case FormatYAMLMulti:
		return loadYAML(input, true)
	case FormatNDJSON:
		return loadNDJSON(input)
	case FormatTOML:
		return loadTOML(input)
	case FormatJSON:
		return loadJSON(input)
	default:
		return loadYAML(input, false)
	}
}

// LoadRoot parses input into a single root value. Multi-document inputs are
// returned as a slice.
func LoadRoot(input string) (any, error) {
	results, err := LoadData(input)
	if err != nil {
		return nil, err
	}
	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

// LoadReader reads r to the end and parses it with LoadRoot.
func LoadReader(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return LoadRoot(string(data))
}

// LoadFile reads a file and parses it into a single root value.
func LoadFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadRoot(string(data))
}

// DecodeJSON decodes one JSON value from data, keeping object key order and
// number text.
func DecodeJSON(data []byte) (any, error) {
	return renderjson.DecodeJSON(data)
}

func loadJSON(input string) ([]any, error) {
	v, err := DecodeJSON([]byte(input))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return []any{v}, nil
}

func isSingleJSON(input string) bool {
	_, err := DecodeJSON([]byte(input))
	return err == nil
}

// loadNDJSON parses newline-delimited JSON. Lines that are not valid JSON
// are kept as plain strings.
func loadNDJSON(input string) ([]any, error) {
	lines := strings.Split(input, "\n")
	results := make([]any, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := DecodeJSON([]byte(line))
		if err != nil {
			results = append(results, line)
			continue
		}
		results = append(results, v)
	}
	if len(results) == 0 {
		return nil, errors.New("no data found in input")
	}
	return results, nil
}

// isLikelyNDJSON requires a majority of non-empty lines to start with '{'
// or '[' so YAML lists of bare items are not mistaken for NDJSON.
func isLikelyNDJSON(lines []string) bool {
	jsonCount, nonEmpty := 0, 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmpty++
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			jsonCount++
		}
	}
	return nonEmpty > 1 && jsonCount > nonEmpty/2
}

func loadYAML(input string, multi bool) ([]any, error) {
	dec := yaml.NewDecoder(strings.NewReader(input))
	var results []any
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if multi {
				return nil, fmt.Errorf("invalid multi-document YAML: %w", err)
			}
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		v, err := fromYAML(&doc)
		if err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		if v != nil || !multi {
			results = append(results, v)
		}
	}
	if len(results) == 0 {
		if multi {
			return nil, errors.New("no documents found in multi-document YAML")
		}
		return []any{nil}, nil
	}
	return results, nil
}

// fromYAML converts a node tree, keeping mapping order. Aliases are resolved
// and "<<" merge keys are applied before the mapping's own keys.
func fromYAML(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAML(n.Content[0])
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.MappingNode:
		obj := renderjson.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Tag == "!!merge" {
				if err := mergeYAML(obj, v); err != nil {
					return nil, err
				}
				continue
			}
			val, err := fromYAML(v)
			if err != nil {
				return nil, err
			}
			obj.Set(k.Value, val)
		}
		return obj, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("unsupported YAML node kind %d", n.Kind)
}

func mergeYAML(dst *renderjson.Object, n *yaml.Node) error {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind == yaml.SequenceNode {
		for _, c := range n.Content {
			if err := mergeYAML(dst, c); err != nil {
				return err
			}
		}
		return nil
	}
	v, err := fromYAML(n)
	if err != nil {
		return err
	}
	src, ok := v.(*renderjson.Object)
	if !ok {
		return errors.New("merge value is not a mapping")
	}
	for _, k := range src.Keys() {
		if !dst.Has(k) {
			val, _ := src.Get(k)
			dst.Set(k, val)
		}
	}
	return nil
}

var (
	// [server], [[items]], ["table name"], [database.credentials]; JSON
	// arrays such as [1, 2, 3] do not match.
	tomlSectionPattern = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	// key = value, as opposed to YAML's key: value.
	tomlKeyValuePattern = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

func isLikelyTOML(input string) bool {
	sections, keyValues, nonEmpty := 0, 0, 0
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmpty++
		if tomlSectionPattern.MatchString(line) {
			sections++
		}
		if tomlKeyValuePattern.MatchString(line) {
			keyValues++
		}
	}
	return sections > 0 || (nonEmpty > 0 && keyValues > nonEmpty/2)
}

func loadTOML(input string) ([]any, error) {
	var data map[string]any
	if err := toml.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return []any{data}, nil
}
