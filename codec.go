package mdtokens

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

// ErrUnknownFormat reports an unsupported tree format name.
var ErrUnknownFormat = errors.New("unknown format")

// Format names a serialization of the tree.
type Format uint8

const (
	// FormatAuto sniffs JSON, then YAML, then falls back to Markdown.
	FormatAuto Format = iota
	// FormatJSON is mdast JSON.
	FormatJSON
	// FormatYAML is mdast written as YAML.
	FormatYAML
	// FormatMarkdown reads Markdown through ReadMarkdown. Decode only.
	FormatMarkdown
)

var formatNames = map[string]Format{
	"auto":     FormatAuto,
	"json":     FormatJSON,
	"yaml":     FormatYAML,
	"yml":      FormatYAML,
	"markdown": FormatMarkdown,
	"md":       FormatMarkdown,
}

// ParseFormat maps a format name to a Format.
func ParseFormat(name string) (Format, error) {
	f, ok := formatNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return FormatAuto, fmt.Errorf("%w %q", ErrUnknownFormat, name)
	}
	return f, nil
}

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatMarkdown:
		return "markdown"
	default:
		return "auto"
	}
}

// DecodeTree reads a tree in the given format.
func DecodeTree(r io.Reader, format Format) (*Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read tree: %w", err)
	}
	return DecodeTreeBytes(src, format)
}

// DecodeTreeBytes is DecodeTree over a byte slice.
func DecodeTreeBytes(src []byte, format Format) (*Node, error) {
	if err := ValidateInput(src); err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON:
		return decodeJSON(src)
	case FormatYAML:
		return decodeYAML(src)
	case FormatMarkdown:
		return ReadMarkdown(src)
	case FormatAuto:
		trimmed := bytes.TrimSpace(trimBOM(src))
		if len(trimmed) > 0 && trimmed[0] == '{' {
			return decodeJSON(src)
		}
		if n, err := decodeYAML(src); err == nil {
			return n, nil
		}
		return ReadMarkdown(src)
	default:
		return nil, fmt.Errorf("%w %d", ErrUnknownFormat, format)
	}
}

// EncodeTree writes n as JSON or YAML.
func EncodeTree(w io.Writer, n *Node, format Format) error {
	switch format {
	case FormatJSON, FormatAuto:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(n)
	case FormatYAML:
		out, err := yaml.MarshalWithOptions(n.mapSlice(), yaml.Indent(2), yaml.IndentSequence(true))
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		bw := bufio.NewWriter(w)
		if _, err := bw.Write(out); err != nil {
			return err
		}
		return bw.Flush()
	default:
		return fmt.Errorf("%w: cannot encode %s", ErrUnknownFormat, format)
	}
}

func decodeJSON(src []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(src))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return nodeFromValue(v, "$")
}

func decodeYAML(src []byte) (*Node, error) {
	var v any
	if err := yaml.Unmarshal(src, &v); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return nodeFromValue(v, "$")
}

// UnmarshalJSON decodes an mdast JSON node.
func (n *Node) UnmarshalJSON(b []byte) error {
	decoded, err := decodeJSON(b)
	if err != nil {
		return err
	}
	*n = *decoded
	return nil
}

// MarshalJSON encodes n as mdast JSON with a stable key order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range n.fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes the data map with tokens first.
func (d *Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.ordered())
}

type field struct {
	key   string
	value any
}

func (n *Node) fields() []field {
	out := []field{{key: "type", value: n.Type}}
	if n.Shape() == ShapeText {
		out = append(out, field{key: "value", value: n.Value})
	}
	if n.Data != nil {
		out = append(out, field{key: "data", value: n.Data})
	}
	if n.Children != nil {
		out = append(out, field{key: "children", value: n.Children})
	}
	for _, k := range sortedKeys(n.Props) {
		out = append(out, field{key: k, value: n.Props[k]})
	}
	return out
}

func (d *Data) ordered() orderedMap {
	var out orderedMap
	if d.Tokens != nil {
		out = append(out, field{key: "tokens", value: d.Tokens})
	}
	if d.Token != "" {
		out = append(out, field{key: "token", value: d.Token})
	}
	for _, k := range sortedKeys(d.Extra) {
		out = append(out, field{key: k, value: d.Extra[k]})
	}
	return out
}

type orderedMap []field

func (m orderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(f.key)
		val, err := json.Marshal(f.value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (n *Node) mapSlice() yaml.MapSlice {
	var out yaml.MapSlice
	for _, f := range n.fields() {
		out = append(out, yaml.MapItem{Key: f.key, Value: yamlValue(f.value)})
	}
	return out
}

func yamlValue(v any) any {
	switch val := v.(type) {
	case *Node:
		return val.mapSlice()
	case []*Node:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = child.mapSlice()
		}
		return out
	case *Data:
		var out yaml.MapSlice
		for _, f := range val.ordered() {
			out = append(out, yaml.MapItem{Key: f.key, Value: yamlValue(f.value)})
		}
		if out == nil {
			return map[string]any{}
		}
		return out
	case map[string]any:
		out := make(yaml.MapSlice, 0, len(val))
		for _, k := range sortedKeys(val) {
			out = append(out, yaml.MapItem{Key: k, Value: yamlValue(val[k])})
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = yamlValue(item)
		}
		return out
	default:
		return v
	}
}

func nodeFromValue(v any, path string) (*Node, error) {
	m, ok := asMap(v)
	if !ok {
		return nil, fmt.Errorf("%w: %s: expected object, got %T", ErrInvalidTree, path, v)
	}
	typ, ok := m["type"].(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("%w: %s: missing type", ErrInvalidTree, path)
	}
	n := &Node{Type: typ}
	for key, raw := range m {
		switch key {
		case "type":
		case "children":
			items, ok := raw.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s.children: expected array, got %T", ErrInvalidTree, path, raw)
			}
			n.Children = make([]*Node, 0, len(items))
			for i, item := range items {
				child, err := nodeFromValue(item, fmt.Sprintf("%s.children[%d]", path, i))
				if err != nil {
					return nil, err
				}
				n.Children = append(n.Children, child)
			}
		case "data":
			data, err := dataFromValue(raw, path+".data")
			if err != nil {
				return nil, err
			}
			n.Data = data
		case "value":
			if s, ok := raw.(string); ok && typ == TypeText {
				n.Value = s
				continue
			}
			n.setProp(key, raw)
		default:
			n.setProp(key, raw)
		}
	}
	return n, nil
}

func (n *Node) setProp(key string, raw any) {
	if n.Props == nil {
		n.Props = map[string]any{}
	}
	n.Props[key] = normalizeValue(raw)
}

func dataFromValue(v any, path string) (*Data, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := asMap(v)
	if !ok {
		return nil, fmt.Errorf("%w: %s: expected object, got %T", ErrInvalidTree, path, v)
	}
	d := &Data{}
	for key, raw := range m {
		switch key {
		case "tokens":
			items, ok := raw.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s.tokens: expected array, got %T", ErrInvalidTree, path, raw)
			}
			d.Tokens = make([]string, 0, len(items))
			for i, item := range items {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("%w: %s.tokens[%d]: expected string, got %T", ErrInvalidTree, path, i, item)
				}
				d.Tokens = append(d.Tokens, s)
			}
		case "token":
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s.token: expected string, got %T", ErrInvalidTree, path, raw)
			}
			d.Token = s
		default:
			if d.Extra == nil {
				d.Extra = map[string]any{}
			}
			d.Extra[key] = normalizeValue(raw)
		}
	}
	return d, nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// normalizeValue turns decoder specific values into plain Go values so both codecs
// produce equal trees.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case uint64:
		return int64(val)
	case int:
		return int64(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		if m, ok := asMap(v); ok {
			out := make(map[string]any, len(m))
			for k, item := range m {
				out[k] = normalizeValue(item)
			}
			return out
		}
		return v
	}
}

func sortedKeys(m map[string]any) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
