package markdown

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// Field is one frontmatter entry. Render keeps fields in slice order.
type Field struct {
	Key   string
	Value any
}

// Split separates a leading YAML frontmatter block from the body. Content
// without a block yields empty meta and the content unchanged.
func Split(content string) (map[string]any, string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, fence+"\n") {
		return map[string]any{}, content, nil
	}
	rest := content[len(fence)+1:]
	var raw, body string
	switch {
	case strings.HasPrefix(rest, fence+"\n"):
		body = rest[len(fence)+1:]
	default:
		idx := strings.Index(rest, "\n"+fence+"\n")
		if idx < 0 {
			return nil, "", fmt.Errorf("frontmatter: missing closing %q", fence)
		}
		raw = rest[:idx]
		body = rest[idx+len(fence)+2:]
	}

	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, "", fmt.Errorf("frontmatter: %w", err)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, body, nil
}

// Render writes fields, then any extra keys in sorted order, as a frontmatter
// block followed by body. Nil values are skipped; keys in fields win over extra.
func Render(fields []Field, extra map[string]any, body string) (string, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	seen := map[string]bool{}
	add := func(key string, value any) error {
		if value == nil || seen[key] {
			return nil
		}
		seen[key] = true
		v := &yaml.Node{}
		if err := v.Encode(value); err != nil {
			return fmt.Errorf("frontmatter %s: %w", key, err)
		}
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, v)
		return nil
	}
	for _, f := range fields {
		if err := add(f.Key, f.Value); err != nil {
			return "", err
		}
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := add(k, extra[k]); err != nil {
			return "", err
		}
	}

	var buf bytes.Buffer
	buf.WriteString(fence + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	buf.WriteString(fence + "\n")
	if !strings.HasPrefix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(body)
	return buf.String(), nil
}
