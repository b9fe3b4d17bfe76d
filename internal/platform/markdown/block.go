package markdown

import "strings"

// Block is a generated region of a document delimited by HTML comments, so
// hand-written text around it survives a rewrite.
type Block struct {
	Name string
}

func (b Block) Start() string { return "<!-- cxassist:" + b.Name + ":start -->" }
func (b Block) End() string   { return "<!-- cxassist:" + b.Name + ":end -->" }

// Replace swaps the block's current content for generated, appending the
// block when body has none. A start marker without an end marker claims the
// rest of the body.
func (b Block) Replace(body, generated string) string {
	section := b.Start() + "\n" + strings.TrimRight(generated, "\n") + "\n" + b.End()

	start := strings.Index(body, b.Start())
	if start >= 0 {
		tail := ""
		if end := strings.Index(body[start:], b.End()); end >= 0 {
			tail = body[start+end+len(b.End()):]
		} else {
			section += "\n"
		}
		return body[:start] + section + tail
	}

	switch {
	case strings.TrimSpace(body) == "":
		return section + "\n"
	case strings.HasSuffix(body, "\n"):
		return body + "\n" + section + "\n"
	default:
		return body + "\n\n" + section + "\n"
	}
}
