// Package highlight colors raw backend payloads for terminal output.
package highlight

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter provides syntax highlighting for JSON and YAML payloads.
type Highlighter struct {
	style     string
	formatter chroma.Formatter
	plain     bool
}

// New creates a Highlighter with the given chroma style. An empty style
// means "monokai".
func New(style string) *Highlighter {
	if style == "" {
		style = "monokai"
	}
	return &Highlighter{
		style:     style,
		formatter: formatters.Get("terminal256"),
	}
}

// Plain returns a Highlighter that only pretty-prints, for pipes and files.
func Plain() *Highlighter {
	return &Highlighter{plain: true}
}

// Highlight applies syntax highlighting to code in lang. On any lexer or
// formatter failure the input is returned unchanged.
func (h *Highlighter) Highlight(code, lang string) string {
	if h.plain {
		return code
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(h.style)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := h.formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}

// JSON indents raw JSON and highlights it. Invalid JSON is highlighted as-is.
func (h *Highlighter) JSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return h.Highlight(string(raw), "json")
	}
	return h.Highlight(buf.String(), "json")
}

// Value marshals v as indented JSON and highlights it.
func (h *Highlighter) Value(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return h.Highlight(string(data), "json"), nil
}

// DetectLanguage picks a lexer name for a payload file.
func DetectLanguage(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".md", ".markdown":
		return "markdown"
	}
	if lexer := lexers.Match(filename); lexer != nil {
		return lexer.Config().Name
	}
	return "text"
}
