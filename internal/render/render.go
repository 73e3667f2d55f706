// Package render converts note text to HTML and extracts its headings and
// fenced code blocks.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/starford/vaultgraph/internal/apperr"
)

// Heading is a Markdown heading line.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// CodeBlock is a fenced code block.
type CodeBlock struct {
	Language *string `json:"language,omitempty"`
	Code     string  `json:"code"`
}

// Rendered is the presentation form of a note.
type Rendered struct {
	Raw        string      `json:"raw"`
	HTML       string      `json:"html"`
	Headings   []Heading   `json:"headings"`
	CodeBlocks []CodeBlock `json:"codeBlocks"`
}

// Renderer wraps a configured goldmark instance. Raw HTML in notes is not
// passed through.
type Renderer struct {
	md goldmark.Markdown
}

// New returns a Renderer with GitHub-flavoured extensions, footnotes, and
// definition lists enabled.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Footnote,
				extension.DefinitionList,
			),
		),
	}
}

// HTML converts text to HTML.
func (r *Renderer) HTML(text string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", apperr.New(apperr.KindParse, "render", "", err)
	}
	return buf.String(), nil
}

// Render converts text and extracts its structure.
func (r *Renderer) Render(text string) (*Rendered, error) {
	html, err := r.HTML(text)
	if err != nil {
		return nil, err
	}
	return &Rendered{
		Raw:        text,
		HTML:       html,
		Headings:   Headings(text),
		CodeBlocks: CodeBlocks(text),
	}, nil
}

// Headings returns every line starting with a run of one to six '#'. Heading
// ids are "heading-N", numbered from zero in document order.
func Headings(text string) []Heading {
	var out []Heading
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			continue
		}
		rest := strings.TrimLeft(trimmed, "#")
		level := len(trimmed) - len(rest)
		if level > 6 {
			continue
		}
		out = append(out, Heading{
			Level: level,
			Text:  strings.TrimSpace(rest),
			ID:    fmt.Sprintf("heading-%d", len(out)),
		})
	}
	return out
}

// CodeBlocks returns the fenced blocks of text. A fence is any line whose
// left-trimmed form starts with three backticks; an unterminated block is
// dropped.
func CodeBlocks(text string) []CodeBlock {
	const fence = "```"
	var (
		out     []CodeBlock
		inBlock bool
		lang    *string
		code    strings.Builder
	)
	for _, line := range strings.Split(text, "\n") {
		start := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(start, fence) {
			if inBlock {
				out = append(out, CodeBlock{Language: lang, Code: code.String()})
				code.Reset()
				lang = nil
				inBlock = false
				continue
			}
			if l := strings.TrimSpace(strings.TrimLeft(start, "`")); l != "" {
				lang = &l
			}
			inBlock = true
			continue
		}
		if inBlock {
			code.WriteString(strings.TrimSuffix(line, "\r"))
			code.WriteByte('\n')
		}
	}
	return out
}
