package parser

import (
	"regexp"
	"strings"

	"github.com/starford/vaultgraph/internal/models"
)

// referencePattern matches [[target]] and [[target|display]]. The target
// excludes ']' and '|'; the display excludes ']'.
const referencePattern = `\[\[([^\]|]+)(?:\|([^\]]+))?\]\]`

// LinkExtractor finds inline references in note text.
type LinkExtractor struct {
	re *regexp.Regexp
}

// NewLinkExtractor compiles the reference pattern once for the extractor's lifetime.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{re: regexp.MustCompile(referencePattern)}
}

// Extract returns every non-overlapping reference in text, in order of
// occurrence. Malformed or nested spans simply do not match.
func (e *LinkExtractor) Extract(text string) []models.Reference {
	matches := e.re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]models.Reference, 0, len(matches))
	for _, m := range matches {
		ref := models.Reference{
			Target: strings.TrimSpace(text[m[2]:m[3]]),
			Offset: m[0],
		}
		if m[4] >= 0 {
			display := strings.TrimSpace(text[m[4]:m[5]])
			ref.Display = &display
		}
		out = append(out, ref)
	}
	return out
}
