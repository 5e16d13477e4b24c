package textproc

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"certprep/internal/media"
)

var (
	// Bare hex runs of 16 to 64 chars, word-bounded so ordinary prose
	// is never matched.
	directHashPattern = regexp.MustCompile(`\b[a-fA-F0-9]{16,64}\b`)

	// Legacy bracketed references: [IMAGE: name.ext] or IMAGE: name.ext.
	legacyImagePattern = regexp.MustCompile(`(?i)\[?IMAGE:\s*([^\s\[\]]+\.(?:png|jpg|jpeg|gif|svg))\]?`)
)

// Preprocessor rewrites media references in question text into display
// fragments. Direct hash tokens are converted first, then legacy
// bracketed tokens, so text mixing both grammars is fully converted in
// one pass. The output never matches either grammar again, which makes
// the whole transformation idempotent.
type Preprocessor struct {
	resolver *media.Resolver
}

// NewPreprocessor creates a Preprocessor backed by the given resolver.
func NewPreprocessor(resolver *media.Resolver) *Preprocessor {
	return &Preprocessor{resolver: resolver}
}

// Process converts every media token in text into a display fragment
// and returns the converted text along with the number of references
// resolved. Empty input yields an empty string.
func (p *Preprocessor) Process(ctx context.Context, text, folder string) (string, int) {
	if text == "" {
		return "", 0
	}

	processed, hashCount := p.replaceHashes(ctx, text, folder)
	processed, legacyCount := p.replaceLegacy(ctx, processed, folder)
	return processed, hashCount + legacyCount
}

// CountTokens reports how many media references Process would convert.
func CountTokens(text string) int {
	count := 0
	for _, m := range directHashPattern.FindAllStringIndex(text, -1) {
		if !insideAttribute(text, m[0], m[1]) {
			count++
		}
	}
	count += len(legacyImagePattern.FindAllString(text, -1))
	return count
}

func (p *Preprocessor) replaceHashes(ctx context.Context, text, folder string) (string, int) {
	matches := directHashPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text, 0
	}

	var b strings.Builder
	last, count := 0, 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if insideAttribute(text, start, end) {
			continue
		}
		token := text[start:end]
		res := p.resolver.Resolve(ctx, folder, token)
		b.WriteString(text[last:start])
		b.WriteString(mediaFragment(res.URL, "Question image"))
		last = end
		count++
	}
	b.WriteString(text[last:])
	return b.String(), count
}

func (p *Preprocessor) replaceLegacy(ctx context.Context, text, folder string) (string, int) {
	count := 0
	processed := legacyImagePattern.ReplaceAllStringFunc(text, func(match string) string {
		filename := legacyImagePattern.FindStringSubmatch(match)[1]
		res := p.resolver.Resolve(ctx, folder, filename)
		count++
		return mediaFragment(res.URL, filename)
	})
	return processed, count
}

// insideAttribute reports whether a hash match sits inside generated
// markup, i.e. within a quoted attribute or a URL path. Hash tokens in
// already-converted text are always preceded by a slash or quote, so
// this check is what keeps Process idempotent.
func insideAttribute(text string, start, end int) bool {
	if start > 0 {
		switch text[start-1] {
		case '/', '"', '\'', '=':
			return true
		}
	}
	if end < len(text) {
		switch text[end] {
		case '"', '\'':
			return true
		}
	}
	return false
}

// mediaFragment builds the display block for a resolved media URL. The
// markup contains no bare hex runs and never the literal "IMAGE:", so
// it cannot be re-matched by either token grammar.
func mediaFragment(url, alt string) string {
	return fmt.Sprintf(
		`<figure class="question-media"><img src="%s" alt="%s" loading="lazy"></figure>`,
		html.EscapeString(url), html.EscapeString(alt),
	)
}
