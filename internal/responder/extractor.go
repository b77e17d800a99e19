package responder

import (
	"regexp"
	"strings"
	"unicode"
)

// OrderPattern is one way customers write an order reference. Pattern must
// have exactly one capture group; Validate runs after the shared rejection
// rules and may be nil.
type OrderPattern struct {
	Name     string
	Pattern  *regexp.Regexp
	Validate func(token string) bool
}

const minOrderTokenLength = 6

var orderStopWords = map[string]struct{}{
	"status": {}, "check": {}, "track": {}, "find": {}, "look": {}, "help": {},
	"what": {}, "how": {}, "where": {}, "when": {}, "why": {}, "order": {},
}

// DefaultOrderPatterns lists the supported id formats, most specific first.
func DefaultOrderPatterns() []OrderPattern {
	return []OrderPattern{
		{Name: "order-hash-objectid", Pattern: regexp.MustCompile(`(?i)order\s*#\s*([a-f0-9]{24})\b`)},
		{Name: "order-hash", Pattern: regexp.MustCompile(`(?i)order\s*#\s*([a-z0-9]{6,})`)},
		{Name: "ord-prefix", Pattern: regexp.MustCompile(`(?i)\b(ord-[a-z0-9]+)`)},
		{Name: "order-id-label", Pattern: regexp.MustCompile(`(?i)order\s*id\s*:\s*([a-z0-9]+)`)},
		{Name: "tracking-hash", Pattern: regexp.MustCompile(`(?i)tracking\s*#\s*([a-z0-9]+)`)},
		{Name: "bare-objectid", Pattern: regexp.MustCompile(`(?i)\b([a-f0-9]{24})\b`)},
		{Name: "bare-token", Pattern: regexp.MustCompile(`(?i)\b([a-z0-9]{8,})\b`), Validate: containsDigit},
	}
}

// Extractor pulls a candidate order id out of free text.
type Extractor struct {
	patterns []OrderPattern
}

// NewExtractor uses DefaultOrderPatterns when no patterns are given.
func NewExtractor(patterns ...OrderPattern) *Extractor {
	if len(patterns) == 0 {
		patterns = DefaultOrderPatterns()
	}
	return &Extractor{patterns: patterns}
}

// Extract returns the lowercased id from the first pattern whose leftmost
// match survives rejection. A rejected capture moves on to the next pattern,
// not to the next occurrence of the same one.
func (e *Extractor) Extract(message string) (string, bool) {
	for _, p := range e.patterns {
		match := p.Pattern.FindStringSubmatch(message)
		if len(match) < 2 {
			continue
		}
		token := strings.ToLower(match[1])
		if rejectOrderToken(token) {
			continue
		}
		if p.Validate != nil && !p.Validate(token) {
			continue
		}
		return token, true
	}
	return "", false
}

func rejectOrderToken(token string) bool {
	if len(token) < minOrderTokenLength {
		return true
	}
	_, stop := orderStopWords[token]
	return stop
}

func containsDigit(token string) bool {
	return strings.IndexFunc(token, unicode.IsDigit) >= 0
}
