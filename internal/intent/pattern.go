package intent

import (
	"fmt"
	"regexp"
	"strings"
)

var slotName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Pattern decides whether an utterance belongs to an intent and extracts its
// slots.
type Pattern interface {
	Match(text string) (Captures, bool)
	String() string
}

// Captures holds the slot values extracted from an utterance.
type Captures struct {
	values map[string]string
}

// Get returns the value captured for slot.
func (c Captures) Get(slot string) (string, bool) {
	v, ok := c.values[slot]
	return v, ok
}

func (c Captures) Len() int {
	return len(c.values)
}

// regexpPattern is the compiled form of the pattern grammar:
//
//	take me to $(PLACE)     words match literally, $(NAME) captures a slot
//	(hello|hi there)        alternation of literal phrases
//
// Matching ignores case, extra whitespace between words and trailing
// punctuation.
type regexpPattern struct {
	source string
	re     *regexp.Regexp
	slots  []string
}

// Compile parses a pattern expression.
func Compile(expr string) (Pattern, error) {
	tokens, slots, err := tokenize(expr)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", expr, err)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("compile pattern %q: empty pattern", expr)
	}
	re, err := regexp.Compile(`(?i)^\s*` + strings.Join(tokens, `\s+`) + `\s*[.!?]*\s*$`)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", expr, err)
	}
	return &regexpPattern{source: expr, re: re, slots: slots}, nil
}

// MustCompile is Compile for patterns known at build time.
func MustCompile(expr string) Pattern {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *regexpPattern) Match(text string) (Captures, bool) {
	m := p.re.FindStringSubmatch(text)
	if m == nil {
		return Captures{}, false
	}
	values := make(map[string]string, len(p.slots))
	for _, slot := range p.slots {
		values[slot] = strings.TrimSpace(m[p.re.SubexpIndex(slot)])
	}
	return Captures{values: values}, true
}

func (p *regexpPattern) String() string {
	return p.source
}

func tokenize(expr string) (tokens []string, slots []string, err error) {
	rest := strings.TrimSpace(expr)
	seen := make(map[string]bool)
	for rest != "" {
		switch {
		case strings.HasPrefix(rest, "$("):
			end := strings.IndexByte(rest, ')')
			if end < 0 {
				return nil, nil, fmt.Errorf("unterminated slot")
			}
			name := strings.TrimSpace(rest[2:end])
			if !slotName.MatchString(name) {
				return nil, nil, fmt.Errorf("invalid slot name %q", name)
			}
			if seen[name] {
				return nil, nil, fmt.Errorf("duplicate slot %q", name)
			}
			seen[name] = true
			slots = append(slots, name)
			tokens = append(tokens, `(?P<`+name+`>.+?)`)
			rest = rest[end+1:]
		case rest[0] == '(':
			end := strings.IndexByte(rest, ')')
			if end < 0 {
				return nil, nil, fmt.Errorf("unterminated alternation")
			}
			var alts []string
			for _, alt := range strings.Split(rest[1:end], "|") {
				if words := strings.Fields(alt); len(words) > 0 {
					alts = append(alts, literal(words))
				}
			}
			if len(alts) == 0 {
				return nil, nil, fmt.Errorf("empty alternation")
			}
			tokens = append(tokens, `(?:`+strings.Join(alts, "|")+`)`)
			rest = rest[end+1:]
		default:
			end := nextGroup(rest)
			if words := strings.Fields(rest[:end]); len(words) > 0 {
				tokens = append(tokens, literal(words))
			}
			rest = rest[end:]
		}
		rest = strings.TrimLeft(rest, " \t")
	}
	return tokens, slots, nil
}

// nextGroup returns the offset of the next slot or alternation in s, or
// len(s) when there is none.
func nextGroup(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '(' || (s[i] == '$' && i+1 < len(s) && s[i+1] == '(') {
			return i
		}
	}
	return len(s)
}

func literal(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, `\s+`)
}
