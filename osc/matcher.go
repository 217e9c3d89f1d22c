package osc

import (
	"regexp"
	"strings"
)

// Characters that may not appear in an OSC address component.
const reservedAddressChars = " #*,?[]{}\x00"

// Matcher is a compiled OSC address pattern. It is immutable and may be used
// concurrently against any number of addresses.
//
// Patterns are matched one '/'-separated component at a time:
//
//	?         any single character
//	*         any sequence of zero or more characters
//	[abc]     any character in the list; ranges like [a-z] are allowed,
//	          [!...] negates, and '-' is literal at either end
//	{foo,bar} any of the comma-separated strings
//	//        one or more whole components
//
// No wildcard matches across a '/'.
type Matcher struct {
	pattern string
	parts   []patternPart
}

type patternPart struct {
	descend bool // "//"
	literal string
	re      *regexp.Regexp
}

func (p *patternPart) match(component string) bool {
	if p.re != nil {
		return p.re.MatchString(component)
	}
	return p.literal == component
}

// Compile parses an OSC address pattern into a Matcher. Syntax errors are
// reported as BadAddressPattern; a component the regexp engine rejects (for
// example the reversed range "[z-a]") is reported as RegexError.
func Compile(pattern string) (*Matcher, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, newError(KindBadAddressPattern, "%q must start with '/'", pattern)
	}

	segs := strings.Split(pattern[1:], "/")
	m := &Matcher{pattern: pattern, parts: make([]patternPart, 0, len(segs))}
	for i, seg := range segs {
		if seg == "" {
			if i == len(segs)-1 {
				return nil, newError(KindBadAddressPattern, "%q has an empty last component", pattern)
			}
			if len(m.parts) > 0 && m.parts[len(m.parts)-1].descend {
				return nil, newError(KindBadAddressPattern, "%q has more than two consecutive '/'", pattern)
			}
			m.parts = append(m.parts, patternPart{descend: true})
			continue
		}

		part, err := compileComponent(seg)
		if err != nil {
			return nil, err
		}
		m.parts = append(m.parts, part)
	}

	return m, nil
}

// MustCompile is like Compile but panics if the pattern cannot be compiled.
func MustCompile(pattern string) *Matcher {
	m, err := Compile(pattern)
	if err != nil {
		panic(`osc: Compile(` + pattern + `): ` + err.Error())
	}
	return m
}

// String returns the source pattern.
func (m *Matcher) String() string {
	return m.pattern
}

// Match reports whether addr matches the pattern. Invalid addresses never
// match. Matching takes time polynomial in the number of pattern parts and
// address components, however many "//" the pattern has.
func (m *Matcher) Match(addr string) bool {
	if ValidateAddress(addr) != nil {
		return false
	}
	s := matchState{parts: m.parts, components: strings.Split(addr[1:], "/")}
	return s.match(0, 0)
}

// matchState walks parts against components. failed records the
// ("//" part, component) positions already known not to match, so each is
// explored once.
type matchState struct {
	parts      []patternPart
	components []string
	failed     map[[2]int]bool
}

func (s *matchState) match(pi, ci int) bool {
	for pi < len(s.parts) {
		if s.parts[pi].descend {
			key := [2]int{pi, ci}
			if s.failed[key] {
				return false
			}
			for next := ci + 1; next <= len(s.components); next++ {
				if s.match(pi+1, next) {
					return true
				}
			}
			if s.failed == nil {
				s.failed = make(map[[2]int]bool)
			}
			s.failed[key] = true
			return false
		}

		if ci == len(s.components) || !s.parts[pi].match(s.components[ci]) {
			return false
		}
		pi, ci = pi+1, ci+1
	}
	return ci == len(s.components)
}

func compileComponent(seg string) (patternPart, error) {
	if i := strings.IndexAny(seg, " #\x00"); i != -1 {
		return patternPart{}, newError(KindBadAddressPattern, "invalid character %q in %q", seg[i], seg)
	}
	if !strings.ContainsAny(seg, "*?[]{}") {
		if i := strings.IndexByte(seg, ','); i != -1 {
			return patternPart{}, newError(KindBadAddressPattern, "invalid character %q in %q", seg[i], seg)
		}
		return patternPart{literal: seg}, nil
	}

	var sb strings.Builder
	sb.WriteString(`(?s)^`)
	for i := 0; i < len(seg); i++ {
		switch c := seg[i]; c {
		case '*':
			sb.WriteString(`.*`)
		case '?':
			sb.WriteString(`.`)

		case '[':
			end := strings.IndexByte(seg[i+1:], ']')
			if end == -1 {
				return patternPart{}, newError(KindBadAddressPattern, "unclosed '[' in %q", seg)
			}
			class := seg[i+1 : i+1+end]
			if strings.IndexByte(class, '[') != -1 {
				return patternPart{}, newError(KindBadAddressPattern, "nested '[' in %q", seg)
			}
			if err := writeClass(&sb, class); err != nil {
				return patternPart{}, err
			}
			i += end + 1

		case '{':
			end := strings.IndexByte(seg[i+1:], '}')
			if end == -1 {
				return patternPart{}, newError(KindBadAddressPattern, "unclosed '{' in %q", seg)
			}
			alts := seg[i+1 : i+1+end]
			if j := strings.IndexAny(alts, "{[]*?"); j != -1 {
				return patternPart{}, newError(KindBadAddressPattern, "invalid character %q inside '{}' in %q", alts[j], seg)
			}
			sb.WriteString(`(?:`)
			for j, alt := range strings.Split(alts, ",") {
				if j > 0 {
					sb.WriteByte('|')
				}
				sb.WriteString(regexp.QuoteMeta(alt))
			}
			sb.WriteByte(')')
			i += end + 1

		case ']', '}':
			return patternPart{}, newError(KindBadAddressPattern, "unbalanced %q in %q", c, seg)
		case ',':
			return patternPart{}, newError(KindBadAddressPattern, "',' outside '{}' in %q", seg)

		default:
			sb.WriteString(regexp.QuoteMeta(seg[i : i+1]))
		}
	}
	sb.WriteByte('$')

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return patternPart{}, wrapError(KindRegex, err, "component %q", seg)
	}
	return patternPart{re: re}, nil
}

// writeClass translates the inside of a [...] character class.
func writeClass(sb *strings.Builder, class string) error {
	sb.WriteByte('[')
	if strings.HasPrefix(class, "!") {
		sb.WriteByte('^')
		class = class[1:]
	}
	if class == "" {
		return newError(KindBadAddressPattern, "empty character class")
	}

	for i := 0; i < len(class); i++ {
		c := class[i]
		switch {
		case c == '-' && i > 0 && i < len(class)-1:
			sb.WriteByte('-')
		case c < 0x80 && !isAlnum(c):
			sb.WriteByte('\\')
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte(']')
	return nil
}

func isAlnum(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// ValidateAddress checks that addr is a concrete OSC address: it starts
// with '/', has no empty components and contains no pattern or reserved
// characters.
func ValidateAddress(addr string) error {
	if !strings.HasPrefix(addr, "/") {
		return newError(KindBadAddress, "%q must start with '/'", addr)
	}
	for _, comp := range strings.Split(addr[1:], "/") {
		if comp == "" {
			return newError(KindBadAddress, "%q has an empty component", addr)
		}
		if i := strings.IndexAny(comp, reservedAddressChars); i != -1 {
			return newError(KindBadAddress, "invalid character %q in %q", comp[i], addr)
		}
	}
	return nil
}
