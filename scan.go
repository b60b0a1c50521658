package mdtokens

import (
	"iter"
	"unicode"
	"unicode/utf8"
)

type matchKind uint8

const (
	matchNone matchKind = iota
	matchNeutral
	matchBefore
	matchAfter
)

// Scan splits text into fragments: plain text, materialized neutral tokens and unresolved
// assignment tokens. Concatenating the plain and neutral spans with the whitespace kept by
// the space flags reconstructs the input minus the assignment syntax.
//
// The sequence is lazy and single use.
func Scan(text string) iter.Seq[Fragment] {
	return func(yield func(Fragment) bool) {
		s := scanner{src: text}
		for {
			f, ok := s.next()
			if !ok || !yield(f) {
				return
			}
		}
	}
}

type scanner struct {
	src    string
	pos    int
	queued Fragment
	hasQ   bool
}

type match struct {
	kind    matchKind
	start   int // first byte, including leading whitespace
	colon   int // opening colon
	tokEnd  int // end of the identifier
	end     int // end of the closing colon
	stop    int // end including trailing whitespace
	leading bool
}

func (s *scanner) next() (Fragment, bool) {
	if s.hasQ {
		s.hasQ = false
		return s.queued, true
	}
	if s.pos >= len(s.src) {
		return Fragment{}, false
	}
	m, ok := s.find()
	if !ok {
		text := s.src[s.pos:]
		s.pos = len(s.src)
		return textFragment(text), true
	}
	plain := s.src[s.pos:m.start]
	s.pos = m.stop
	tok := m.fragment(s.src)
	if plain == "" {
		return tok, true
	}
	s.queued = tok
	s.hasQ = true
	return textFragment(plain), true
}

// find locates the leftmost match at or after s.pos.
func (s *scanner) find() (match, bool) {
	for c := s.pos; c < len(s.src); c++ {
		if s.src[c] != ':' {
			continue
		}
		m := matchAt(s.src, c)
		if m.kind == matchNone {
			continue
		}
		m.start = c
		if m.kind != matchNeutral {
			for m.start > s.pos {
				r, size := utf8.DecodeLastRuneInString(s.src[s.pos:m.start])
				if !unicode.IsSpace(r) {
					break
				}
				m.start -= size
			}
			m.leading = m.start < c
			for m.stop = m.end; m.stop < len(s.src); {
				r, size := utf8.DecodeRuneInString(s.src[m.stop:])
				if !unicode.IsSpace(r) {
					break
				}
				m.stop += size
			}
		} else {
			m.stop = m.end
		}
		return m, true
	}
	return match{}, false
}

// matchAt tries the three token forms with the opening colon at c.
func matchAt(src string, c int) match {
	m := match{colon: c}
	i := c + 1
	before := i < len(src) && src[i] == '^'
	if before {
		i++
	}
	tokStart := i
	i = identifierEnd(src, i)
	if i == tokStart || i >= len(src) {
		return match{}
	}
	m.tokEnd = i
	switch {
	case src[i] == ':':
		m.end = i + 1
		if before {
			m.kind = matchBefore
		} else {
			m.kind = matchNeutral
		}
	case src[i] == '^' && !before && i+1 < len(src) && src[i+1] == ':':
		m.end = i + 2
		m.kind = matchAfter
	}
	return m
}

func identifierEnd(src string, i int) int {
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		if !isIdentifierRune(r) {
			break
		}
		i += size
	}
	return i
}

func isIdentifierRune(r rune) bool {
	return r != ':' && r != '^' && !unicode.IsSpace(r)
}

func (m match) fragment(src string) Fragment {
	switch m.kind {
	case matchBefore:
		id := src[m.colon+2 : m.tokEnd]
		trailing := m.stop > m.end
		return Fragment{Before: []string{id}, SpaceBefore: trailing, SpaceAfter: trailing}
	case matchAfter:
		id := src[m.colon+1 : m.tokEnd]
		return Fragment{After: []string{id}, SpaceBefore: m.leading, SpaceAfter: m.leading}
	default:
		id := src[m.colon+1 : m.tokEnd]
		return Fragment{Children: []*Node{newMarker(id)}}
	}
}

// IsIdentifier reports whether id is a valid token identifier.
func IsIdentifier(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if !isIdentifierRune(r) {
			return false
		}
	}
	return true
}
