package clause

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedStatement = errors.New("malformed statement")

// hidden replaces every byte that is quoted, commented or nested. It is not
// whitespace and not an identifier character, so it never completes a
// keyword or separates one.
const hidden = '\x00'

var quoteClosers = map[byte]byte{
	'[':  ']',
	'\'': '\'',
	'"':  '"',
	'`':  '`',
}

// scan returns two copies of sql with the same byte offsets. In masked,
// everything below nesting depth zero is hidden; quote delimiters at depth
// zero and the outermost parentheses are kept. In clean, only comments are
// blanked out.
func scan(sql string) (masked string, clean string, err error) {
	out := []byte(sql)
	cleaned := []byte(sql)
	depth := 0

	fill := func(from int, to int, value byte) {
		for i := from; i < to; i++ {
			out[i] = value
		}
	}

	blank := func(from int, to int) {
		fill(from, to, filler(depth))
		for i := from; i < to; i++ {
			cleaned[i] = ' '
		}
	}

	for i := 0; i < len(sql); i++ {
		c := sql[i]

		if c == '-' && strings.HasPrefix(sql[i:], "--") {
			end := strings.IndexByte(sql[i:], '\n')
			if end < 0 {
				end = len(sql)
			} else {
				end += i
			}
			blank(i, end)
			i = end - 1
			continue
		}

		if c == '/' && strings.HasPrefix(sql[i:], "/*") {
			end := strings.Index(sql[i+2:], "*/")
			if end < 0 {
				return "", "", fmt.Errorf("%w: unterminated comment at offset %d", ErrMalformedStatement, i)
			}
			end += i + 4
			blank(i, end)
			i = end - 1
			continue
		}

		if closer, found := quoteClosers[c]; found {
			end, ok := closingQuote(sql, i+1, closer)
			if !ok {
				return "", "", fmt.Errorf("%w: unterminated %c at offset %d", ErrMalformedStatement, c, i)
			}
			if depth > 0 {
				fill(i, end+1, hidden)
			} else {
				fill(i+1, end, hidden)
			}
			i = end
			continue
		}

		switch c {
		case '(':
			if depth > 0 {
				out[i] = hidden
			}
			depth++
		case ')':
			depth--
			if depth < 0 {
				return "", "", fmt.Errorf("%w: unbalanced ')' at offset %d", ErrMalformedStatement, i)
			}
			if depth > 0 {
				out[i] = hidden
			}
		default:
			if depth > 0 {
				out[i] = hidden
			}
		}
	}

	if depth != 0 {
		return "", "", fmt.Errorf("%w: unbalanced '('", ErrMalformedStatement)
	}

	return string(out), string(cleaned), nil
}

func filler(depth int) byte {
	if depth > 0 {
		return hidden
	}

	return ' '
}

// closingQuote finds the index of closer starting at from. A doubled closer
// is an escaped literal character, as in 'it''s' or [a]]b].
func closingQuote(sql string, from int, closer byte) (int, bool) {
	for j := from; j < len(sql); j++ {
		if sql[j] != closer {
			continue
		}

		if j+1 < len(sql) && sql[j+1] == closer {
			j++
			continue
		}

		return j, true
	}

	return 0, false
}

// blankLiterals replaces the contents of every single-quoted literal in sql
// with spaces. Quoted identifiers are left alone.
func blankLiterals(sql string) string {
	out := []byte(sql)
	for i := 0; i < len(sql); i++ {
		closer, found := quoteClosers[sql[i]]
		if !found {
			continue
		}

		end, ok := closingQuote(sql, i+1, closer)
		if !ok {
			break
		}

		if closer == '\'' {
			for j := i + 1; j < end; j++ {
				out[j] = ' '
			}
		}
		i = end
	}

	return string(out)
}

// span is a half-open byte range into the scanned text.
type span struct {
	start int
	end   int
}

func (s span) of(text string) string {
	return strings.TrimSpace(text[s.start:s.end])
}

// splitTopLevel splits the range [start, end) of masked on sep, which is
// only ever visible at depth zero.
func splitTopLevel(masked string, start int, end int, sep byte) []span {
	spans := []span{}
	from := start
	for i := start; i < end; i++ {
		if masked[i] == sep {
			spans = append(spans, span{start: from, end: i})
			from = i + 1
		}
	}

	return append(spans, span{start: from, end: end})
}
