// internal/syntax/lexer.go
package syntax

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/solatis/remap/internal/types"
)

/*
 * Lexer.
 *
 * Produces the full token slice up front; programs are short and the parser
 * backtracks one token when it sees `ident :` inside argument lists.
 *
 * Token forms:
 *   "..."        string with Go escape sequences
 *   r'...'       regex literal
 *   t'...'       RFC3339 timestamp literal
 *   12  -3  1.5  integer and float literals (a leading '-' belongs to the number)
 *   .a."b c"[0]  event path, lexed as a single token
 *   # ...        comment to end of line
 *
 * Newlines are tokens because they separate expressions; the parser skips
 * them wherever a list is open.
 */

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNewline
	tokIdent
	tokString
	tokRegex
	tokTimestamp
	tokInt
	tokFloat
	tokPath
	tokAssign   // =
	tokCoalesce // ??
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokLBrace
	tokRBrace
	tokComma
	tokColon
	tokSemicolon
)

var tokenNames = map[tokenKind]string{
	tokEOF:       "end of input",
	tokNewline:   "newline",
	tokIdent:     "identifier",
	tokString:    "string",
	tokRegex:     "regex",
	tokTimestamp: "timestamp",
	tokInt:       "integer",
	tokFloat:     "float",
	tokPath:      "path",
	tokAssign:    "'='",
	tokCoalesce:  "'??'",
	tokLParen:    "'('",
	tokRParen:    "')'",
	tokLBracket:  "'['",
	tokRBracket:  "']'",
	tokLBrace:    "'{'",
	tokRBrace:    "'}'",
	tokComma:     "','",
	tokColon:     "':'",
	tokSemicolon: "';'",
}

func (k tokenKind) String() string {
	return tokenNames[k]
}

type token struct {
	kind tokenKind
	text string // decoded content for strings, regex, timestamps; raw text otherwise
	path []types.PathSegment
	span types.Span
}

type lexer struct {
	src    string
	pos    int
	tokens []token
}

func syntaxError(span types.Span, format string, args ...any) *types.CompileError {
	return &types.CompileError{
		Span:    span,
		Message: fmt.Sprintf(format, args...),
		Cause:   types.ErrSyntax,
	}
}

func lex(src string) ([]token, error) {
	l := &lexer{src: src}
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		l.tokens = append(l.tokens, tok)
		if tok.kind == tokEOF {
			return l.tokens, nil
		}
	}
}

func (l *lexer) emit(kind tokenKind, start int) token {
	return token{kind: kind, text: l.src[start:l.pos], span: types.Span{Start: start, End: l.pos}}
}

func (l *lexer) next() (token, error) {
	l.skipSpaceAndComments()
	start := l.pos
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, span: types.Span{Start: start, End: start}}, nil
	}

	c := l.src[l.pos]
	switch {
	case c == '\n':
		l.pos++
		return l.emit(tokNewline, start), nil
	case c == '"':
		return l.lexString()
	case (c == 'r' || c == 't') && l.peekAt(1) == '\'':
		return l.lexQuotedLiteral(c)
	case isDigit(c) || (c == '-' && isDigit(l.peekAt(1))):
		return l.lexNumber()
	case c == '.':
		return l.lexPath()
	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		return l.emit(tokIdent, start), nil
	}

	l.pos++
	switch c {
	case '=':
		return l.emit(tokAssign, start), nil
	case '?':
		if l.peekAt(0) == '?' {
			l.pos++
			return l.emit(tokCoalesce, start), nil
		}
	case '(':
		return l.emit(tokLParen, start), nil
	case ')':
		return l.emit(tokRParen, start), nil
	case '[':
		return l.emit(tokLBracket, start), nil
	case ']':
		return l.emit(tokRBracket, start), nil
	case '{':
		return l.emit(tokLBrace, start), nil
	case '}':
		return l.emit(tokRBrace, start), nil
	case ',':
		return l.emit(tokComma, start), nil
	case ':':
		return l.emit(tokColon, start), nil
	case ';':
		return l.emit(tokSemicolon, start), nil
	}
	return token{}, syntaxError(types.Span{Start: start, End: l.pos}, "unexpected character %q", c)
}

func (l *lexer) peekAt(offset int) byte {
	if l.pos+offset < len(l.src) {
		return l.src[l.pos+offset]
	}
	return 0
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\r':
			l.pos++
		case '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

// scanQuoted advances past a double-quoted string starting at l.pos and
// returns its decoded content.
func (l *lexer) scanQuoted() (string, error) {
	start := l.pos
	l.pos++ // opening quote
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos += 2
			continue
		case '\n':
			return "", syntaxError(types.Span{Start: start, End: l.pos}, "unterminated string")
		case '"':
			l.pos++
			s, err := strconv.Unquote(l.src[start:l.pos])
			if err != nil {
				return "", syntaxError(types.Span{Start: start, End: l.pos}, "invalid string literal")
			}
			return s, nil
		}
		l.pos++
	}
	return "", syntaxError(types.Span{Start: start, End: len(l.src)}, "unterminated string")
}

func (l *lexer) lexString() (token, error) {
	start := l.pos
	s, err := l.scanQuoted()
	if err != nil {
		return token{}, err
	}
	tok := l.emit(tokString, start)
	tok.text = s
	return tok, nil
}

// lexQuotedLiteral handles r'...' and t'...'. A backslash escapes a quote.
func (l *lexer) lexQuotedLiteral(prefix byte) (token, error) {
	start := l.pos
	l.pos += 2

	var sb strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\\' && l.peekAt(1) == '\'' {
			sb.WriteByte('\'')
			l.pos += 2
			continue
		}
		if c == '\'' {
			l.pos++
			kind := tokRegex
			if prefix == 't' {
				kind = tokTimestamp
			}
			tok := l.emit(kind, start)
			tok.text = sb.String()
			return tok, nil
		}
		sb.WriteByte(c)
		l.pos++
	}
	return token{}, syntaxError(types.Span{Start: start, End: len(l.src)}, "unterminated %c'' literal", prefix)
}

func (l *lexer) lexNumber() (token, error) {
	start := l.pos
	if l.src[l.pos] == '-' {
		l.pos++
	}
	for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
		l.pos++
	}
	if l.peekAt(0) == '.' && isDigit(l.peekAt(1)) {
		l.pos++
		for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
			l.pos++
		}
		return l.emit(tokFloat, start), nil
	}
	return l.emit(tokInt, start), nil
}

// lexPath scans `.`, `.a`, `."quoted"` and `[n]` segments into one token.
func (l *lexer) lexPath() (token, error) {
	start := l.pos
	var path []types.PathSegment
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '.':
			l.pos++
			switch {
			case l.pos < len(l.src) && l.src[l.pos] == '"':
				key, err := l.scanQuoted()
				if err != nil {
					return token{}, err
				}
				path = append(path, types.PathSegment{Key: key})
			case l.pos < len(l.src) && isIdentPart(l.src[l.pos]):
				segStart := l.pos
				for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
					l.pos++
				}
				path = append(path, types.PathSegment{Key: l.src[segStart:l.pos]})
			case len(path) == 0:
				// bare root
			default:
				return token{}, syntaxError(types.Span{Start: start, End: l.pos}, "expected path segment after '.'")
			}
		case '[':
			segStart := l.pos
			l.pos++
			numStart := l.pos
			if l.peekAt(0) == '-' {
				l.pos++
			}
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
			idx, err := strconv.Atoi(l.src[numStart:l.pos])
			if err != nil || l.peekAt(0) != ']' {
				return token{}, syntaxError(types.Span{Start: segStart, End: l.pos}, "invalid path index")
			}
			l.pos++
			path = append(path, types.PathSegment{Index: idx, IsIndex: true})
		default:
			return l.pathToken(start, path), nil
		}
		if len(path) == 0 {
			// a bare '.' may only be followed by an index
			if l.peekAt(0) != '[' {
				return l.pathToken(start, path), nil
			}
		}
	}
	return l.pathToken(start, path), nil
}

func (l *lexer) pathToken(start int, path []types.PathSegment) token {
	tok := l.emit(tokPath, start)
	tok.path = path
	return tok
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
