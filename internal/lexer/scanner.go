package lexer

import (
	"strings"

	"github.com/exin-lang/exin/internal/config"
	"github.com/exin-lang/exin/internal/errors"
)

// Scanner turns a Reader's character stream into tokens, tracking
// indentation the way scanner.c does: a stack of column numbers, one INDENT
// emitted per increase and one DEDENT per decrease. A DEDENT that does not
// land back on a previously seen column is followed by a rescan of the same
// line, which then emits an INDENT to the new column.
//
// The indentation stack lives on the Scanner rather than being threaded
// through the identifier scope the way identifier.c's Scope.indentation
// does — PushIndent/PopIndent are called explicitly by the evaluator at
// function-call boundaries (§4.6), giving the same "each function body
// re-derives its indentation from column zero" behavior without coupling
// the lexer package to the scope package.
type Scanner struct {
	R      *Reader
	TabSize int

	Token  Token
	peeked *Token
	atBOL  bool

	indentStack []int
}

// NewScanner creates a scanner positioned at the start of r, with
// indentation tracked at column zero.
func NewScanner(r *Reader, cfg config.Config) *Scanner {
	return &Scanner{
		R:           r,
		TabSize:     cfg.TabSize,
		atBOL:       true,
		indentStack: []int{0},
	}
}

// PushIndent opens a fresh indentation context, called when the evaluator
// enters a function body (append_level in identifier.c).
func (s *Scanner) PushIndent() []int {
	saved := s.indentStack
	s.indentStack = []int{0}
	return saved
}

// PopIndent restores a previously saved indentation context, called when
// the evaluator returns from a function body (remove_level).
func (s *Scanner) PopIndent(saved []int) {
	s.indentStack = saved
}

// Reset clears look-ahead and restarts indentation tracking at column zero,
// paired with Reader.Reset when import() switches to a freshly loaded
// module.
func (s *Scanner) Reset() {
	s.peeked = nil
	s.atBOL = true
	s.indentStack = []int{0}
}

func isSpace(ch int) bool  { return ch == ' ' }
func isTab(ch int) bool    { return ch == '\t' }
func isDigit(ch int) bool  { return ch >= '0' && ch <= '9' }
func isAlpha(ch int) bool  { return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') }
func isAlnum(ch int) bool  { return isAlpha(ch) || isDigit(ch) || ch == '_' }

// Next reads and returns the next token, consuming a peeked token if one is
// pending (next_token in scanner.c).
func (s *Scanner) Next() (Token, error) {
	if s.peeked != nil {
		t := *s.peeked
		s.peeked = nil
		s.Token = t
		return t, nil
	}
	t, err := s.readNextToken()
	if err != nil {
		return Token{}, err
	}
	s.Token = t
	return t, nil
}

// Peek looks one token ahead without consuming it (peek_token in scanner.c).
func (s *Scanner) Peek() (Token, error) {
	if s.peeked == nil {
		t, err := s.readNextToken()
		if err != nil {
			return Token{}, err
		}
		s.peeked = &t
	}
	return *s.peeked, nil
}

func (s *Scanner) readNextToken() (Token, error) {
	line := s.R.Line()

	for s.atBOL {
		s.atBOL = false
		col := 0

		var ch int
		for {
			ch = s.R.nextch()
			if ch == ' ' {
				col++
			} else if ch == '\t' {
				col = (col/s.TabSize + 1) * s.TabSize
			} else {
				break
			}
		}

		if ch == '#' {
			for ch != '\n' && ch != eof {
				ch = s.R.nextch()
			}
		}

		top := len(s.indentStack) - 1
		switch {
		case ch == '\n':
			s.atBOL = true
			continue
		case ch == eof:
			col = 0
			if col == s.indentStack[top] {
				return Token{Type: EndMarker, Line: line}, nil
			}
		default:
			s.R.pushch(ch)
		}

		switch {
		case col == s.indentStack[top]:
			// indentation unchanged, fall through to ordinary token scan
		case col > s.indentStack[top]:
			if len(s.indentStack) >= 132 {
				return Token{}, errors.New(errors.SyntaxError, "max indentation level reached")
			}
			s.indentStack = append(s.indentStack, col)
			return Token{Type: Indent, Line: line}, nil
		default:
			s.indentStack = s.indentStack[:top]
			if len(s.indentStack) == 0 {
				return Token{}, errors.New(errors.SyntaxError, "inconsistent use of TAB and space in indentation")
			}
			if col != s.indentStack[len(s.indentStack)-1] {
				s.atBOL = true
				s.R.toBOL()
			}
			return Token{Type: Dedent, Line: line}, nil
		}
		break
	}

	var ch int
	for {
		ch = s.R.nextch()
		if ch != ' ' && ch != '\t' {
			break
		}
	}

	if ch == '#' {
		for ch != '\n' && ch != eof {
			ch = s.R.nextch()
		}
	}

	if ch == '\n' {
		s.atBOL = true
		return Token{Type: Newline, Line: line}, nil
	}
	if ch == eof {
		return Token{Type: EndMarker, Line: line}, nil
	}

	if isDigit(ch) {
		s.R.pushch(ch)
		return s.readNumber(line)
	}
	if isAlpha(ch) {
		s.R.pushch(ch)
		return s.readIdentifier(line)
	}

	switch ch {
	case '\'':
		return s.readCharLiteral(line)
	case '"':
		return s.readStringLiteral(line)
	case '(':
		return Token{Type: LPar, Line: line}, nil
	case ')':
		return Token{Type: RPar, Line: line}, nil
	case '[':
		return Token{Type: LSqb, Line: line}, nil
	case ']':
		return Token{Type: RSqb, Line: line}, nil
	case ',':
		return Token{Type: Comma, Line: line}, nil
	case '.':
		return Token{Type: Dot, Line: line}, nil
	case ':':
		return Token{Type: Colon, Line: line}, nil
	case '*':
		return s.maybeEqual(line, '=', StarEqual, Star)
	case '%':
		return s.maybeEqual(line, '=', PercentEqual, Percent)
	case '+':
		return s.maybeEqual(line, '=', PlusEqual, Plus)
	case '-':
		return s.maybeEqual(line, '=', MinusEqual, Minus)
	case '/':
		return s.maybeEqual(line, '=', SlashEqual, Slash)
	case '!':
		return s.maybeEqual(line, '=', NotEqual, Not)
	case '=':
		return s.maybeEqual(line, '=', EqEqual, Equal)
	case '<':
		if s.R.peekch() == '=' {
			s.R.nextch()
			return Token{Type: LessEqual, Line: line}, nil
		}
		if s.R.peekch() == '>' {
			s.R.nextch()
			return Token{Type: NotEqual, Line: line}, nil
		}
		return Token{Type: Less, Line: line}, nil
	case '>':
		return s.maybeEqual(line, '=', GreaterEqual, Greater)
	default:
		return Token{Type: Unknown, Line: line}, nil
	}
}

func (s *Scanner) maybeEqual(line int, next byte, withEq, without TokenType) (Token, error) {
	if s.R.peekch() == int(next) {
		s.R.nextch()
		return Token{Type: withEq, Line: line}, nil
	}
	return Token{Type: without, Line: line}, nil
}

func (s *Scanner) readNumber(line int) (Token, error) {
	var b strings.Builder
	dot, exp := 0, false

	for {
		ch := s.R.nextch()
		if ch != eof && (isDigit(ch) || ch == '.') {
			if ch == '.' {
				dot++
				if dot > 1 {
					return Token{}, errors.New(errors.ValueError, "multiple decimal points")
				}
			}
			b.WriteByte(byte(ch))
			continue
		}
		if ch == 'e' || ch == 'E' {
			exp = true
			b.WriteByte(byte(ch))
			ch = s.R.nextch()
			if ch == '-' || ch == '+' {
				b.WriteByte(byte(ch))
				ch = s.R.nextch()
			}
			if !isDigit(ch) {
				return Token{}, errors.New(errors.ValueError, "missing exponent")
			}
			for ch != eof && isDigit(ch) {
				b.WriteByte(byte(ch))
				ch = s.R.nextch()
			}
		}
		s.R.pushch(ch)
		break
	}

	typ := Int
	if dot == 1 || exp {
		typ = Float
	}
	return Token{Type: typ, Text: b.String(), Line: line}, nil
}

func (s *Scanner) readIdentifier(line int) (Token, error) {
	var b strings.Builder
	for {
		ch := s.R.nextch()
		if ch != eof && isAlnum(ch) {
			b.WriteByte(byte(ch))
			continue
		}
		s.R.pushch(ch)
		break
	}
	name := b.String()
	if kw, ok := keywords[name]; ok {
		return Token{Type: kw, Line: line}, nil
	}
	return Token{Type: Ident, Text: name, Line: line}, nil
}

func unescape(ch int, r *Reader) (byte, error) {
	switch ch {
	case '0':
		return 0, nil
	case 'a':
		return '\a', nil
	case 'b':
		return '\b', nil
	case 't':
		return '\t', nil
	case 'n':
		return '\n', nil
	case 'v':
		return '\v', nil
	case 'f':
		return '\f', nil
	case 'r':
		return '\r', nil
	case '"':
		return '"', nil
	case '\'':
		return '\'', nil
	case '\\':
		return '\\', nil
	default:
		return 0, errors.New(errors.SyntaxError, "unknown escape sequence: %c", ch)
	}
}

func (s *Scanner) readStringLiteral(line int) (Token, error) {
	var b strings.Builder
	for {
		ch := s.R.nextch()
		if ch == eof || ch == '"' {
			break
		}
		if ch == '\\' {
			peeked := s.R.peekch()
			esc, err := unescape(peeked, s.R)
			if err == nil {
				s.R.nextch()
				b.WriteByte(esc)
				continue
			}
		}
		b.WriteByte(byte(ch))
	}
	return Token{Type: Str, Text: b.String(), Line: line}, nil
}

func (s *Scanner) readCharLiteral(line int) (Token, error) {
	ch := s.R.nextch()
	var c byte
	if ch == '\\' {
		escch := s.R.nextch()
		esc, err := unescape(escch, s.R)
		if err != nil {
			return Token{}, err
		}
		c = esc
	} else if ch == '\'' || ch == eof {
		return Token{}, errors.New(errors.SyntaxError, "empty character constant")
	} else {
		c = byte(ch)
	}
	if s.R.nextch() != '\'' {
		return Token{}, errors.New(errors.SyntaxError, "too many characters in character constant")
	}
	return Token{Type: Char, Text: string(c), Line: line}, nil
}
