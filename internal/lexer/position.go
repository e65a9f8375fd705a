package lexer

import "github.com/exin-lang/exin/internal/value"

// Position is the first-class value wrapping an exact reader+scanner
// snapshot, exactly as reader_save/reader_jump and scanner_save/scanner_jump
// copy their whole structs by value in position.c. Saving a Position before
// a function call and jumping to it on return — or saving it at the top of
// a loop body and jumping back each iteration — is how control flow works
// in an interpreter with no bytecode and no AST: the "instruction pointer"
// is simply "where the reader and scanner were".
type Position struct {
	refcount int

	module  *Reader // copy of the reader state: which module, which offset
	scanner savedScanner
}

// savedScanner is the part of Scanner's state a struct copy preserves.
type savedScanner struct {
	token       Token
	peeked      *Token
	atBOL       bool
	indentStack []int
}

// Save captures the current reader and scanner state as a new Position
// value with refcount one (reader_save/scanner_save).
func Save(r *Reader, s *Scanner) *Position {
	rcopy := *r
	return &Position{
		refcount: 1,
		module:   &rcopy,
		scanner: savedScanner{
			token:       s.Token,
			peeked:      s.peeked,
			atBOL:       s.atBOL,
			indentStack: s.indentStack,
		},
	}
}

// Jump restores r and s to exactly the state captured in p (reader_jump/
// scanner_jump).
func (p *Position) Jump(r *Reader, s *Scanner) {
	*r = *p.module
	s.Token = p.scanner.token
	s.peeked = p.scanner.peeked
	s.atBOL = p.scanner.atBOL
	s.indentStack = p.scanner.indentStack
}

func (p *Position) Kind() value.Kind { return value.KindPosition }
func (p *Position) Refcount() int    { return p.refcount }
func (p *Position) String() string   { return "<position>" }

func (p *Position) IncRef() { p.refcount++ }
func (p *Position) DecRef() bool {
	p.refcount--
	return p.refcount <= 0
}
