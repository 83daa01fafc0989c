package service

import (
	"commentgraft/internal/domain/valueobject"
	"strings"
)

// CommentScanner walks a source text and lexes comment tokens out of trivia
// regions, without help from the syntax tree. One scanner is reused across
// all scans over a tree; callers reposition it with SetFullStartAndPos
// before each pass.
type CommentScanner struct {
	source    string
	fullStart uint32
	pos       uint32
}

// NewCommentScanner creates a scanner over the given source text positioned
// at offset zero.
func NewCommentScanner(source string) *CommentScanner {
	return &CommentScanner{source: source}
}

// SetFullStartAndPos repositions the scanner, resetting both the trivia
// window start and the cursor to pos.
func (s *CommentScanner) SetFullStartAndPos(pos uint32) {
	s.fullStart = pos
	s.pos = pos
}

// SetPos moves the cursor without touching the trivia window start.
func (s *CommentScanner) SetPos(pos uint32) {
	s.pos = pos
}

// Pos returns the current cursor offset.
func (s *CommentScanner) Pos() uint32 {
	return s.pos
}

// ScanForNewLines collects consecutive comment tokens starting at the
// cursor, stopping at the first significant token, at end of source, or at
// the first blank line that follows at least one collected token. Blank
// lines before the first token are skipped. An empty result means the
// cursor reached a significant token or the end of the source without
// seeing a comment.
func (s *CommentScanner) ScanForNewLines() []valueobject.CommentToken {
	return s.scan(true)
}

// ScanUntilToken collects every comment token between the cursor and the
// next significant token, ignoring blank lines.
func (s *CommentScanner) ScanUntilToken() []valueobject.CommentToken {
	return s.scan(false)
}

func (s *CommentScanner) scan(stopAtBlankLine bool) []valueobject.CommentToken {
	var tokens []valueobject.CommentToken
	newLines := 0
	for s.pos < uint32(len(s.source)) {
		ch := s.source[s.pos]
		switch {
		case ch == '\n':
			newLines++
			if stopAtBlankLine && newLines >= 2 && len(tokens) > 0 {
				return tokens
			}
			s.pos++
		case ch == ' ' || ch == '\t' || ch == '\r':
			s.pos++
		case s.atLineComment():
			tokens = append(tokens, s.scanLineComment())
			newLines = 0
		case s.atBlockComment():
			tokens = append(tokens, s.scanBlockComment())
			newLines = 0
		default:
			return tokens
		}
	}
	return tokens
}

// ScanUntilNewLineOrToken advances the cursor past horizontal whitespace
// and line comments on the current line, stopping before a newline, a block
// comment, a significant token, or the end of the source. The trivia window
// start is left untouched so that discarded header comments still count as
// leading trivia of whatever follows.
func (s *CommentScanner) ScanUntilNewLineOrToken() {
	for s.pos < uint32(len(s.source)) {
		ch := s.source[s.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r':
			s.pos++
		case s.atLineComment():
			s.skipLineComment()
		default:
			return
		}
	}
}

func (s *CommentScanner) atLineComment() bool {
	return strings.HasPrefix(s.source[s.pos:], "//")
}

func (s *CommentScanner) atBlockComment() bool {
	return strings.HasPrefix(s.source[s.pos:], "/*")
}

func (s *CommentScanner) scanLineComment() valueobject.CommentToken {
	start := s.pos
	s.skipLineComment()
	token := valueobject.CommentToken{
		Kind:      valueobject.CommentLine,
		FullStart: s.fullStart,
		Pos:       start,
		End:       s.pos,
	}
	s.fullStart = s.pos
	return token
}

func (s *CommentScanner) skipLineComment() {
	for s.pos < uint32(len(s.source)) && s.source[s.pos] != '\n' && s.source[s.pos] != '\r' {
		s.pos++
	}
}

func (s *CommentScanner) scanBlockComment() valueobject.CommentToken {
	start := s.pos
	s.pos += 2
	for s.pos < uint32(len(s.source)) {
		if strings.HasPrefix(s.source[s.pos:], "*/") {
			s.pos += 2
			break
		}
		s.pos++
	}
	kind := valueobject.CommentBlock
	text := s.source[start:s.pos]
	if strings.HasPrefix(text, "/**") && text != "/**/" {
		kind = valueobject.CommentDoc
	}
	token := valueobject.CommentToken{
		Kind:      kind,
		FullStart: s.fullStart,
		Pos:       start,
		End:       s.pos,
	}
	s.fullStart = s.pos
	return token
}
