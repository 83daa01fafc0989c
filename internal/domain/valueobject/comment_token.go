package valueobject

// CommentKind classifies a comment token recognized by the comment scanner.
type CommentKind int

const (
	// CommentLine is a single-line comment ("// ...").
	CommentLine CommentKind = iota
	// CommentBlock is a multi-line comment ("/* ... */").
	CommentBlock
	// CommentDoc is a documentation comment ("/** ... */"). The empty form
	// "/**/" is classified as CommentBlock, not CommentDoc.
	CommentDoc
)

// String returns a human-readable name for the comment kind.
func (k CommentKind) String() string {
	switch k {
	case CommentLine:
		return "line"
	case CommentBlock:
		return "block"
	case CommentDoc:
		return "doc"
	default:
		return "unknown"
	}
}

// CommentToken is a single comment found in source text. FullStart is the
// offset where the token's preceding trivia begins, Pos is the offset of the
// comment text itself and End is the exclusive end offset. Tokens are
// produced by the comment scanner and never mutated.
type CommentToken struct {
	Kind      CommentKind
	FullStart uint32
	Pos       uint32
	End       uint32
}

// Text returns the comment's text, including its delimiters.
func (t CommentToken) Text(source string) string {
	if int(t.End) > len(source) || t.Pos > t.End {
		return ""
	}
	return source[t.Pos:t.End]
}

// IsDocumentation reports whether the token is a documentation comment.
func (t CommentToken) IsDocumentation() bool {
	return t.Kind == CommentDoc
}

// Width returns the number of bytes the comment text spans.
func (t CommentToken) Width() uint32 {
	if t.End < t.Pos {
		return 0
	}
	return t.End - t.Pos
}
