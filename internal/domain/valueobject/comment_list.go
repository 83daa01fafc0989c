package valueobject

import "fmt"

// CommentListKind identifies the flavor of member list that owns a comment
// list pseudo-node. It is determined solely by the kind of the owning
// container.
type CommentListKind int

const (
	// CommentListStatement tags comment lists inside statement containers
	// (source files, blocks, case and default clauses).
	CommentListStatement CommentListKind = iota
	// CommentListClassElement tags comment lists inside class bodies.
	CommentListClassElement
	// CommentListTypeElement tags comment lists inside interface bodies and
	// type literals.
	CommentListTypeElement
	// CommentListObjectLiteralElement tags comment lists inside object
	// literals.
	CommentListObjectLiteralElement
	// CommentListEnumMember tags comment lists inside enum bodies.
	CommentListEnumMember
)

// String returns a human-readable name for the list kind.
func (k CommentListKind) String() string {
	switch k {
	case CommentListStatement:
		return "statement"
	case CommentListClassElement:
		return "class_element"
	case CommentListTypeElement:
		return "type_element"
	case CommentListObjectLiteralElement:
		return "object_literal_element"
	case CommentListEnumMember:
		return "enum_member"
	default:
		return "unknown"
	}
}

// CommentList is a synthetic pseudo-node wrapping one contiguous group of
// comment tokens separated from neighboring groups by at least one blank
// line. It is owned exclusively by the computed child sequence it appears in
// and is never shared across containers.
type CommentList struct {
	ListKind  CommentListKind
	FullStart uint32
	Pos       uint32
	End       uint32
	Comments  []CommentToken
}

// NewCommentList constructs a comment list spanning the given tokens. The
// list's FullStart and Pos come from the first token and its End from the
// last. Constructing an empty list is a programming error.
func NewCommentList(kind CommentListKind, tokens []CommentToken) *CommentList {
	if len(tokens) == 0 {
		panic(fmt.Sprintf("commentgraft: refusing to build an empty %s comment list", kind))
	}
	return &CommentList{
		ListKind:  kind,
		FullStart: tokens[0].FullStart,
		Pos:       tokens[0].Pos,
		End:       tokens[len(tokens)-1].End,
		Comments:  tokens,
	}
}

// Text returns the source text spanned by the list, from the first token's
// start to the last token's end.
func (l *CommentList) Text(source string) string {
	if int(l.End) > len(source) || l.Pos > l.End {
		return ""
	}
	return source[l.Pos:l.End]
}

// Len returns the number of member comment tokens.
func (l *CommentList) Len() int {
	return len(l.Comments)
}
