package valueobject

// SyntaxKind tags the structural role a node plays for comment attachment.
// Nodes whose role the subsystem does not care about carry KindOther; their
// raw grammar type is preserved separately on the node.
type SyntaxKind int

const (
	// KindOther is any node the comment attachment algorithm treats as
	// opaque.
	KindOther SyntaxKind = iota
	// KindSourceFile is the top-level compilation unit.
	KindSourceFile
	// KindBlock is a brace-delimited statement block.
	KindBlock
	// KindCaseClause is a switch case clause (colon-delimited body).
	KindCaseClause
	// KindDefaultClause is a switch default clause (colon-delimited body).
	KindDefaultClause
	// KindClassBody is the brace-delimited member list of a class.
	KindClassBody
	// KindInterfaceBody is the brace-delimited member list of an interface
	// or type literal.
	KindInterfaceBody
	// KindEnumBody is the brace-delimited member list of an enum.
	KindEnumBody
	// KindObjectLiteral is an object literal expression.
	KindObjectLiteral
	// KindSyntaxList is the structural member-list placeholder every
	// container materializes, even when empty.
	KindSyntaxList
	// KindOpenBrace is a "{" token node.
	KindOpenBrace
	// KindCloseBrace is a "}" token node.
	KindCloseBrace
	// KindColon is a ":" token node.
	KindColon
	// KindComma is a "," token node.
	KindComma
	// KindEndOfFile is the synthetic end-of-unit sentinel appended to a
	// source file's children.
	KindEndOfFile
)

// String returns a human-readable name for the kind.
func (k SyntaxKind) String() string {
	switch k {
	case KindOther:
		return "other"
	case KindSourceFile:
		return "source_file"
	case KindBlock:
		return "block"
	case KindCaseClause:
		return "case_clause"
	case KindDefaultClause:
		return "default_clause"
	case KindClassBody:
		return "class_body"
	case KindInterfaceBody:
		return "interface_body"
	case KindEnumBody:
		return "enum_body"
	case KindObjectLiteral:
		return "object_literal"
	case KindSyntaxList:
		return "syntax_list"
	case KindOpenBrace:
		return "open_brace"
	case KindCloseBrace:
		return "close_brace"
	case KindColon:
		return "colon"
	case KindComma:
		return "comma"
	case KindEndOfFile:
		return "end_of_file"
	default:
		return "unknown"
	}
}

// IsContainer reports whether nodes of this kind own an ordered member list
// that comment attachment applies to.
func (k SyntaxKind) IsContainer() bool {
	_, ok := k.CommentListKind()
	return ok
}

// CommentListKind returns the comment-list flavor for pseudo-nodes created
// inside containers of this kind, and false when the kind is not a
// container.
func (k SyntaxKind) CommentListKind() (CommentListKind, bool) {
	switch k {
	case KindSourceFile, KindBlock, KindCaseClause, KindDefaultClause:
		return CommentListStatement, true
	case KindClassBody:
		return CommentListClassElement, true
	case KindInterfaceBody:
		return CommentListTypeElement, true
	case KindEnumBody:
		return CommentListEnumMember, true
	case KindObjectLiteral:
		return CommentListObjectLiteralElement, true
	default:
		return CommentListStatement, false
	}
}

// IsToken reports whether the kind is a punctuation token node rather than a
// construct with children of its own.
func (k SyntaxKind) IsToken() bool {
	switch k {
	case KindOpenBrace, KindCloseBrace, KindColon, KindComma, KindEndOfFile:
		return true
	default:
		return false
	}
}
