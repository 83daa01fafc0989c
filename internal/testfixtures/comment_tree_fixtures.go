package testfixtures

import (
	"commentgraft/internal/domain/entity"
	"commentgraft/internal/domain/valueobject"
	"context"
	"strings"
)

// SourceFileTree builds a syntax tree for a whole source text whose
// top-level members are located by searching for the given literal
// snippets in order. Each snippet must occur in the source after the end
// of the previous one.
func SourceFileTree(source string, members ...string) (*entity.SyntaxTree, entity.NodeID) {
	b := entity.NewTreeBuilder(source)
	sourceLen := uint32(len(source))

	root := b.AddNode(entity.NilNode, valueobject.KindSourceFile, "program", 0, 0, sourceLen)

	listStart, listEnd := memberSpan(source, members, 0)
	list := b.AddNode(root, valueobject.KindSyntaxList, "", 0, listStart, listEnd)

	addMembers(b, list, source, members, 0, "statement")

	b.AddNode(root, valueobject.KindEndOfFile, "", listEnd, sourceLen, sourceLen)

	tree, err := b.Build(context.Background())
	if err != nil {
		panic("Failed to build source file fixture: " + err.Error())
	}
	return tree, root
}

// BraceContainerTree builds a syntax tree whose root is a brace-delimited
// container spanning the first '{' through the last '}' of the source.
// Members are located by literal search between the braces.
func BraceContainerTree(
	source string,
	kind valueobject.SyntaxKind,
	rawType string,
	members ...string,
) (*entity.SyntaxTree, entity.NodeID) {
	openIdx := strings.IndexByte(source, '{')
	closeIdx := strings.LastIndexByte(source, '}')
	if openIdx < 0 || closeIdx < openIdx {
		panic("Brace container fixture requires a brace-delimited source")
	}
	open := uint32(openIdx)
	closing := uint32(closeIdx)

	b := entity.NewTreeBuilder(source)
	root := b.AddNode(entity.NilNode, kind, rawType, open, open, closing+1)
	b.AddNode(root, valueobject.KindOpenBrace, "{", open, open, open+1)

	listStart, listEnd := memberSpan(source, members, open+1)
	list := b.AddNode(root, valueobject.KindSyntaxList, "", open+1, listStart, listEnd)
	addMembers(b, list, source, members, open+1, "member")

	b.AddNode(root, valueobject.KindCloseBrace, "}", listEnd, closing, closing+1)

	tree, err := b.Build(context.Background())
	if err != nil {
		panic("Failed to build brace container fixture: " + err.Error())
	}
	return tree, root
}

// CaseClauseTree builds a syntax tree whose root is a case or default
// clause. The clause body starts after the first ':' of the source.
func CaseClauseTree(
	source string,
	kind valueobject.SyntaxKind,
	members ...string,
) (*entity.SyntaxTree, entity.NodeID) {
	colonIdx := strings.IndexByte(source, ':')
	if colonIdx < 0 {
		panic("Case clause fixture requires a ':' in the source")
	}
	colon := uint32(colonIdx)
	sourceLen := uint32(len(source))

	b := entity.NewTreeBuilder(source)
	root := b.AddNode(entity.NilNode, kind, "switch_case", 0, 0, sourceLen)
	b.AddNode(root, valueobject.KindColon, ":", colon, colon, colon+1)

	listStart, listEnd := memberSpan(source, members, colon+1)
	list := b.AddNode(root, valueobject.KindSyntaxList, "", colon+1, listStart, listEnd)
	addMembers(b, list, source, members, colon+1, "statement")

	tree, err := b.Build(context.Background())
	if err != nil {
		panic("Failed to build case clause fixture: " + err.Error())
	}
	return tree, root
}

func memberSpan(source string, members []string, searchFrom uint32) (uint32, uint32) {
	if len(members) == 0 {
		return searchFrom, searchFrom
	}
	first := locate(source, members[0], searchFrom)
	cursor := first + uint32(len(members[0]))
	for _, m := range members[1:] {
		cursor = locate(source, m, cursor) + uint32(len(m))
	}
	return first, cursor
}

func addMembers(
	b *entity.TreeBuilder,
	list entity.NodeID,
	source string,
	members []string,
	bodyStart uint32,
	rawType string,
) {
	prevEnd := bodyStart
	searchFrom := bodyStart
	for _, m := range members {
		start := locate(source, m, searchFrom)
		end := start + uint32(len(m))
		b.AddNode(list, valueobject.KindOther, rawType, prevEnd, start, end)
		prevEnd = end
		searchFrom = end
	}
}

func locate(source, snippet string, from uint32) uint32 {
	idx := strings.Index(source[from:], snippet)
	if idx < 0 {
		panic("Fixture snippet not found in source: " + snippet)
	}
	return from + uint32(idx)
}
