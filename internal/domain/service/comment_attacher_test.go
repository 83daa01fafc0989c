package service

import (
	"commentgraft/internal/domain/entity"
	"commentgraft/internal/domain/valueobject"
	"commentgraft/internal/testfixtures"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commentListAt(t *testing.T, elements []Element, index int) *valueobject.CommentList {
	t.Helper()
	require.Greater(t, len(elements), index)
	cle, ok := elements[index].(CommentListElement)
	require.True(t, ok, "element %d is not a comment list", index)
	return cle.List
}

func nodeAt(t *testing.T, elements []Element, index int) entity.NodeID {
	t.Helper()
	require.Greater(t, len(elements), index)
	ne, ok := elements[index].(NodeElement)
	require.True(t, ok, "element %d is not a node", index)
	return ne.ID
}

func TestChildren_InterleavesCommentListsBetweenStatements(t *testing.T) {
	source := "let a = 1;\n// one\n// two\n\n// three\nlet b = 2;\n"
	tree, root := testfixtures.SourceFileTree(source, "let a = 1;", "let b = 2;")
	attacher := NewCommentAttacher(tree)

	elements := attacher.Children(context.Background(), root)

	require.Len(t, elements, 4)
	a := nodeAt(t, elements, 0)
	assert.Equal(t, "let a = 1;", tree.NodeText(a))

	first := commentListAt(t, elements, 1)
	assert.Equal(t, valueobject.CommentListStatement, first.ListKind)
	assert.Equal(t, "// one\n// two", first.Text(source))
	assert.Equal(t, uint32(10), first.FullStart)
	assert.Equal(t, uint32(11), first.Pos)
	assert.Equal(t, uint32(24), first.End)

	second := commentListAt(t, elements, 2)
	assert.Equal(t, "// three", second.Text(source))
	assert.Equal(t, uint32(24), second.FullStart)

	b := nodeAt(t, elements, 3)
	assert.Equal(t, "let b = 2;", tree.NodeText(b))
}

func TestChildren_IsMemoizedWithIdenticalPseudoNodes(t *testing.T) {
	source := "let a = 1;\n// note\nlet b = 2;\n"
	tree, root := testfixtures.SourceFileTree(source, "let a = 1;", "let b = 2;")
	attacher := NewCommentAttacher(tree)
	ctx := context.Background()

	first := attacher.Children(ctx, root)
	second := attacher.Children(ctx, root)

	require.Len(t, second, len(first))
	assert.Same(t, commentListAt(t, first, 1), commentListAt(t, second, 1))
}

func TestChildren_DropsDocCommentLeadingAMember(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{name: "doc alone", source: "let a = 1;\n/** doc */\nlet b = 2;\n"},
		{name: "doc with companions", source: "let a = 1;\n// lead\n/** doc */\nlet b = 2;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, root := testfixtures.SourceFileTree(tt.source, "let a = 1;", "let b = 2;")
			attacher := NewCommentAttacher(tree)

			elements := attacher.Children(context.Background(), root)

			require.Len(t, elements, 2)
			assert.IsType(t, NodeElement{}, elements[0])
			assert.IsType(t, NodeElement{}, elements[1])
		})
	}
}

func TestChildren_KeepsGroupsBeforeADocGroup(t *testing.T) {
	source := "let a = 1;\n// kept\n\n/** doc */\nlet b = 2;\n"
	tree, root := testfixtures.SourceFileTree(source, "let a = 1;", "let b = 2;")
	attacher := NewCommentAttacher(tree)

	elements := attacher.Children(context.Background(), root)

	require.Len(t, elements, 3)
	assert.Equal(t, "// kept", commentListAt(t, elements, 1).Text(source))
}

func TestChildren_KeepsTrailingDocComment(t *testing.T) {
	source := "let a = 1;\n/** orphan */\n"
	tree, root := testfixtures.SourceFileTree(source, "let a = 1;")
	attacher := NewCommentAttacher(tree)

	elements := attacher.Children(context.Background(), root)

	require.Len(t, elements, 2)
	list := commentListAt(t, elements, 1)
	require.Equal(t, 1, list.Len())
	assert.Equal(t, valueobject.CommentDoc, list.Comments[0].Kind)
}

func TestChildren_SkipsHeaderLineComment(t *testing.T) {
	source := "{ // header\n  doStuff();\n}"
	tree, root := testfixtures.BraceContainerTree(source, valueobject.KindBlock, "statement_block", "doStuff();")
	attacher := NewCommentAttacher(tree)

	elements := attacher.Children(context.Background(), root)

	require.Len(t, elements, 1)
	assert.IsType(t, NodeElement{}, elements[0])
}

func TestChildren_DropsCommentSharingLineWithNextMember(t *testing.T) {
	source := "{ /* inline */ stmt(); }"
	tree, root := testfixtures.BraceContainerTree(source, valueobject.KindBlock, "statement_block", "stmt();")
	attacher := NewCommentAttacher(tree)

	elements := attacher.Children(context.Background(), root)

	require.Len(t, elements, 1)
	assert.IsType(t, NodeElement{}, elements[0])
}

func TestChildren_BlockCommentAfterOpeningBraceOnOwnLine(t *testing.T) {
	source := "{ /* kept */\n stmt(); }"
	tree, root := testfixtures.BraceContainerTree(source, valueobject.KindBlock, "statement_block", "stmt();")
	attacher := NewCommentAttacher(tree)

	elements := attacher.Children(context.Background(), root)

	require.Len(t, elements, 2)
	assert.Equal(t, "/* kept */", commentListAt(t, elements, 0).Text(source))
}

func TestChildren_SkipsTrailingCommaAndItsComment(t *testing.T) {
	source := "enum E {\n  A, // first\n  B\n}"
	tree, root := testfixtures.BraceContainerTree(source, valueobject.KindEnumBody, "enum_body", "A", "B")
	attacher := NewCommentAttacher(tree)

	elements := attacher.Children(context.Background(), root)

	require.Len(t, elements, 2)
	assert.IsType(t, NodeElement{}, elements[0])
	assert.IsType(t, NodeElement{}, elements[1])
}

func TestChildren_EnumMemberListKind(t *testing.T) {
	source := "enum E {\n  A,\n  // between\n  B\n}"
	tree, root := testfixtures.BraceContainerTree(source, valueobject.KindEnumBody, "enum_body", "A", "B")
	attacher := NewCommentAttacher(tree)

	elements := attacher.Children(context.Background(), root)

	require.Len(t, elements, 3)
	list := commentListAt(t, elements, 1)
	assert.Equal(t, valueobject.CommentListEnumMember, list.ListKind)
	assert.Equal(t, "// between", list.Text(source))
}

func TestChildren_ClassBodyListKind(t *testing.T) {
	source := "class C {\n  // note\n\n  m() {}\n}"
	tree, root := testfixtures.BraceContainerTree(source, valueobject.KindClassBody, "class_body", "m() {}")
	attacher := NewCommentAttacher(tree)

	elements := attacher.Children(context.Background(), root)

	require.Len(t, elements, 2)
	assert.Equal(t, valueobject.CommentListClassElement, commentListAt(t, elements, 0).ListKind)
}

func TestChildren_EmptyContainerKeepsLoneComment(t *testing.T) {
	source := "o = { /* only */ };"
	tree, root := testfixtures.BraceContainerTree(source, valueobject.KindObjectLiteral, "object")
	attacher := NewCommentAttacher(tree)

	elements := attacher.Children(context.Background(), root)

	require.Len(t, elements, 1)
	list := commentListAt(t, elements, 0)
	assert.Equal(t, valueobject.CommentListObjectLiteralElement, list.ListKind)
	assert.Equal(t, "/* only */", list.Text(source))
}

func TestChildren_EmptyContainerWithoutComments(t *testing.T) {
	source := "o = {};"
	tree, root := testfixtures.BraceContainerTree(source, valueobject.KindObjectLiteral, "object")
	attacher := NewCommentAttacher(tree)

	assert.Empty(t, attacher.Children(context.Background(), root))
}

func TestChildren_CommentOnlySourceFile(t *testing.T) {
	source := "// top\n\n// bottom\n"
	tree, root := testfixtures.SourceFileTree(source)
	attacher := NewCommentAttacher(tree)

	elements := attacher.Children(context.Background(), root)

	require.Len(t, elements, 2)
	assert.Equal(t, "// top", commentListAt(t, elements, 0).Text(source))
	assert.Equal(t, "// bottom", commentListAt(t, elements, 1).Text(source))
}

func TestChildren_EmptySourceFile(t *testing.T) {
	tree, root := testfixtures.SourceFileTree("")
	attacher := NewCommentAttacher(tree)

	assert.Empty(t, attacher.Children(context.Background(), root))
}

func TestChildren_PanicsOnNonContainer(t *testing.T) {
	b := entity.NewTreeBuilder("x")
	root := b.AddNode(entity.NilNode, valueobject.KindOther, "identifier", 0, 0, 1)
	tree, err := b.Build(context.Background())
	require.NoError(t, err)
	attacher := NewCommentAttacher(tree)

	assert.Panics(t, func() {
		attacher.Children(context.Background(), root)
	})
}

func TestTokens_MemberListSharesContainerView(t *testing.T) {
	source := "let a = 1;\n// note\nlet b = 2;\n"
	tree, root := testfixtures.SourceFileTree(source, "let a = 1;", "let b = 2;")
	attacher := NewCommentAttacher(tree)
	ctx := context.Background()

	list := tree.FirstChildOfKind(root, valueobject.KindSyntaxList)
	require.NotEqual(t, entity.NilNode, list)

	viaList := attacher.Tokens(ctx, list)
	viaContainer := attacher.Children(ctx, root)

	require.Len(t, viaList, len(viaContainer))
	assert.Same(t, commentListAt(t, viaList, 1), commentListAt(t, viaContainer, 1))
}

func TestChildren_MemberListRedirectsToOwningContainer(t *testing.T) {
	source := "let a = 1;\n// note\nlet b = 2;\n"
	tree, root := testfixtures.SourceFileTree(source, "let a = 1;", "let b = 2;")
	attacher := NewCommentAttacher(tree)
	ctx := context.Background()

	list := tree.FirstChildOfKind(root, valueobject.KindSyntaxList)
	require.NotEqual(t, entity.NilNode, list)

	var viaList []Element
	require.NotPanics(t, func() {
		viaList = attacher.Children(ctx, list)
	})
	viaContainer := attacher.Children(ctx, root)

	require.Len(t, viaList, len(viaContainer))
	assert.Same(t, commentListAt(t, viaList, 1), commentListAt(t, viaContainer, 1))
}

func TestChildren_SpansAreOrderedAndAccountForBody(t *testing.T) {
	source := "class C { // header\n  a = 1;\n  // one\n  // two\n\n  /* three */\n  b = 2;\n\n  // tail\n}"
	tree, root := testfixtures.BraceContainerTree(source, valueobject.KindClassBody, "class_body", "a = 1;", "b = 2;")
	attacher := NewCommentAttacher(tree)

	elements := attacher.Children(context.Background(), root)
	require.Len(t, elements, 5)

	span := func(e Element) (uint32, uint32) {
		switch el := e.(type) {
		case NodeElement:
			node := tree.Node(el.ID)
			return node.Start, node.End
		case CommentListElement:
			return el.List.Pos, el.List.End
		default:
			t.Fatalf("unexpected element type %T", e)
			return 0, 0
		}
	}

	isWhitespace := func(s string) bool {
		for i := 0; i < len(s); i++ {
			switch s[i] {
			case ' ', '\t', '\r', '\n':
			default:
				return false
			}
		}
		return true
	}

	bodyStart := attacher.ContainerBodyStart(root)
	closeBrace := uint32(strings.LastIndexByte(source, '}'))

	// The comment on the opening-brace line is the skipped header; it is the
	// only body text before the first element.
	firstPos, _ := span(elements[0])
	assert.Equal(t, "// header", strings.TrimSpace(source[bodyStart:firstPos]))

	prevPos, prevEnd := span(elements[0])
	for i := 1; i < len(elements); i++ {
		pos, end := span(elements[i])
		assert.Greater(t, pos, prevPos, "element %d must start after element %d", i, i-1)
		assert.GreaterOrEqual(t, pos, prevEnd, "element %d overlaps element %d", i, i-1)
		assert.True(t, isWhitespace(source[prevEnd:pos]),
			"gap between elements %d and %d holds unaccounted text %q", i-1, i, source[prevEnd:pos])
		prevPos, prevEnd = pos, end
	}

	_, lastEnd := span(elements[len(elements)-1])
	assert.True(t, isWhitespace(source[lastEnd:closeBrace]),
		"trailing body text %q is unaccounted for", source[lastEnd:closeBrace])
}

func TestTokens_FallbackScansGapsBetweenChildren(t *testing.T) {
	source := "x = 1 // end\ny = 2"
	b := entity.NewTreeBuilder(source)
	root := b.AddNode(entity.NilNode, valueobject.KindOther, "expression", 0, 0, uint32(len(source)))
	b.AddNode(root, valueobject.KindOther, "assignment", 0, 0, 5)
	b.AddNode(root, valueobject.KindOther, "assignment", 5, 13, 18)
	tree, err := b.Build(context.Background())
	require.NoError(t, err)
	attacher := NewCommentAttacher(tree)

	elements := attacher.Tokens(context.Background(), root)

	require.Len(t, elements, 3)
	assert.IsType(t, NodeElement{}, elements[0])
	list := commentListAt(t, elements, 1)
	assert.Equal(t, valueobject.CommentListStatement, list.ListKind)
	assert.Equal(t, "// end", list.Text(source))
	assert.IsType(t, NodeElement{}, elements[2])
}

func TestTokens_FallbackLeavesAttachedDocAlone(t *testing.T) {
	source := "x = 1\n/** doc */\ny = 2"
	b := entity.NewTreeBuilder(source)
	root := b.AddNode(entity.NilNode, valueobject.KindOther, "expression", 0, 0, uint32(len(source)))
	b.AddNode(root, valueobject.KindOther, "assignment", 0, 0, 5)
	second := b.AddNode(root, valueobject.KindOther, "assignment", 5, 17, 22)
	b.AttachDoc(second, valueobject.CommentToken{
		Kind:      valueobject.CommentDoc,
		FullStart: 5,
		Pos:       6,
		End:       16,
	})
	tree, err := b.Build(context.Background())
	require.NoError(t, err)
	attacher := NewCommentAttacher(tree)

	elements := attacher.Tokens(context.Background(), root)

	require.Len(t, elements, 2)
	assert.IsType(t, NodeElement{}, elements[0])
	assert.IsType(t, NodeElement{}, elements[1])
}

func TestIsOwnerResolvable(t *testing.T) {
	source := "let a = 1;\n"
	tree, root := testfixtures.SourceFileTree(source, "let a = 1;")
	attacher := NewCommentAttacher(tree)
	ctx := context.Background()

	list := tree.FirstChildOfKind(root, valueobject.KindSyntaxList)

	assert.False(t, attacher.IsOwnerResolvable(root))
	assert.False(t, attacher.IsOwnerResolvable(list))

	attacher.Children(ctx, root)

	assert.True(t, attacher.IsOwnerResolvable(root))
	assert.True(t, attacher.IsOwnerResolvable(list))
}

func TestContainerBodyStart(t *testing.T) {
	t.Run("source file starts at zero", func(t *testing.T) {
		tree, root := testfixtures.SourceFileTree("let a = 1;", "let a = 1;")
		attacher := NewCommentAttacher(tree)
		assert.Equal(t, uint32(0), attacher.ContainerBodyStart(root))
	})

	t.Run("block starts after the opening brace", func(t *testing.T) {
		tree, root := testfixtures.BraceContainerTree("{ x(); }", valueobject.KindBlock, "statement_block", "x();")
		attacher := NewCommentAttacher(tree)
		assert.Equal(t, uint32(1), attacher.ContainerBodyStart(root))
	})

	t.Run("enum body starts after the opening brace", func(t *testing.T) {
		tree, root := testfixtures.BraceContainerTree("enum E { A }", valueobject.KindEnumBody, "enum_body", "A")
		attacher := NewCommentAttacher(tree)
		assert.Equal(t, uint32(8), attacher.ContainerBodyStart(root))
	})

	t.Run("case clause starts after the colon", func(t *testing.T) {
		tree, root := testfixtures.CaseClauseTree("case 1: x();", valueobject.KindCaseClause, "x();")
		attacher := NewCommentAttacher(tree)
		assert.Equal(t, uint32(7), attacher.ContainerBodyStart(root))
	})
}

func TestChildren_CaseClauseComments(t *testing.T) {
	source := "case 1:\n  // note\n  x();\n"
	tree, root := testfixtures.CaseClauseTree(source, valueobject.KindCaseClause, "x();")
	attacher := NewCommentAttacher(tree)

	elements := attacher.Children(context.Background(), root)

	require.Len(t, elements, 2)
	list := commentListAt(t, elements, 0)
	assert.Equal(t, valueobject.CommentListStatement, list.ListKind)
	assert.Equal(t, "// note", list.Text(source))
}
