package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommentList_AggregatesTokenOffsets(t *testing.T) {
	source := "// one\n// two\nx"
	tokens := []CommentToken{
		{Kind: CommentLine, FullStart: 0, Pos: 0, End: 6},
		{Kind: CommentLine, FullStart: 6, Pos: 7, End: 13},
	}

	list := NewCommentList(CommentListStatement, tokens)

	require.NotNil(t, list)
	assert.Equal(t, uint32(0), list.FullStart)
	assert.Equal(t, uint32(0), list.Pos)
	assert.Equal(t, uint32(13), list.End)
	assert.Equal(t, 2, list.Len())
	assert.Equal(t, "// one\n// two", list.Text(source))
}

func TestNewCommentList_PanicsOnEmptyTokens(t *testing.T) {
	assert.Panics(t, func() {
		NewCommentList(CommentListStatement, nil)
	})
}

func TestCommentToken_IsDocumentation(t *testing.T) {
	doc := CommentToken{Kind: CommentDoc}
	line := CommentToken{Kind: CommentLine}

	assert.True(t, doc.IsDocumentation())
	assert.False(t, line.IsDocumentation())
}

func TestSyntaxKind_CommentListKind(t *testing.T) {
	tests := []struct {
		kind SyntaxKind
		want CommentListKind
	}{
		{kind: KindSourceFile, want: CommentListStatement},
		{kind: KindBlock, want: CommentListStatement},
		{kind: KindCaseClause, want: CommentListStatement},
		{kind: KindDefaultClause, want: CommentListStatement},
		{kind: KindClassBody, want: CommentListClassElement},
		{kind: KindInterfaceBody, want: CommentListTypeElement},
		{kind: KindEnumBody, want: CommentListEnumMember},
		{kind: KindObjectLiteral, want: CommentListObjectLiteralElement},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got, ok := tt.kind.CommentListKind()
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.True(t, tt.kind.IsContainer())
		})
	}

	_, ok := KindOther.CommentListKind()
	assert.False(t, ok)
	assert.False(t, KindOther.IsContainer())
}
