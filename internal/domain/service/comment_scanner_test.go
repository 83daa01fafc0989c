package service

import (
	"commentgraft/internal/domain/valueobject"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanForNewLines_StopsAtSignificantToken(t *testing.T) {
	sc := NewCommentScanner("// one\n// two\nlet a = 1;")
	sc.SetFullStartAndPos(0)

	tokens := sc.ScanForNewLines()

	require.Len(t, tokens, 2)
	assert.Equal(t, valueobject.CommentLine, tokens[0].Kind)
	assert.Equal(t, uint32(0), tokens[0].Pos)
	assert.Equal(t, uint32(6), tokens[0].End)
	assert.Equal(t, uint32(7), tokens[1].Pos)
	assert.Equal(t, uint32(13), tokens[1].End)

	assert.Empty(t, sc.ScanForNewLines())
}

func TestScanForNewLines_StopsAtBlankLineAfterToken(t *testing.T) {
	sc := NewCommentScanner("// one\n\n// two\n")
	sc.SetFullStartAndPos(0)

	first := sc.ScanForNewLines()
	require.Len(t, first, 1)
	assert.Equal(t, "// one", first[0].Text("// one\n\n// two\n"))

	second := sc.ScanForNewLines()
	require.Len(t, second, 1)
	assert.Equal(t, uint32(8), second[0].Pos)
}

func TestScanForNewLines_SkipsLeadingBlankLines(t *testing.T) {
	source := "\n\n\n// late\nx"
	sc := NewCommentScanner(source)
	sc.SetFullStartAndPos(0)

	tokens := sc.ScanForNewLines()

	require.Len(t, tokens, 1)
	assert.Equal(t, "// late", tokens[0].Text(source))
}

func TestScanForNewLines_PropagatesFullStart(t *testing.T) {
	source := "  // a\n  // b\nx"
	sc := NewCommentScanner(source)
	sc.SetFullStartAndPos(0)

	tokens := sc.ScanForNewLines()

	require.Len(t, tokens, 2)
	assert.Equal(t, uint32(0), tokens[0].FullStart)
	assert.Equal(t, tokens[0].End, tokens[1].FullStart)
}

func TestScanForNewLines_TreatsCarriageReturnAsHorizontal(t *testing.T) {
	source := "// a\r\n// b\r\nx"
	sc := NewCommentScanner(source)
	sc.SetFullStartAndPos(0)

	tokens := sc.ScanForNewLines()

	require.Len(t, tokens, 2)
	assert.Equal(t, "// a", tokens[0].Text(source))
}

func TestScanUntilToken_IgnoresBlankLines(t *testing.T) {
	source := "// one\n\n\n// two\nx"
	sc := NewCommentScanner(source)
	sc.SetFullStartAndPos(0)

	tokens := sc.ScanUntilToken()

	require.Len(t, tokens, 2)
	assert.Equal(t, "// two", tokens[1].Text(source))
}

func TestBlockCommentClassification(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   valueobject.CommentKind
	}{
		{name: "plain block", source: "/* x */ y", want: valueobject.CommentBlock},
		{name: "documentation", source: "/** x */ y", want: valueobject.CommentDoc},
		{name: "empty block", source: "/**/ y", want: valueobject.CommentBlock},
		{name: "empty documentation", source: "/***/ y", want: valueobject.CommentDoc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := NewCommentScanner(tt.source)
			sc.SetFullStartAndPos(0)

			tokens := sc.ScanForNewLines()

			require.Len(t, tokens, 1)
			assert.Equal(t, tt.want, tokens[0].Kind)
		})
	}
}

func TestScanBlockComment_UnterminatedRunsToEnd(t *testing.T) {
	source := "/* never closed"
	sc := NewCommentScanner(source)
	sc.SetFullStartAndPos(0)

	tokens := sc.ScanForNewLines()

	require.Len(t, tokens, 1)
	assert.Equal(t, uint32(len(source)), tokens[0].End)
}

func TestScanUntilNewLineOrToken(t *testing.T) {
	t.Run("consumes line comments on the current line", func(t *testing.T) {
		source := "  // header\nx"
		sc := NewCommentScanner(source)
		sc.SetFullStartAndPos(0)

		sc.ScanUntilNewLineOrToken()

		assert.Equal(t, uint32(11), sc.Pos())
	})

	t.Run("stops before a block comment", func(t *testing.T) {
		source := "  /* kept */ x"
		sc := NewCommentScanner(source)
		sc.SetFullStartAndPos(0)

		sc.ScanUntilNewLineOrToken()

		assert.Equal(t, uint32(2), sc.Pos())
	})

	t.Run("stops at a significant token", func(t *testing.T) {
		source := " , // after comma"
		sc := NewCommentScanner(source)
		sc.SetFullStartAndPos(0)

		sc.ScanUntilNewLineOrToken()

		assert.Equal(t, uint32(1), sc.Pos())
	})

	t.Run("leaves the trivia window start untouched", func(t *testing.T) {
		source := "// dropped\n// kept\nx"
		sc := NewCommentScanner(source)
		sc.SetFullStartAndPos(0)

		sc.ScanUntilNewLineOrToken()
		tokens := sc.ScanForNewLines()

		require.Len(t, tokens, 1)
		assert.Equal(t, uint32(0), tokens[0].FullStart)
		assert.Equal(t, "// kept", tokens[0].Text(source))
	})
}

func TestSetPos_DoesNotMoveFullStart(t *testing.T) {
	source := ", // note\nx"
	sc := NewCommentScanner(source)
	sc.SetFullStartAndPos(0)
	sc.SetPos(1)

	tokens := sc.ScanForNewLines()

	require.Len(t, tokens, 1)
	assert.Equal(t, uint32(0), tokens[0].FullStart)
	assert.Equal(t, "// note", tokens[0].Text(source))
}
