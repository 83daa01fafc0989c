package outbound

import (
	"commentgraft/internal/domain/entity"
	"context"
)

// TreeParser parses source text into the frozen syntax tree the comment
// attachment layer operates on.
type TreeParser interface {
	// Parse builds a syntax tree for the given language. The language name
	// must be one of SupportedLanguages.
	Parse(ctx context.Context, language string, source []byte) (*entity.SyntaxTree, error)

	// DetectLanguage maps a file path to a grammar name, or returns an
	// error when the file type is not recognized.
	DetectLanguage(path string) (string, error)

	// SupportedLanguages lists the grammar names this parser accepts.
	SupportedLanguages() []string
}
