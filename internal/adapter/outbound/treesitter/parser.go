package treesitter

import (
	"commentgraft/internal/application/common/slogger"
	"commentgraft/internal/domain/entity"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	forest "github.com/alexaandru/go-sitter-forest"
	tree_sitter "github.com/alexaandru/go-tree-sitter-bare"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// supportedLanguages lists the grammars the parser accepts, in the order
// reported by SupportedLanguages.
var supportedLanguages = []string{"typescript", "tsx", "javascript"}

// Parser parses source text with tree-sitter grammars and shapes the result
// into the domain syntax tree: containers materialize a structural member
// list, punctuation becomes token nodes and comments are lifted out of the
// child lists entirely.
type Parser struct {
	mu      sync.Mutex
	parsers map[string]*tree_sitter.Parser

	parseCounter  metric.Int64Counter
	errorCounter  metric.Int64Counter
	parseDuration metric.Float64Histogram
}

// NewParser creates a parser with no grammars loaded yet; grammars are
// loaded lazily per language on first use.
func NewParser() *Parser {
	meter := otel.Meter("tree-parser")

	parseCounter, _ := meter.Int64Counter(
		"parse_operations_total",
		metric.WithDescription("Total number of parse operations"),
	)

	errorCounter, _ := meter.Int64Counter(
		"parse_errors_total",
		metric.WithDescription("Total number of failed parse operations"),
	)

	parseDuration, _ := meter.Float64Histogram(
		"parse_duration_seconds",
		metric.WithDescription("Time spent parsing source text"),
	)

	return &Parser{
		parsers:       make(map[string]*tree_sitter.Parser),
		parseCounter:  parseCounter,
		errorCounter:  errorCounter,
		parseDuration: parseDuration,
	}
}

// SupportedLanguages lists the grammar names this parser accepts.
func (p *Parser) SupportedLanguages() []string {
	out := make([]string, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// DetectLanguage maps a file path to a supported grammar name by extension.
func (p *Parser) DetectLanguage(path string) (string, error) {
	return DetectLanguage(path)
}

// DetectLanguage maps a file path to a supported grammar name by extension.
func DetectLanguage(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return "typescript", nil
	case ".tsx":
		return "tsx", nil
	case ".js", ".mjs", ".cjs", ".jsx":
		return "javascript", nil
	default:
		return "", fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
	}
}

// Parse builds a domain syntax tree for the given language.
func (p *Parser) Parse(ctx context.Context, language string, source []byte) (*entity.SyntaxTree, error) {
	start := time.Now()

	parser, err := p.parserFor(language)
	if err != nil {
		p.errorCounter.Add(ctx, 1)
		return nil, err
	}

	tsTree, err := parser.ParseString(ctx, nil, source)
	if err != nil {
		p.errorCounter.Add(ctx, 1)
		return nil, fmt.Errorf("failed to parse %s source: %w", language, err)
	}
	if tsTree == nil {
		p.errorCounter.Add(ctx, 1)
		return nil, fmt.Errorf("parser returned no tree for %s source", language)
	}
	defer tsTree.Close()

	tree, err := convertTree(ctx, tsTree.RootNode(), source)
	if err != nil {
		p.errorCounter.Add(ctx, 1)
		return nil, fmt.Errorf("failed to convert %s parse tree: %w", language, err)
	}

	p.parseCounter.Add(ctx, 1)
	p.parseDuration.Record(ctx, time.Since(start).Seconds())

	slogger.Debug(ctx, "Source parsed into syntax tree", slogger.Fields{
		"language":      language,
		"source_length": len(source),
		"node_count":    tree.NodeCount(),
	})

	return tree, nil
}

func (p *Parser) parserFor(language string) (*tree_sitter.Parser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if parser, ok := p.parsers[language]; ok {
		return parser, nil
	}

	supported := false
	for _, name := range supportedLanguages {
		if name == language {
			supported = true
			break
		}
	}
	if !supported {
		return nil, fmt.Errorf("unsupported language: %s", language)
	}

	grammar := forest.GetLanguage(language)
	if grammar == nil {
		return nil, fmt.Errorf("no grammar available for language: %s", language)
	}

	parser := tree_sitter.NewParser()
	if parser == nil {
		return nil, fmt.Errorf("failed to create parser for language: %s", language)
	}
	if !parser.SetLanguage(grammar) {
		return nil, fmt.Errorf("failed to set %s grammar on parser", language)
	}

	p.parsers[language] = parser
	return parser, nil
}
