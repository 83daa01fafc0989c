package service

import (
	"commentgraft/internal/application/common/logging"
	"commentgraft/internal/application/common/slogger"
	"commentgraft/internal/application/dto"
	"commentgraft/internal/config"
	"commentgraft/internal/domain/entity"
	domainservice "commentgraft/internal/domain/service"
	"commentgraft/internal/port/outbound"
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
)

// GraftService runs comment attachment over source files and shapes the
// result for output.
type GraftService struct {
	parser outbound.TreeParser
	config *config.Config

	fileCounter   metric.Int64Counter
	errorCounter  metric.Int64Counter
	graftDuration metric.Float64Histogram
}

// NewGraftService creates a graft service backed by the given parser.
func NewGraftService(parser outbound.TreeParser, cfg *config.Config) *GraftService {
	meter := otel.Meter("graft-service")

	fileCounter, _ := meter.Int64Counter(
		"graft_files_total",
		metric.WithDescription("Total number of files processed"),
	)

	errorCounter, _ := meter.Int64Counter(
		"graft_file_errors_total",
		metric.WithDescription("Total number of files that failed processing"),
	)

	graftDuration, _ := meter.Float64Histogram(
		"graft_file_duration_seconds",
		metric.WithDescription("Time spent grafting comments onto one file"),
	)

	return &GraftService{
		parser:        parser,
		config:        cfg,
		fileCounter:   fileCounter,
		errorCounter:  errorCounter,
		graftDuration: graftDuration,
	}
}

// Graft processes every file in the request, running up to the configured
// number of files in parallel. Per-file failures are recorded in the result
// rather than aborting the run.
func (s *GraftService) Graft(ctx context.Context, request dto.GraftRequest) (*dto.GraftResult, error) {
	if len(request.Paths) == 0 {
		return nil, fmt.Errorf("no input files given")
	}

	ctx, correlationID := logging.NewCorrelationID(ctx)
	slogger.Info(ctx, "Starting graft run", slogger.Fields{
		"file_count":     len(request.Paths),
		"correlation_id": correlationID,
	})

	var (
		mu     sync.Mutex
		result dto.GraftResult
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.config.Parser.Concurrency)

	for _, path := range request.Paths {
		group.Go(func() error {
			report, err := s.GraftFile(groupCtx, path, request.Language)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, dto.FileError{Path: path, Message: err.Error()})
				return nil
			}
			result.Files = append(result.Files, *report)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	slogger.Info(ctx, "Graft run finished", slogger.Fields{
		"processed": len(result.Files),
		"failed":    len(result.Errors),
	})

	return &result, nil
}

// GraftFile reads one source file and produces its attachment report. The
// language override takes precedence over extension-based detection; when
// both are unavailable the configured default language is used.
func (s *GraftService) GraftFile(ctx context.Context, path, languageOverride string) (*dto.FileReport, error) {
	start := time.Now()

	info, err := os.Stat(path)
	if err != nil {
		s.errorCounter.Add(ctx, 1)
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() > s.config.Parser.MaxFileSize {
		s.errorCounter.Add(ctx, 1)
		return nil, fmt.Errorf("%s exceeds maximum file size (%d bytes)", path, s.config.Parser.MaxFileSize)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		s.errorCounter.Add(ctx, 1)
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	language := languageOverride
	if language == "" {
		language, err = s.parser.DetectLanguage(path)
		if err != nil {
			language = s.config.Parser.DefaultLanguage
			slogger.Warn(ctx, "Language detection failed, using default", slogger.Fields{
				"path":     path,
				"language": language,
			})
		}
	}

	report, err := s.GraftSource(ctx, path, language, source)
	if err != nil {
		s.errorCounter.Add(ctx, 1)
		return nil, err
	}

	s.fileCounter.Add(ctx, 1)
	s.graftDuration.Record(ctx, time.Since(start).Seconds())
	return report, nil
}

// GraftSource parses source text and builds the attachment report for every
// container in the resulting tree.
func (s *GraftService) GraftSource(
	ctx context.Context,
	path, language string,
	source []byte,
) (*dto.FileReport, error) {
	tree, err := s.parser.Parse(ctx, language, source)
	if err != nil {
		return nil, err
	}

	attacher := domainservice.NewCommentAttacher(tree)
	report := &dto.FileReport{
		Path:      path,
		Language:  language,
		NodeCount: tree.NodeCount(),
	}

	for i := range tree.NodeCount() {
		id := entity.NodeID(i) //nolint:gosec // arena index
		if !tree.Node(id).Kind.IsContainer() {
			continue
		}
		container := s.containerReport(ctx, tree, attacher, id)
		report.CommentListCount += countCommentLists(container.Elements)
		report.Containers = append(report.Containers, container)
	}

	return report, nil
}

func (s *GraftService) containerReport(
	ctx context.Context,
	tree *entity.SyntaxTree,
	attacher *domainservice.CommentAttacher,
	id entity.NodeID,
) dto.ContainerReport {
	node := tree.Node(id)
	report := dto.ContainerReport{
		Kind: node.Kind.String(),
		Pos:  node.Start,
		End:  node.End,
	}

	for _, element := range attacher.Children(ctx, id) {
		report.Elements = append(report.Elements, elementDTO(tree, element))
	}
	return report
}

func elementDTO(tree *entity.SyntaxTree, element domainservice.Element) dto.ElementDTO {
	switch e := element.(type) {
	case domainservice.NodeElement:
		node := tree.Node(e.ID)
		kind := node.Type
		if kind == "" {
			kind = node.Kind.String()
		}
		return dto.ElementDTO{
			Type: dto.ElementTypeNode,
			Kind: kind,
			Pos:  node.Start,
			End:  node.End,
		}
	case domainservice.CommentListElement:
		out := dto.ElementDTO{
			Type: dto.ElementTypeCommentList,
			Kind: e.List.ListKind.String(),
			Pos:  e.List.Pos,
			End:  e.List.End,
		}
		for _, token := range e.List.Comments {
			out.Comments = append(out.Comments, dto.CommentDTO{
				Kind: token.Kind.String(),
				Pos:  token.Pos,
				End:  token.End,
				Text: token.Text(tree.Source()),
			})
		}
		return out
	default:
		return dto.ElementDTO{}
	}
}

func countCommentLists(elements []dto.ElementDTO) int {
	count := 0
	for _, e := range elements {
		if e.Type == dto.ElementTypeCommentList {
			count++
		}
	}
	return count
}
