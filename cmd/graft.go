package cmd

import (
	"commentgraft/internal/adapter/outbound/treesitter"
	"commentgraft/internal/application/common/observability"
	"commentgraft/internal/application/dto"
	"commentgraft/internal/application/service"
	"commentgraft/internal/version"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// graftCmd implements: commentgraft graft --file path.ts [--file more.ts] [--lang typescript] [--out out.json] [--format json|yaml].
func newGraftCmd() *cobra.Command {
	var filePaths []string
	var langFlag string
	var outPath string
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "graft",
		Short: "Parse source files and report their comment-attached child sequences",
		RunE: func(_ *cobra.Command, args []string) error {
			paths := append(filePaths, args...)
			if len(paths) == 0 {
				return errors.New("at least one input file is required (--file or positional)")
			}
			return runGraft(paths, langFlag, outPath, formatFlag)
		},
	}

	cmd.Flags().StringArrayVar(&filePaths, "file", nil, "Path to a source file (repeatable)")
	cmd.Flags().StringVar(&langFlag, "lang", "", "Grammar override (typescript, tsx, javascript)")
	cmd.Flags().StringVar(&outPath, "out", "", "Optional path to write output (default stdout)")
	cmd.Flags().StringVar(&formatFlag, "format", "", "Output format override (json, yaml)")

	return cmd
}

func runGraft(paths []string, langFlag, outPath, formatFlag string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	_, shutdownMetrics, err := observability.SetupMetrics(ctx, "commentgraft", version.GetVersion().Version)
	if err != nil {
		return fmt.Errorf("failed to set up metrics: %w", err)
	}
	defer func() {
		_ = shutdownMetrics(context.Background())
	}()

	svc := service.NewGraftService(treesitter.NewParser(), cfg)
	result, err := svc.Graft(ctx, dto.GraftRequest{Paths: paths, Language: langFlag})
	if err != nil {
		return err
	}

	format := cfg.Output.Format
	if formatFlag != "" {
		format = formatFlag
	}

	encoded, err := encodeResult(result, format)
	if err != nil {
		return err
	}

	if outPath == "" {
		_, err = os.Stdout.Write(encoded)
		return err
	}
	return os.WriteFile(outPath, encoded, 0o644) //nolint:gosec // report output is not sensitive
}

func encodeResult(result *dto.GraftResult, format string) ([]byte, error) {
	switch format {
	case "json":
		if cfg.Output.Pretty {
			return json.MarshalIndent(result, "", "  ")
		}
		return json.Marshal(result)
	case "yaml":
		return yaml.Marshal(result)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func init() { //nolint:gochecknoinits // Standard Cobra CLI pattern for command registration
	rootCmd.AddCommand(newGraftCmd())
}
