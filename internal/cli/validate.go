package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Daun92/travel-blog-sub000/internal/pipeline"
	"github.com/Daun92/travel-blog-sub000/internal/worker"
)

var (
	outputDir       string
	renderMD        bool
	stopOnBlock     bool
	docConcurrency  int
	noCache         bool
	validateTimeout time.Duration
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <claims-file>...",
	Short: "Fact-check documents and decide whether they may be published",
	Long: `Validate runs the full publish gate over one or more claims files
(produced by the extraction step, one per post):
- Verify each claim against the official registry, falling back to
  grounded web search
- Aggregate severity-weighted scores into the fact-check gate
- Combine with the collaborator gates recorded in the claims file
- Queue documents in the human-review band

The exit code is non-zero when any document is blocked from publishing.

Example:
  factgate validate posts/seoul-cafe.facts.json
  factgate validate posts/*.facts.json --stop-on-block
  factgate validate posts/*.facts.json --concurrency 4 --output-dir ./reports`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&outputDir, "output-dir", "./factgate-reports", "output directory for reports")
	validateCmd.Flags().BoolVar(&renderMD, "md", false, "also write Markdown reports")
	validateCmd.Flags().BoolVar(&stopOnBlock, "stop-on-block", false, "halt the batch once a document is blocked")
	validateCmd.Flags().IntVar(&docConcurrency, "concurrency", 1, "number of documents processed in parallel")
	validateCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the verification cache (force fresh lookups)")
	validateCmd.Flags().DurationVar(&validateTimeout, "timeout", 10*time.Minute, "total timeout for the run")
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), validateTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if noCache {
		cfg.FactCheck.CacheResults = false
	}
	cfg.Output.Dir = outputDir

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Validating %d document(s), concurrency %d\n\n", len(args), docConcurrency)
	}

	processor := worker.NewBatchProcessor(p, docConcurrency, stopOnBlock)
	outcomes := processor.ProcessFiles(ctx, args)

	renderer := pipeline.NewRenderer()
	blocked := 0
	failed := 0

	for _, outcome := range outcomes {
		if outcome == nil {
			continue
		}
		if outcome.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", outcome.Path, outcome.Error)
			continue
		}

		if outcome.Outcome.Validation.BlockPublish {
			blocked++
		}

		slug := reportSlug(outcome.Path)
		if err := renderer.RenderJSON(outcome.Outcome, filepath.Join(outputDir, slug+".json")); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", outcome.Path, err)
		}
		if renderMD {
			if err := renderer.RenderMarkdown(outcome.Outcome, filepath.Join(outputDir, slug+".md")); err != nil {
				fmt.Fprintf(os.Stderr, "✗ %s: %v\n", outcome.Path, err)
			}
		}

		renderer.RenderSummary(os.Stderr, outcome.Outcome)
	}

	if failed > 0 {
		return fmt.Errorf("%d document(s) failed to validate", failed)
	}
	if blocked > 0 {
		return fmt.Errorf("%d document(s) blocked from publishing", blocked)
	}
	return nil
}

func reportSlug(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSuffix(base, ".facts")
}
