package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Daun92/travel-blog-sub000/internal/model"
	"github.com/Daun92/travel-blog-sub000/internal/review"
)

var reviewNote string

// reviewCmd represents the review command
var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Manage the human-review queue",
	Long: `Documents that land in the review band are queued for manual
adjudication. Approving a case clears it for publishing; rejecting it
blocks the document.`,
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending review cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		queue, err := openQueue()
		if err != nil {
			return err
		}

		pending, err := queue.Pending()
		if err != nil {
			return err
		}

		if len(pending) == 0 {
			fmt.Println("No pending review cases.")
			return nil
		}

		for _, c := range pending {
			fmt.Printf("%s  %s\n", c.ID, c.FilePath)
			fmt.Printf("    trigger: %s, score: %d, queued: %s\n",
				c.Trigger, c.Score, c.CreatedAt.Format("2006-01-02 15:04"))
			if c.Details != "" {
				fmt.Printf("    %s\n", c.Details)
			}
		}
		return nil
	},
}

var reviewApproveCmd = &cobra.Command{
	Use:   "approve <case-id>",
	Short: "Approve a pending case (clears the document for publishing)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return resolveCase(args[0], model.ReviewApproved)
	},
}

var reviewRejectCmd = &cobra.Command{
	Use:   "reject <case-id>",
	Short: "Reject a pending case (blocks the document)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return resolveCase(args[0], model.ReviewRejected)
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.AddCommand(reviewListCmd)
	reviewCmd.AddCommand(reviewApproveCmd)
	reviewCmd.AddCommand(reviewRejectCmd)

	reviewApproveCmd.Flags().StringVar(&reviewNote, "note", "", "reviewer note")
	reviewRejectCmd.Flags().StringVar(&reviewNote, "note", "", "reviewer note")
}

func openQueue() (*review.Queue, error) {
	cfg, err := loadConfigForQueue()
	if err != nil {
		return nil, err
	}
	return review.NewQueue(cfg.Review.QueuePath, cfg.Review.TTLDays), nil
}

// loadConfigForQueue loads configuration without requiring source
// credentials: queue operations never touch the verification sources.
func loadConfigForQueue() (*model.Config, error) {
	cfg, err := loadConfig()
	if err == nil {
		return cfg, nil
	}

	// Fall back to defaults with resolved paths when only credentials or
	// threshold config are at fault
	cfg = model.DefaultConfig()
	home, homeErr := os.UserHomeDir()
	if homeErr != nil {
		return nil, err
	}
	cfg.Review.QueuePath = home + "/.factgate/review-queue.json"
	return cfg, nil
}

func resolveCase(id string, status model.ReviewStatus) error {
	queue, err := openQueue()
	if err != nil {
		return err
	}

	resolved, err := queue.Resolve(id, status, reviewNote)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Case %s %s: %s\n", resolved.ID, resolved.Status, resolved.FilePath)
	return nil
}
