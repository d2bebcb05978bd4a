package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/filxconnect/cli/pkg/output"
	"github.com/filxconnect/cli/pkg/service"
	"github.com/filxconnect/cli/pkg/session"
)

var feedWatch bool

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "View your connection feed",
	Long:  "Fetch approved posts from your connections, enriched with reactions, comments and media",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		feedService := service.NewFeedService()
		posts, err := feedService.Refresh(cmd.Context())
		if err != nil {
			return err
		}
		displayFeed(posts)

		if !feedWatch {
			return nil
		}
		output.PrintInfo("Watching feed. Press Ctrl+C to stop.")
		feedService.Watch(cmd.Context(), func(posts []service.EnrichedPost) {
			displayFeed(posts)
		})
		return nil
	},
}

var feedLikeCmd = &cobra.Command{
	Use:   "like [post-id]",
	Short: "Like or unlike a post",
	Long:  "Toggle your like on a post. Without a post id, targets the post from the last notification you opened.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		postID := ""
		if len(args) == 1 {
			postID = args[0]
		} else {
			hinted, err := session.TakeViewPost()
			if err != nil {
				return err
			}
			if hinted == "" {
				return fmt.Errorf("no recent post, pass a post id")
			}
			postID = hinted
		}

		feedService := service.NewFeedService()
		if _, err := feedService.Refresh(cmd.Context()); err != nil {
			return err
		}
		liked, err := feedService.ToggleLike(cmd.Context(), postID)
		if err != nil {
			return err
		}
		if liked {
			output.PrintSuccess("Liked post %s", postID)
		} else {
			output.PrintSuccess("Removed like from post %s", postID)
		}
		return nil
	},
}

var feedCommentCmd = &cobra.Command{
	Use:   "comment <post-id> <text>",
	Short: "Comment on a post",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		feedService := service.NewFeedService()
		if _, err := feedService.Refresh(cmd.Context()); err != nil {
			return err
		}
		content := strings.Join(args[1:], " ")
		if _, err := feedService.AddComment(cmd.Context(), args[0], content); err != nil {
			return err
		}
		output.PrintSuccess("Comment added to post %s", args[0])
		return nil
	},
}

func displayFeed(posts []service.EnrichedPost) {
	if len(posts) == 0 {
		fmt.Println("No posts in your feed.")
		return
	}

	if output.GetFormat() == output.FormatJSON {
		output.Print(posts)
		return
	}

	for _, p := range posts {
		fmt.Printf("[%s] %s  (%s)\n", p.ID, p.Author.Name, output.RelativeTime(p.CreatedAt))
		if p.Title != "" {
			fmt.Printf("  %s\n", p.Title)
		}
		if p.Content != "" {
			fmt.Printf("  %s\n", p.Content)
		}
		for _, u := range p.MediaURLs {
			fmt.Printf("  media: %s\n", u)
		}
		likeMark := ""
		if p.LikedByMe {
			likeMark = " (you)"
		}
		fmt.Printf("  %d likes%s | %d comments\n", p.LikeCount, likeMark, len(p.Comments))
		for _, c := range p.Comments {
			fmt.Printf("    %s: %s\n", c.Author.Name, c.Content)
		}
		fmt.Println()
	}
	fmt.Printf("%d posts\n", len(posts))
}

func init() {
	feedCmd.Flags().BoolVar(&feedWatch, "watch", false, "Keep the feed refreshing on an interval")

	feedCmd.AddCommand(feedLikeCmd)
	feedCmd.AddCommand(feedCommentCmd)
}
