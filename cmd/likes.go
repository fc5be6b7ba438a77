package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var likesCmd = &cobra.Command{
	Use:   "likes",
	Short: "Inspect and change the liked articles",
}

var likesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List liked article ids in the order they were liked",
	Args:    cobra.NoArgs,
	RunE:    runLikesList,
}

var likesToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Like an article, or unlike it if already liked",
	Args:  cobra.ExactArgs(1),
	RunE:  runLikesToggle,
}

func init() {
	rootCmd.AddCommand(likesCmd)
	likesCmd.AddCommand(likesListCmd, likesToggleCmd)
}

func runLikesList(cmd *cobra.Command, args []string) error {
	store, closer, err := openLikes()
	if err != nil {
		return fmt.Errorf("opening like storage: %w", err)
	}
	defer closer.Close()

	for _, id := range store.Load(cmd.Context()).IDs() {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}

func runLikesToggle(cmd *cobra.Command, args []string) error {
	store, closer, err := openLikes()
	if err != nil {
		return fmt.Errorf("opening like storage: %w", err)
	}
	defer closer.Close()

	liked, err := store.Toggle(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	state := "unliked"
	if liked {
		state = "liked"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", state, args[0])
	return nil
}
