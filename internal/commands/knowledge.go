package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/gamechat/internal/render"
)

// NewKnowledgeCmd creates the knowledge command group.
func NewKnowledgeCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knowledge",
		Short: "Inspect or reset the backend's game knowledge base",
	}

	var jsonOut bool
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show knowledge base statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := deps.openSession(flags)
			if err != nil {
				return err
			}
			defer sess.close()

			stats, err := sess.client.KnowledgeStats(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				writeJSON(deps, []byte(stats.Raw))
				return nil
			}
			return writeMarkdown(deps, sess, render.KnowledgeStatsMarkdown(stats))
		},
	}
	statsCmd.Flags().BoolVar(&jsonOut, "json", false, "Print the raw JSON reply")

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete everything in the knowledge base",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(deps, "Clear the whole knowledge base?") {
				fmt.Fprintln(deps.Stdout, "Aborted.")
				return nil
			}

			sess, err := deps.openSession(flags)
			if err != nil {
				return err
			}
			defer sess.close()

			res, err := sess.client.ClearKnowledge(cmd.Context())
			if err != nil {
				return err
			}
			msg := res.Get("message").String()
			if msg == "" {
				msg = "Knowledge base cleared"
			}
			fmt.Fprintln(deps.Stdout, "✓ "+msg)
			return nil
		},
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	cmd.AddCommand(statsCmd, clearCmd)
	return cmd
}

// confirm asks a yes/no question on deps.Stdin. Anything but y or yes is no.
func confirm(deps *Dependencies, question string) bool {
	fmt.Fprintf(deps.Stderr, "%s [y/N]: ", question)
	line, err := bufio.NewReader(deps.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
