package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"

	apierrors "github.com/diogo/gamechat/internal/errors"
	"github.com/diogo/gamechat/internal/render"
)

// NewGamesCmd creates the games command group.
func NewGamesCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "games",
		Short: "Look up Steam games through the backend",
		Long: `Look up Steam games through the backend.

Examples:
  gamechat games search "hollow knight" --limit 5
  gamechat games details 1245620
  gamechat games analyze 1245620 --json`,
	}
	cmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Print the raw JSON reply")

	var limit int
	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search games by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return apierrors.ErrEmptyQuery
			}
			if limit < 1 {
				return fmt.Errorf("--limit must be at least 1")
			}

			sess, err := deps.openSession(flags)
			if err != nil {
				return err
			}
			defer sess.close()

			results, err := sess.client.SearchGames(cmd.Context(), query, limit)
			if err != nil {
				return err
			}
			if jsonOut {
				writeJSON(deps, rawArray(results))
				return nil
			}
			return writeMarkdown(deps, sess, render.SearchResultsMarkdown(query, results))
		},
	}
	searchCmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of results")

	detailsCmd := &cobra.Command{
		Use:   "details <app_id>",
		Short: "Show store details for a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, err := parseAppID(args[0])
			if err != nil {
				return err
			}

			sess, err := deps.openSession(flags)
			if err != nil {
				return err
			}
			defer sess.close()

			game, err := sess.client.GameDetails(cmd.Context(), appID)
			if err != nil {
				return err
			}
			if jsonOut {
				writeJSON(deps, []byte(game.Raw))
				return nil
			}
			return writeMarkdown(deps, sess, render.GameDetailsMarkdown(game))
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze <app_id>",
		Short: "Ask the backend for a value analysis of a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appID, err := parseAppID(args[0])
			if err != nil {
				return err
			}

			sess, err := deps.openSession(flags)
			if err != nil {
				return err
			}
			defer sess.close()

			analysis, err := sess.client.AnalyzeGame(cmd.Context(), appID)
			if err != nil {
				return err
			}
			if jsonOut {
				writeJSON(deps, []byte(analysis.Raw))
				return nil
			}
			return writeMarkdown(deps, sess, render.AnalysisMarkdown(analysis))
		},
	}

	cmd.AddCommand(searchCmd, detailsCmd, analyzeCmd)
	return cmd
}

func parseAppID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", apierrors.ErrInvalidAppID, s)
	}
	return id, nil
}

// rawArray joins results back into a JSON array.
func rawArray(results []gjson.Result) []byte {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = r.Raw
	}
	return []byte("[" + strings.Join(parts, ",") + "]")
}

// writeJSON pretty prints data, with color when stdout is a terminal.
func writeJSON(deps *Dependencies, data []byte) {
	out := pretty.Pretty(data)
	if deps.IsTTY() {
		out = pretty.Color(out, nil)
	}
	deps.Stdout.Write(out)
}

// writeMarkdown renders md for the terminal, or writes it as-is when piped.
func writeMarkdown(deps *Dependencies, sess *session, md string) error {
	if !deps.IsTTY() {
		fmt.Fprint(deps.Stdout, md)
		return nil
	}
	opts := render.OptionsFromConfig(sess.cfg).WithWidth(clampWidth(getTerminalWidth() - 2))
	out, err := render.Markdown(md, opts)
	if err != nil {
		sess.logger.Debug("markdown render failed", zap.Error(err))
		out = md
	}
	fmt.Fprint(deps.Stdout, out)
	return nil
}
