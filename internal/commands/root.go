// Package commands provides CLI commands for gamechat.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/gamechat/internal/config"
	apierrors "github.com/diogo/gamechat/internal/errors"
)

// Version info (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	apiURL  string
	noTools bool
	debug   bool
}

// apply layers flags over cfg. Flags win over file and environment.
func (f *globalFlags) apply(cfg config.Config) config.Config {
	if f.apiURL != "" {
		cfg.APIURL = f.apiURL
	}
	if f.noTools {
		cfg.UseTools = false
	}
	if f.debug {
		cfg.Debug = true
	}
	return cfg
}

// reportedError marks errors already printed to the user.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error { return e.error }

// NewRootCmd builds the command tree around deps.
func NewRootCmd(deps *Dependencies) *cobra.Command {
	flags := &globalFlags{}
	var outputFlag, fileFlag string

	rootCmd := &cobra.Command{
		Use:   "gamechat [prompt]",
		Short: "Chat with a video game assistant from the terminal",
		Long: `gamechat talks to a game assistant backend that knows Steam prices,
reviews, player counts and recommendations.

Examples:
  gamechat chat                               Start interactive chat
  gamechat "Is Baldur's Gate 3 worth it?"     Ask a single question
  gamechat -f question.md                     Read the question from a file
  cat question.md | gamechat                  Read the question from stdin
  gamechat "Recommend horror games" -o out.md Save the reply to a file
  gamechat games search "elden ring"          Search Steam
  gamechat health                             Check the backend`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "gamechat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			var prompt string
			switch {
			case fileFlag != "":
				data, err := os.ReadFile(fileFlag)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				prompt = string(data)
			case len(args) > 0:
				prompt = args[0]
			case deps.HasStdin():
				data, err := io.ReadAll(deps.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				prompt = string(data)
			default:
				return cmd.Help()
			}

			if strings.TrimSpace(prompt) == "" {
				return apierrors.ErrEmptyPrompt
			}

			sess, err := deps.openSession(flags)
			if err != nil {
				return err
			}
			defer sess.close()

			return runQuery(cmd.Context(), deps, sess, prompt, outputFlag)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.apiURL, "api-url", "",
		"Backend origin, e.g. http://localhost:8000 (overrides "+config.EnvAPIURL+")")
	rootCmd.PersistentFlags().BoolVar(&flags.noTools, "no-tools", false, "Ask the backend not to use its game tools")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Write debug logs to the log file")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save response to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read prompt from file")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.SetIn(deps.Stdin)
	rootCmd.SetOut(deps.Stdout)
	rootCmd.SetErr(deps.Stderr)

	rootCmd.AddCommand(NewChatCmd(deps, flags))
	rootCmd.AddCommand(NewGamesCmd(deps, flags))
	rootCmd.AddCommand(NewHealthCmd(deps, flags))
	rootCmd.AddCommand(NewKnowledgeCmd(deps, flags))
	rootCmd.AddCommand(NewConfigCmd(deps))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	deps := NewDependencies()
	if err := NewRootCmd(deps).Execute(); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Error"))
		}
		os.Exit(1)
	}
}
