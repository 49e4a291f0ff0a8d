package commands

import (
	"github.com/spf13/cobra"

	"github.com/diogo/gamechat/internal/render"
)

// NewHealthCmd creates the health command.
func NewHealthCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := deps.openSession(flags)
			if err != nil {
				return err
			}
			defer sess.close()

			health, err := sess.client.Health(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				writeJSON(deps, []byte(health.Raw))
				return nil
			}
			return writeMarkdown(deps, sess, render.HealthMarkdown(health))
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the raw JSON reply")
	return cmd
}
