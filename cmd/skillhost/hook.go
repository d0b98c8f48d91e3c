package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentplane/skillhost/hook"
)

var hookCmd = &cobra.Command{
	Use:   "hook <name>",
	Short: "Handle a host lifecycle hook",
	Long: `Handles one lifecycle hook and prints the JSON response to stdout.
The hook payload, when any, is read from stdin. Known hooks are on_start,
post_system_prompt, and pre_tool; unknown hooks answer with an empty object.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := newHost()
		if err != nil {
			return err
		}
		payload, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read hook payload: %w", err)
		}
		resp, err := hook.Dispatch(cmd.Context(), h, args[0], payload)
		if err != nil {
			return err
		}
		fmt.Println(string(resp))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hookCmd)
}
