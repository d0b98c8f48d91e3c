package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentplane/skillhost/skilltool"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the tool schema as JSON",
	Long:  `Prints the management tools plus one invocation tool per installed skill as a JSON array, for host registration.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		h, err := newHost()
		if err != nil {
			return err
		}
		raw, err := skilltool.SchemaJSON(cmd.Context(), h)
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
