package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentplane/skillhost/spec"
)

var marketplaceCmd = &cobra.Command{
	Use:     "marketplace",
	Aliases: []string{"mp"},
	Short:   "Manage installed skills",
}

var marketplaceInstallCmd = &cobra.Command{
	Use:   "install <skill-ref>",
	Short: "Install a skill from a git repository",
	Long:  `Installs a skill given an owner/name reference or a full repository URL.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMarketplace(cmd, spec.MarketplaceArgs{
			Action:   spec.MarketplaceActionInstall,
			SkillRef: args[0],
		})
	},
}

var marketplaceRemoveCmd = &cobra.Command{
	Use:   "remove <skill-ref>",
	Short: "Remove an installed skill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMarketplace(cmd, spec.MarketplaceArgs{
			Action:   spec.MarketplaceActionRemove,
			SkillRef: args[0],
		})
	},
}

var marketplaceSearchCmd = &cobra.Command{
	Use:   "search <query>...",
	Short: "Search the skills marketplace",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMarketplace(cmd, spec.MarketplaceArgs{
			Action: spec.MarketplaceActionSearch,
			Query:  strings.Join(args, " "),
		})
	},
}

var marketplaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available marketplace skills",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMarketplace(cmd, spec.MarketplaceArgs{Action: spec.MarketplaceActionList})
	},
}

var marketplaceListInstalledCmd = &cobra.Command{
	Use:   "list-installed",
	Short: "List installed skills",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMarketplace(cmd, spec.MarketplaceArgs{Action: spec.MarketplaceActionListInstalled})
	},
}

func runMarketplace(cmd *cobra.Command, args spec.MarketplaceArgs) error {
	h, err := newHost()
	if err != nil {
		return err
	}
	out, err := h.Marketplace(cmd.Context(), args)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func init() {
	marketplaceCmd.AddCommand(
		marketplaceInstallCmd,
		marketplaceRemoveCmd,
		marketplaceSearchCmd,
		marketplaceListCmd,
		marketplaceListInstalledCmd,
	)
	rootCmd.AddCommand(marketplaceCmd)
}
