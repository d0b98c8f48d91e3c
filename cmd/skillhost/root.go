package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentplane/skillhost"
)

var (
	flagSkillsDir string
	flagStateFile string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:          "skillhost",
	Short:        "Agent Skills host extension",
	Long:         `Hosts Agent Skills: discovers SKILL.md definitions, enforces per-skill tool allow-lists, and runs skill-scoped file reads and scripts.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSkillsDir, "skills-dir", "", "skills directory (default $SKILLHOST_SKILLS_DIR or ~/.skillhost/skills)")
	rootCmd.PersistentFlags().StringVar(&flagStateFile, "state-file", "", "activation state file (default <skills-dir>/.active_skill.json)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging to stderr")
}

func skillsDir() string {
	if flagSkillsDir != "" {
		return flagSkillsDir
	}
	if dir := os.Getenv("SKILLHOST_SKILLS_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".skillhost", "skills")
	}
	return filepath.Join(home, ".skillhost", "skills")
}

// newLogger keeps stdout clean for protocol responses. Logs go to stderr,
// and are discarded entirely unless --verbose is set.
func newLogger() *slog.Logger {
	if !flagVerbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newHost() (*skillhost.Host, error) {
	opts := []skillhost.Option{skillhost.WithLogger(newLogger())}
	if flagStateFile != "" {
		opts = append(opts, skillhost.WithStateFile(flagStateFile))
	}
	return skillhost.New(skillsDir(), opts...)
}
