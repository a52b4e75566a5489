package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Print a shell completion script",
	Long: `Print a completion script for bash, zsh, fish or powershell.

Completions include level numbers for 'gitgame level' and saved session
ids for 'gitgame sessions use|delete'.

  source <(gitgame completion bash)
  gitgame completion zsh > "${fpath[1]}/_gitgame"
  gitgame completion fish > ~/.config/fish/completions/gitgame.fish`,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		default:
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
	levelCmd.ValidArgsFunction = completeLevels
	sessionsUseCmd.ValidArgsFunction = completeSessions
	sessionsDeleteCmd.ValidArgsFunction = completeSessions
}

// completeLevels offers "next" plus every unlocked level of the current session
func completeLevels(cmd *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	c, err := newContext()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer c.Close()

	s, err := c.currentSession()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	out := []cobra.Completion{cobra.CompletionWithDesc("next", "the level after this one")}
	for _, l := range c.Game.Pack().Levels {
		if s.IsUnlocked(l.ID) {
			out = append(out, cobra.CompletionWithDesc(strconv.Itoa(l.ID), l.Title))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completeSessions(cmd *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	c, err := newContext()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer c.Close()

	list, err := c.Store.ListSessions()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	out := make([]cobra.Completion, 0, len(list))
	for _, s := range list {
		out = append(out, cobra.CompletionWithDesc(s.ID, fmt.Sprintf("level %d, %s", s.LevelID, s.UpdatedAt.Format("Jan 2 15:04"))))
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
