package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	var noDesc bool

	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for crateinfo.

Bash:
  $ source <(crateinfo completion bash)

Zsh:
  $ crateinfo completion zsh > "${fpath[1]}/_crateinfo"

Fish:
  $ crateinfo completion fish > ~/.config/fish/completions/crateinfo.fish

PowerShell:
  PS> crateinfo completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(output, !noDesc)
			case "zsh":
				if noDesc {
					return root.GenZshCompletionNoDesc(output)
				}
				return root.GenZshCompletion(output)
			case "fish":
				return root.GenFishCompletion(output, !noDesc)
			case "powershell":
				if noDesc {
					return root.GenPowerShellCompletion(output)
				}
				return root.GenPowerShellCompletionWithDesc(output)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noDesc, "no-descriptions", false, "disable completion descriptions")
	return cmd
}
