package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for panelboard.

Entity keys complete from the layout file named on the command line:

  $ panelboard place move layout.json <TAB>
  MCB-1  MCB-2  Panel\ A  Panel\ B  Panel\ C

Bash:
  $ source <(panelboard completion bash)

Zsh:
  $ panelboard completion zsh > "${fpath[1]}/_panelboard"

Fish:
  $ panelboard completion fish | source

PowerShell:
  PS> panelboard completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}

// completeFileThenKey completes a layout file first and entity keys of
// that file second.
func (c *CLI) completeFileThenKey(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
	case 1:
		return c.entityKeys(args[0]), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// entityKeys lists the keys of the layout at path; unreadable files
// complete nothing.
func (c *CLI) entityKeys(path string) []string {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil
	}
	d, err := openDocument(cfg, path)
	if err != nil {
		return nil
	}
	entities := d.Document().Entities()
	keys := make([]string, len(entities))
	for i, e := range entities {
		keys[i] = e.EntityKey()
	}
	return keys
}
