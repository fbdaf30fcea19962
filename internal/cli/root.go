package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the contas command tree.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "contas",
		Short: "Contas – a small personal bills and income tracker",
		Long: `contas keeps a list of bills and income entries in memory and serves
a web UI to add, edit and remove them, with the paid balance and the
projected balance of everything registered.`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd(version))
	return root
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "contas", version)
		},
	}
}

// Execute is the entry point called from main.
func Execute(version string) {
	if err := NewRootCmd(version).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
