package main

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type Command = cobra.Command

func Run(args []string) error {
	root := NewRootCmd()
	root.SetArgs(args)
	return root.Execute()
}

// NewRootCmd builds the command tree. Without a subcommand it runs a single pass.
func NewRootCmd() *Command {
	v := viper.New()

	root := &cobra.Command{
		Use:           "mattermost-prune",
		Short:         "prune files, FileInfo rows and posts older than the retention period",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, args []string) error {
			return loadDotEnv(v.GetString(flagEnvFile))
		},
		RunE: func(command *cobra.Command, args []string) error {
			return runCmdF(command, v)
		},
	}

	addRetentionFlags(root.PersistentFlags())
	bindFlags(v, root.PersistentFlags())
	// -h is --db-host; declaring help here keeps cobra from claiming the shorthand.
	root.PersistentFlags().Bool("help", false, "help for mattermost-prune")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "run a single prune pass",
			Args:  cobra.NoArgs,
			RunE: func(command *cobra.Command, args []string) error {
				return runCmdF(command, v)
			},
		},
		newScheduleCmd(v),
	)

	return root
}

func main() {
	if err := Run(os.Args[1:]); err != nil {
		lo.Must(fmt.Fprintln(os.Stderr, "Error:", err))
		os.Exit(1)
	}
}
