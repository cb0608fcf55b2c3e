package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"git.unix.lgbt/diamondburned/smartlaunch/smartlaunch/journal"
	"git.unix.lgbt/diamondburned/smartlaunch/smartlaunch/lock"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCommand(in io.Reader, out io.Writer) (*cobra.Command, error) {
	var configPath string

	v := newViper()

	root := &cobra.Command{
		Use:   "smartlaunch",
		Short: "Launch a Minecraft server and shut it down at a set time",
		Long: `smartlaunch launches the Minecraft server in the working directory, locks it
so nobody else launches it at the same time, and shuts it down gracefully at
the scheduled time, warning players along the way.

Examples:
  smartlaunch                    # prompt for the shutdown time
  smartlaunch --at 23:30
  smartlaunch status`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaunch(cmd.Context(), v, configPath, in, out)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ./smartlaunch.yaml if present)")

	if err := addConfigFlags(root, v); err != nil {
		return nil, err
	}

	run := &cobra.Command{
		Use:   "run",
		Short: "Launch the server (default)",
		Args:  cobra.NoArgs,
		RunE:  root.RunE,
	}

	// run shares the root's flags, bound to the same keys.
	run.Flags().AddFlagSet(root.Flags())

	root.AddCommand(
		run,
		newStatusCommand(v, &configPath, out),
		newVersionCommand(out),
	)

	return root, nil
}

func runLaunch(ctx context.Context, v *viper.Viper, configPath string, in io.Reader, out io.Writer) error {
	cfg, err := loadConfig(v, configPath)
	if err != nil {
		return err
	}

	return newLauncher(cfg, in, out).launch(ctx)
}

func newStatusCommand(v *viper.Viper, configPath *string, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show who holds the server lock and the last run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, *configPath)
			if err != nil {
				return err
			}

			return printStatus(out, cfg)
		},
	}
}

func printStatus(out io.Writer, cfg Config) error {
	if err := lock.Inspect(cfg.Lock); err != nil {
		var locked *lock.AlreadyLockedError
		if !errors.As(err, &locked) {
			return err
		}
		fmt.Fprintln(out, "Lock:", locked.Error())
	} else {
		fmt.Fprintln(out, "Lock: not locked")
	}

	if cfg.Journal == "" {
		return nil
	}

	entries, err := journal.ReadLastRunFromFile(cfg.Journal)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(out, "No runs journaled.")
			return nil
		}
		return errors.Wrap(err, "failed to read journal")
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No runs journaled.")
		return nil
	}

	fmt.Fprintln(out, "Last run:")
	for _, entry := range entries {
		severity, msg := journal.Describe(entry.Event)
		fmt.Fprintf(out, "  %s [%s] %s\n", entry.Time.Format("2006-01-02 15:04:05"), severity, msg)
	}

	return nil
}

func newVersionCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(out, "smartlaunch", Version)
		},
	}
}
