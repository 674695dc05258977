package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var errNotWired = errors.New("application not initialized")

func newRootCmd(wire wireFunc) *cobra.Command {
	v := newViper()
	var current *app

	rootCmd := &cobra.Command{
		Use:           "quotactl",
		Short:         "Inspect and adjust creative tool subscriptions",
		Long:          "quotactl reads the same environment as the API server and lets operators view a user's subscription, change plans and reset usage counters.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := wire(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			current = a
			return nil
		},
	}

	if err := bindFlags(v, rootCmd); err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	appFn := func() (*app, error) {
		if current == nil {
			return nil, errNotWired
		}
		return current, nil
	}

	rootCmd.AddCommand(newSubscriptionCmd(appFn))
	return rootCmd
}
