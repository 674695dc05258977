package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"creative-tools-api/internal/domain"

	"github.com/spf13/cobra"
)

type subscriptionOutput struct {
	*domain.Subscription
	Remaining map[domain.ToolID]int `json:"remaining"`
}

func newSubscriptionCmd(appFn func() (*app, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscription",
		Aliases: []string{"sub"},
		Short:   "Manage user subscriptions",
	}

	cmd.AddCommand(
		newSubscriptionShowCmd(appFn),
		newSubscriptionSetPlanCmd(appFn),
		newSubscriptionResetCmd(appFn),
	)
	return cmd
}

func newSubscriptionShowCmd(appFn func() (*app, error)) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <user-id>",
		Short: "Show the effective subscription, creating it if missing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFn()
			if err != nil {
				return err
			}
			sub, err := a.subscriptions.GetEffectiveSubscription(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load subscription: %w", err)
			}
			return writeSubscription(cmd, sub, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	return cmd
}

func newSubscriptionSetPlanCmd(appFn func() (*app, error)) *cobra.Command {
	var status string
	var renewal string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "set-plan <user-id> <Free|Monthly|Yearly>",
		Short: "Change a user's plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, ok := domain.ParsePlan(args[1])
			if !ok {
				return fmt.Errorf("%w: %q", domain.ErrInvalidPlan, args[1])
			}
			renewalDate, err := domain.ParseTimestamp(renewal)
			if err != nil {
				return fmt.Errorf("parse --renewal-date: %w", err)
			}

			a, err := appFn()
			if err != nil {
				return err
			}
			sub, err := a.subscriptions.SetPlan(cmd.Context(), args[0], plan, status, renewalDate)
			if err != nil {
				return fmt.Errorf("set plan: %w", err)
			}
			return writeSubscription(cmd, sub, asJSON)
		},
	}

	cmd.Flags().StringVar(&status, "status", domain.StatusActive, "Subscription status to record")
	cmd.Flags().StringVar(&renewal, "renewal-date", "", "Renewal date (RFC3339 or epoch milliseconds)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	return cmd
}

func newSubscriptionResetCmd(appFn func() (*app, error)) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "reset <user-id>",
		Short: "Zero every usage counter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFn()
			if err != nil {
				return err
			}
			sub, err := a.subscriptions.ResetUsage(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("reset usage: %w", err)
			}
			return writeSubscription(cmd, sub, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	return cmd
}

func writeSubscription(cmd *cobra.Command, sub *domain.Subscription, asJSON bool) error {
	out := cmd.OutOrStdout()

	if asJSON {
		remaining := make(map[domain.ToolID]int, len(domain.AllTools))
		for _, tool := range domain.AllTools {
			remaining[tool] = sub.RemainingFor(tool)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(subscriptionOutput{Subscription: sub, Remaining: remaining})
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "user:\t%s\n", sub.UserID)
	fmt.Fprintf(tw, "plan:\t%s\n", sub.Plan)
	fmt.Fprintf(tw, "status:\t%s\n", sub.Status)
	fmt.Fprintf(tw, "limit:\t%s\n", sub.Limit)
	if sub.LastReset != nil {
		fmt.Fprintf(tw, "last reset:\t%s\n", sub.LastReset.UTC().Format(time.RFC3339))
	}
	if sub.RenewalDate != nil {
		fmt.Fprintf(tw, "renews:\t%s\n", sub.RenewalDate.UTC().Format(time.RFC3339))
	}
	fmt.Fprintln(tw, "usage:")
	for _, tool := range domain.AllTools {
		fmt.Fprintf(tw, "  %s\t%d/%s\n", tool, sub.UsageFor(tool), sub.Limit)
	}
	return tw.Flush()
}
