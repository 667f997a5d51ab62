package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/receiptly/receiptly/cmd/receiptctl/cli"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:           "receiptctl",
		Short:         "Operational helpers for Receiptly",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(renderCmd(), jobsCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func renderCmd() *cobra.Command {
	var out string
	var preview, png bool
	var captureURL string
	var captureScale float64

	cmd := &cobra.Command{
		Use:   "render <draft.json>",
		Short: "Render a receipt draft file to HTML or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := cli.NewRenderCLI(captureURL, captureScale)
			if err != nil {
				return err
			}
			if err := renderer.RenderFile(cmd.Context(), args[0], out, preview, png); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "receipt.html", "output path")
	cmd.Flags().BoolVar(&preview, "preview", false, "add the draft watermark")
	cmd.Flags().BoolVar(&png, "png", false, "capture a PNG instead of writing HTML")
	cmd.Flags().StringVar(&captureURL, "capture-url", "http://127.0.0.1:3000", "screenshot service URL")
	cmd.Flags().Float64Var(&captureScale, "capture-scale", 2, "device pixel ratio for capture")
	return cmd
}

func jobsCmd() *cobra.Command {
	var redisAddr string

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage background jobs",
	}
	cmd.PersistentFlags().StringVar(&redisAddr, "redis", "127.0.0.1:6379", "redis address")

	warmup := &cobra.Command{
		Use:   "warmup [business-id]",
		Short: "Enqueue an analytics dashboard warmup",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs := cli.NewJobsCLI(redisAddr)
			defer jobs.Close()
			businessID := ""
			if len(args) == 1 {
				businessID = args[0]
			}
			info, err := jobs.TriggerWarmup(cmd.Context(), businessID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "enqueued", info.ID)
			return nil
		},
	}

	prerender := &cobra.Command{
		Use:   "prerender <receipt-id>",
		Short: "Enqueue an image prerender for a receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs := cli.NewJobsCLI(redisAddr)
			defer jobs.Close()
			info, err := jobs.TriggerPrerender(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "enqueued", info.ID)
			return nil
		},
	}

	inspect := &cobra.Command{
		Use:   "inspect",
		Short: "Show queue statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs := cli.NewJobsCLI(redisAddr)
			defer jobs.Close()
			stats, err := jobs.InspectQueue(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "queue=%s pending=%d active=%d scheduled=%d retry=%d\n",
				stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry)
			return nil
		},
	}

	cmd.AddCommand(warmup, prerender, inspect)
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the receiptctl version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "receiptctl", version)
		},
	}
}
