// Package main provides the tubegate CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/richinex/tubegate/cli"
	"github.com/richinex/tubegate/config"
)

var (
	// Global flags
	provider string
	verbose  bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "tubegate",
		Short: "Tool-call gateway for a YouTube account",
		Long: `A tool-call gateway that searches, lists trending videos, likes videos and
summarizes recent activity on behalf of a signed-in YouTube user.

Natural-language search and activity summaries use an LLM when one is
configured and fall back to deterministic parsing and a fixed template
when it is not.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "",
		"LLM provider ("+strings.Join(config.SupportedProviders(), ", ")+"); overrides LLM_PROVIDER")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(callCmd())
	rootCmd.AddCommand(toolsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func options() cli.Options {
	return cli.Options{Provider: provider, Verbose: verbose}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway (POST /mcp, /auth/login, /auth/callback)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return cli.Serve(ctx, options())
		},
	}
}

func callCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "call [tool] [json-input]",
		Short: "Dispatch one tool call and print the JSON result",
		Long: `Dispatch one tool call with an explicit access token and print the result.

Examples:
  tubegate call search '{"query": "bmw", "maxResults": 3}'
  tubegate call naturalSearch '{"prompt": "I want 4 videos of bmw"}'
  tubegate call activitySummary`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 2 {
				input = args[1]
			}
			if token == "" {
				token = os.Getenv("YOUTUBE_ACCESS_TOKEN")
			}
			return cli.Call(cmd.Context(), args[0], input, token, options(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "OAuth access token (default $YOUTUBE_ACCESS_TOKEN)")

	return cmd
}

func toolsCmd() *cobra.Command {
	var verboseTools bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List available tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ListTools(cmd.OutOrStdout(), verboseTools)
		},
	}

	cmd.Flags().BoolVarP(&verboseTools, "verbose", "V", false, "Show tool parameters")

	return cmd
}
