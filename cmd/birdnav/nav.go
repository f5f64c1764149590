package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse"
	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/alert"
	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/router"
)

var (
	navParams   []string
	navBaseURL  string
	navShowPage bool
)

var navCmd = &cobra.Command{
	Use:   "nav [page]",
	Short: "Navigate to a page and print the result",
	Long: `Resolve a page name, fetch its document from the configured base URL,
swap it into an empty page and run its modules.

Without a page name the landing page for the current role is used. Prefix a
name with "_" to bypass the landing policy.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if navBaseURL != "" {
			cfg.BaseURL = navBaseURL
		}

		params, err := parseParams(navParams)
		if err != nil {
			return err
		}

		n, err := birdhouse.NewNavigator(cfg, birdhouse.NavigatorOptions{
			Sink: alert.SinkFunc(func(msg string) {
				fmt.Fprintln(cmd.ErrOrStderr(), msg)
			}),
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var pageName string
		if len(args) > 0 {
			pageName = args[0]
		}

		status, err := n.Navigate(ctx, pageName, &router.NavInit{Params: params})
		if err != nil {
			n.Alerts.Report(err)
			return err
		}
		if status == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", status, n.Page().CurrentPage())
		if navShowPage {
			fmt.Fprintln(cmd.OutOrStdout(), n.Page().HTML())
		}
		return nil
	},
}

func init() {
	navCmd.Flags().StringArrayVarP(&navParams, "param", "p", nil, "query parameter as key=value (repeatable, order is kept)")
	navCmd.Flags().StringVar(&navBaseURL, "base-url", "", "override the configured base URL")
	navCmd.Flags().BoolVar(&navShowPage, "print", false, "print the resulting page")
}

func parseParams(raw []string) ([]router.Param, error) {
	params := make([]router.Param, 0, len(raw))
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", kv)
		}
		params = append(params, router.Param{Key: key, Value: value})
	}
	return params, nil
}
