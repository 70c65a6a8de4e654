package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/config"
)

func catalogCmd() *cobra.Command {
	var (
		url     string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Fetch the remote catalog once and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				url = config.EnvDefault("CATALOG_URL", catalog.DefaultSourceURL)
			}
			src := catalog.NewHTTPSource(url, timeout)
			products, err := src.FetchProducts(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch catalog: %w", err)
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(products)
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "catalog URL (default: $CATALOG_URL or the public fake store)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	return cmd
}
