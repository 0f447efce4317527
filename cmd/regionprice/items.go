package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"regionprice/internal/compare"
)

func newItemsCmd(c *cli) *cobra.Command {
	var appID, region string
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List an app's in-app purchases as shown in one storefront",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := compare.ParseAppID(appID)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), c.cfg, c.log, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			base, err := a.service.BaseRegion("", region)
			if err != nil {
				return err
			}
			product, err := a.service.Discover(cmd.Context(), id, base)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			name := product.Name
			if name == "" {
				name = "app " + id
			}
			fmt.Fprintf(out, "%s (%s storefront)\n\n", name, base.Name)
			if len(product.Items) == 0 {
				fmt.Fprintln(out, "No in-app purchases listed.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "Name\tOffer\tPrice")
			for _, it := range product.Items {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", it.Name, it.OfferName, it.Price)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&appID, "app", "", "app id or App Store URL")
	cmd.Flags().StringVar(&region, "region", "US", "storefront region to read")
	_ = cmd.MarkFlagRequired("app")
	return cmd
}

func newRegionsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List the storefront regions a comparison visits",
		RunE: func(cmd *cobra.Command, _ []string) error {
			regions, err := regionCatalog(c.cfg)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "Code\tRegion")
			for _, r := range regions.All() {
				fmt.Fprintf(tw, "%s\t%s\n", r.Code, r.Name)
			}
			fmt.Fprintf(tw, "\n%d regions\n", regions.Len())
			return tw.Flush()
		},
	}
}
