package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"regionprice/internal/collect"
	"regionprice/internal/compare"
	"regionprice/internal/currency"
	"regionprice/internal/extract"
)

func newCompareCmd(c *cli) *cobra.Command {
	var (
		req    compare.Request
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Fetch the price in every region and convert it to one currency",
		Example: `  regionprice compare --app 1234567890 --currency USD
  regionprice compare --app https://apps.apple.com/us/app/x/id1234567890 --currency EUR --item "Pro Monthly"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			progressOut := out
			if asJSON {
				progressOut = cmd.ErrOrStderr()
			}
			a, err := newApp(cmd.Context(), c.cfg, c.log, progressPrinter(progressOut, currency.DefaultTable()))
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.service.Run(cmd.Context(), req)
			if errors.Is(err, compare.ErrNoPricingData) {
				if asJSON {
					return writeReportJSON(out, report)
				}
				fmt.Fprintln(out, "No pricing data available.")
				return nil
			}
			if err != nil {
				return err
			}
			if a.history != nil {
				if err := a.history.SaveRun(cmd.Context(), report); err != nil {
					return err
				}
			}
			if asJSON {
				return writeReportJSON(out, report)
			}
			return writeReport(out, report)
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.AppID, "app", "", "app id or App Store URL")
	f.StringVar(&req.Currency, "currency", "", "base currency, e.g. USD")
	f.StringVar(&req.Item, "item", "", "in-app purchase to compare instead of the app")
	f.StringVar(&req.Region, "region", "", "base storefront region (default: derived from currency)")
	f.BoolVar(&asJSON, "json", false, "print the full report as JSON")
	_ = cmd.MarkFlagRequired("app")
	_ = cmd.MarkFlagRequired("currency")
	return cmd
}

func progressPrinter(w io.Writer, currencies *currency.Table) func(collect.Outcome) {
	return func(o collect.Outcome) {
		switch {
		case o.Err != nil:
		case o.Price.Kind == extract.KindDisplayOnly:
			fmt.Fprintf(w, "%s -> %s (display only)\n", o.Region.Name, o.Price.Display)
		default:
			fmt.Fprintf(w, "%s -> %s (%s)\n", o.Region.Name, currencies.Format(o.Price.Amount, o.Price.Currency), o.Price.Currency)
		}
	}
}

func writeReport(w io.Writer, r *compare.Report) error {
	title := r.AppName
	if title == "" {
		title = "app " + r.AppID
	}
	if r.Item != nil {
		title += " / " + r.Item.Name
	}
	fmt.Fprintf(w, "\n%s, prices in %s (base storefront %s)\n\n", title, r.BaseCurrency, r.BaseRegion.Name)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Region\tPrice\tCurrency\tConverted (%s)\n", r.BaseCurrency)
	for _, row := range r.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.Region, row.Price, row.Currency, row.Converted)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.DisplayOnly) > 0 {
		fmt.Fprintln(w, "\nDisplay-only prices (not converted):")
		for _, d := range r.DisplayOnly {
			fmt.Fprintf(w, "  %s: %s\n", d.Region.Name, d.Label)
		}
	}
	fmt.Fprintf(w, "\n%d regions priced, %d display-only, %d skipped.\n", len(r.Rows), len(r.DisplayOnly), len(r.Failures))
	return nil
}

func writeReportJSON(w io.Writer, r *compare.Report) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
