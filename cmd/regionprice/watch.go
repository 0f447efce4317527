package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"regionprice/internal/compare"
	"regionprice/internal/watch"
)

func newWatchCmd(c *cli) *cobra.Command {
	var (
		req      compare.Request
		schedule string
		now      bool
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run a comparison on a cron schedule and record every run",
		Example: `  regionprice watch --app 1234567890 --currency USD --schedule "0 */6 * * *"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if schedule == "" {
				schedule = c.cfg.Watch.Schedule
			}
			if _, err := compare.ParseAppID(req.AppID); err != nil {
				return err
			}
			if _, err := compare.ParseCurrency(req.Currency); err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), c.cfg, c.log, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			var recorder watch.Recorder
			if a.history != nil {
				recorder = a.history
			} else {
				c.log.Warn("database.url not set; runs will only be logged")
			}

			w := watch.New(a.service, recorder, c.log, c.cfg.Watch.Timeout())
			if _, err := w.Add(schedule, req); err != nil {
				return err
			}
			c.log.Info("watching", zap.String("app_id", req.AppID), zap.String("currency", req.Currency), zap.String("schedule", schedule))

			w.Start()
			if now {
				go func() { _ = w.RunNow(cmd.Context(), req) }()
			}
			<-cmd.Context().Done()
			c.log.Info("stopping watcher")
			w.Stop()
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.AppID, "app", "", "app id or App Store URL")
	f.StringVar(&req.Currency, "currency", "", "base currency, e.g. USD")
	f.StringVar(&req.Item, "item", "", "in-app purchase to compare instead of the app")
	f.StringVar(&req.Region, "region", "", "base storefront region (default: derived from currency)")
	f.StringVar(&schedule, "schedule", "", "cron spec or descriptor (default: watch.schedule)")
	f.BoolVar(&now, "now", false, "also run once immediately")
	_ = cmd.MarkFlagRequired("app")
	_ = cmd.MarkFlagRequired("currency")
	return cmd
}
