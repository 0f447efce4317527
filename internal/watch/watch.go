// Package watch runs comparisons on a cron schedule and records each run.
package watch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"regionprice/internal/compare"
)

type Runner interface {
	Run(ctx context.Context, req compare.Request) (*compare.Report, error)
}

type Recorder interface {
	SaveRun(ctx context.Context, r *compare.Report) error
}

// Watcher schedules comparisons. A job still running when its next tick
// arrives is skipped.
type Watcher struct {
	cron     *cron.Cron
	runner   Runner
	recorder Recorder
	log      *zap.Logger
	timeout  time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

// New builds a watcher. recorder may be nil; timeout bounds each run.
func New(runner Runner, recorder Recorder, log *zap.Logger, timeout time.Duration) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	cl := cronLogger{log.Sugar()}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		cron:     cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		runner:   runner,
		recorder: recorder,
		log:      log,
		timeout:  timeout,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Add schedules req using a standard five-field spec or a descriptor such
// as "@hourly" or "@every 6h".
func (w *Watcher) Add(spec string, req compare.Request) (cron.EntryID, error) {
	id, err := w.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(w.ctx, w.timeout)
		defer cancel()
		_ = w.RunNow(ctx, req)
	})
	if err != nil {
		return 0, fmt.Errorf("scheduling %q: %w", spec, err)
	}
	return id, nil
}

// RunNow runs req once and records the report. Empty sweeps are recorded
// too so history shows the gap.
func (w *Watcher) RunNow(ctx context.Context, req compare.Request) error {
	log := w.log.With(zap.String("app_id", req.AppID), zap.String("currency", req.Currency))
	report, err := w.runner.Run(ctx, req)
	switch {
	case errors.Is(err, compare.ErrNoPricingData):
		log.Warn("scheduled comparison found no prices", zap.String("run_id", report.RunID))
	case err != nil:
		log.Error("scheduled comparison failed", zap.Error(err))
		return err
	default:
		log.Info("scheduled comparison finished", zap.String("run_id", report.RunID), zap.Int("records", len(report.Records)))
	}

	if w.recorder == nil {
		return nil
	}
	if err := w.recorder.SaveRun(ctx, report); err != nil {
		log.Error("saving run failed", zap.String("run_id", report.RunID), zap.Error(err))
		return err
	}
	return nil
}

func (w *Watcher) Entries() []cron.Entry { return w.cron.Entries() }

func (w *Watcher) Start() { w.cron.Start() }

// Stop halts scheduling, cancels running jobs and waits for them to return.
func (w *Watcher) Stop() {
	done := w.cron.Stop()
	w.cancel()
	<-done.Done()
}

type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
