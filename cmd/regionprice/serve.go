package main

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"regionprice/internal/compare"
	"regionprice/internal/rates"
	"regionprice/internal/store"
)

func newServeCmd(c *cli) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve comparisons over a JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port == "" {
				port = c.cfg.Server.Port
			}
			a, err := newApp(cmd.Context(), c.cfg, c.log, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			api := &server{
				service: a.service,
				log:     c.log,
				timeout: c.cfg.Server.RequestTimeout(),
			}
			if a.history != nil {
				api.history = a.history
			}
			srv := &http.Server{
				Addr:              ":" + port,
				Handler:           api.routes(a.registry),
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       15 * time.Second,
				WriteTimeout:      api.timeout + 10*time.Second,
				IdleTimeout:       60 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				c.log.Info("server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			select {
			case err := <-errc:
				return err
			case <-cmd.Context().Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			c.log.Info("shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (default: server.port)")
	return cmd
}

// historyStore is the read and write side of run history used by the API.
type historyStore interface {
	SaveRun(ctx context.Context, r *compare.Report) error
	History(ctx context.Context, appID string, limit int) ([]store.RunSummary, error)
}

type server struct {
	service *compare.Service
	history historyStore
	log     *zap.Logger
	timeout time.Duration
}

func (s *server) routes(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	// withGzip compresses the exposition; promhttp must not do it again.
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{DisableCompression: true}))
	mux.HandleFunc("GET /api/compare", s.handleCompare)
	mux.HandleFunc("GET /api/items", s.handleItems)
	mux.HandleFunc("GET /api/regions", s.handleRegions)
	mux.HandleFunc("GET /api/history", s.handleHistory)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(withGzip(s.recoverPanic(limitBody(mux))))
}

func (s *server) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := compare.Request{
		AppID:    q.Get("app"),
		Currency: q.Get("currency"),
		Item:     q.Get("item"),
		Region:   q.Get("region"),
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	report, err := s.service.Run(ctx, req)
	if err != nil && !errors.Is(err, compare.ErrNoPricingData) {
		s.writeError(w, err)
		return
	}
	if s.history != nil {
		if err := s.history.SaveRun(ctx, report); err != nil {
			s.log.Error("saving run failed", zap.String("run_id", report.RunID), zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *server) handleItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	appID, err := compare.ParseAppID(q.Get("app"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	region := q.Get("region")
	if region == "" {
		region = "US"
	}
	base, err := s.service.BaseRegion("", region)
	if err != nil {
		s.writeError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	product, err := s.service.Discover(ctx, appID, base)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Catalog().All())
}

func (s *server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "history store not configured"})
		return
	}
	q := r.URL.Query()
	appID, err := compare.ParseAppID(q.Get("app"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	limit := 0
	if v := q.Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 0 || limit > 500 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "limit must be between 0 and 500"})
			return
		}
	}
	runs, err := s.history.History(r.Context(), appID, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, compare.ErrInvalidAppID),
		errors.Is(err, compare.ErrInvalidCurrency),
		errors.Is(err, compare.ErrUnknownRegion):
		status = http.StatusBadRequest
	case errors.Is(err, compare.ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, rates.ErrUnavailable):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// withGzip compresses response when client supports gzip.
func withGzip(next http.Handler) http.Handler {
	var gzPool = sync.Pool{New: func() any {
		w, _ := gzip.NewWriterLevel(io.Discard, gzip.BestSpeed)
		return w
	}}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}
		gz := gzPool.Get().(*gzip.Writer)
		gz.Reset(w)
		defer func() {
			_ = gz.Close()
			gz.Reset(io.Discard)
			gzPool.Put(gz)
		}()
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Add("Vary", "Accept-Encoding")
		next.ServeHTTP(gzipResponseWriter{ResponseWriter: w, Writer: gz}, r)
	})
}

type gzipResponseWriter struct {
	http.ResponseWriter
	Writer io.Writer
}

func (g gzipResponseWriter) Write(b []byte) (int, error) {
	return g.Writer.Write(b)
}

// limitBody caps request body size.
func limitBody(next http.Handler) http.Handler {
	const maxBody = 64 << 10
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("handler panic", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
