// Package router serves a fixed table of static text responses over HTTP.
//
// Matching is exact on method and path. Anything not in the table gets
// chi's default 404 (or 405 for a known path with another method).
package router

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/marmos91/essentials/internal/logger"
	"github.com/marmos91/essentials/internal/telemetry"
	"github.com/marmos91/essentials/pkg/metrics"
)

const (
	contentType    = "text/html; charset=utf-8"
	requestTimeout = 30 * time.Second
	unmatchedRoute = "unmatched"
)

// NewRouter returns a chi router serving table. m may be nil.
//
// Middleware, outermost first: request ID, real IP, tracing, logging,
// metrics, panic recovery, request timeout, GET handlers answering HEAD.
func NewRouter(table *RouteTable, m metrics.HTTPMetrics) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestTracer)
	r.Use(requestLogger)
	if m != nil {
		r.Use(requestMetrics(m))
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.GetHead)

	for _, route := range table.Routes() {
		r.Method(route.Method, route.Path, staticHandler(route.Body))
	}
	return r
}

// staticHandler writes body with 200. HEAD gets the same headers and no
// body.
func staticHandler(body string) http.HandlerFunc {
	length := strconv.Itoa(len(body))
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", length)
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = io.WriteString(w, body)
	}
}

// routePattern returns the matched chi pattern. Only meaningful after the
// request has been routed.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}

func requestTracer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := telemetry.StartSpan(r.Context(), "HTTP "+r.Method,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			))
		defer span.End()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		route := routePattern(r)
		span.SetName("HTTP " + r.Method + " " + route)
		span.SetAttributes(
			attribute.String(telemetry.AttrHTTPRoute, route),
			attribute.Int("http.status_code", ww.Status()),
		)
	})
}

// requestLogger logs each request using the internal logger. The request ID
// is attached to the context so handler logs carry it too.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lc := &logger.LogContext{
			RequestID: middleware.GetReqID(r.Context()),
			StartTime: start,
		}
		lc = lc.WithTrace(telemetry.TraceID(r.Context()), telemetry.SpanID(r.Context()))
		ctx := logger.WithContext(r.Context(), lc)

		logger.DebugCtx(ctx, "Request started",
			logger.KeyMethod, r.Method,
			logger.Path(r.URL.Path),
			logger.KeyRemoteAddr, r.RemoteAddr,
		)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		logger.InfoCtx(ctx, "Request completed",
			logger.KeyMethod, r.Method,
			logger.Path(r.URL.Path),
			logger.KeyStatus, ww.Status(),
			"bytes", ww.BytesWritten(),
			logger.KeyDurationMs, lc.DurationMs(),
		)
	})
}

func requestMetrics(m metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m.InFlight(1)
			defer m.InFlight(-1)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			m.RecordRequest(r.Method, routePattern(r), ww.Status(), time.Since(start))
		})
	}
}
