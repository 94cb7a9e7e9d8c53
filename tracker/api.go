// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/app/lifecycle"
	"github.com/padfi/launchpad-go/app/log"
	"github.com/padfi/launchpad-go/app/z"
	"github.com/padfi/launchpad-go/db"
	"github.com/padfi/launchpad-go/db/sales"
)

// wireMonitoringAPI constructs the monitoring API handlers and registers
// the server with the life cycle manager.
func wireMonitoringAPI(life *lifecycle.Manager, addr string, registry *prometheus.Registry,
	store sales.DB, poller *poller,
) {
	router := mux.NewRouter()

	router.Handle("/metrics", promhttp.InstrumentMetricHandler(
		registry, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	))
	router.HandleFunc("/readyz", newReadyHandler(poller))

	endpoints := []struct {
		Name    string
		Path    string
		Handler handlerFunc
	}{
		{
			Name:    "sales",
			Path:    "/sales",
			Handler: listSales(store),
		},
		{
			Name:    "sale",
			Path:    "/sales/{address}",
			Handler: getSale(store),
		},
	}

	for _, e := range endpoints {
		router.Handle(e.Path, wrap(e.Name, e.Handler))
	}

	server := &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: time.Second}

	life.RegisterStart(lifecycle.AsyncBackground, lifecycle.StartMonitoringAPI, httpServeHook(server.ListenAndServe))
	life.RegisterStop(lifecycle.StopMonitoringAPI, lifecycle.HookFunc(server.Shutdown))
}

// newReadyHandler returns a handler that returns 200 while the poller
// keeps refreshing state, 503 otherwise.
func newReadyHandler(poller *poller) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if !poller.Ready() {
			writeMsg(w, http.StatusServiceUnavailable, "poller stale")
			return
		}

		writeMsg(w, http.StatusOK, "ok")
	}
}

// handlerFunc is a convenient api handler function providing a context and
// parsed path parameters, and returning the response struct or an error.
type handlerFunc func(ctx context.Context, params map[string]string) (any, error)

// wrap adapts the handler function returning a standard http handler.
// It does metrics and response and error writing.
func wrap(endpoint string, handler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer observeAPILatency(endpoint)()

		res, err := handler(r.Context(), mux.Vars(r))
		if err != nil {
			writeError(r.Context(), w, endpoint, err)
			return
		}

		writeJSON(w, endpoint, res)
	})
}

// listSales returns a handler function serving all token sale snapshots.
func listSales(store sales.DB) handlerFunc {
	return func(context.Context, map[string]string) (any, error) {
		snapshots, err := store.List()
		if err != nil {
			return nil, err
		}

		if snapshots == nil {
			snapshots = []sales.Snapshot{} // Serve an empty list, not null.
		}

		return snapshots, nil
	}
}

// getSale returns a handler function serving a single token sale snapshot
// by account address.
func getSale(store sales.DB) handlerFunc {
	return func(_ context.Context, params map[string]string) (any, error) {
		addr, err := solana.PublicKeyFromBase58(params["address"])
		if err != nil {
			return nil, apiError{
				StatusCode: http.StatusBadRequest,
				Message:    "Invalid sale address",
				Err:        err,
			}
		}

		snapshot, err := store.Get(addr)
		if errors.Is(err, db.ErrNotFound) {
			return nil, apiError{
				StatusCode: http.StatusNotFound,
				Message:    "Unknown token sale",
				Err:        err,
			}
		} else if err != nil {
			return nil, err
		}

		return snapshot, nil
	}
}

// apiError defines a monitoring api error with an explicit status code.
type apiError struct {
	// StatusCode is the http status code to return, defaults to 500.
	StatusCode int
	// Message is a safe human-readable message.
	Message string
	// Err is the original error.
	Err error
}

func (a apiError) Error() string {
	return fmt.Sprintf("api error[status=%d,msg=%s]: %v", a.StatusCode, a.Message, a.Err)
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes the 200 OK response and json response body.
func writeJSON(w http.ResponseWriter, endpoint string, response any) {
	b, err := json.Marshal(response)
	if err != nil {
		writeError(context.Background(), w, endpoint, errors.Wrap(err, "marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// writeError writes an error response, mapping unexpected errors to 500.
func writeError(ctx context.Context, w http.ResponseWriter, endpoint string, err error) {
	var aerr apiError
	if !errors.As(err, &aerr) {
		aerr = apiError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
			Err:        err,
		}
	}

	if aerr.StatusCode == http.StatusInternalServerError {
		log.Error(ctx, "Monitoring API internal error", aerr.Err, z.Str("endpoint", endpoint))
	}

	incAPIErrors(endpoint, aerr.StatusCode)

	b, err := json.Marshal(errorResponse{Code: aerr.StatusCode, Message: aerr.Message})
	if err != nil {
		b = []byte(`{"code":500,"message":"Failed marshalling error response"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(aerr.StatusCode)
	_, _ = w.Write(b)
}

func writeMsg(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

// httpServeHook wraps a http server serve function, swallowing the expected
// shutdown error.
type httpServeHook func() error

func (h httpServeHook) Call(context.Context) error {
	err := h()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	} else if err != nil {
		return errors.Wrap(err, "serve monitoring api")
	}

	return nil
}
