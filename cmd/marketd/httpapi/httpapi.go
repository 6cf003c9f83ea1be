package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/flocx/flocx-market/auth"
	mm "github.com/flocx/flocx-market/cmd/marketd/market"
	"github.com/flocx/flocx-market/market"
	"github.com/go-chi/chi/v5"
	logging "github.com/textileio/go-log/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	// LogName is the logger name of the HTTP API.
	LogName = "http-api"

	maxBodySize = 1 << 20
)

var log = logging.Logger(LogName)

// NewServer starts serving the market REST API on listenAddr.
func NewServer(listenAddr string, m *mm.Market, tokens *auth.Tokens) (*http.Server, error) {
	if m == nil {
		return nil, errors.New("market is nil")
	}
	if tokens == nil {
		return nil, errors.New("tokens is nil")
	}
	httpServer := &http.Server{
		Addr:              listenAddr,
		ReadHeaderTimeout: time.Second * 5,
		WriteTimeout:      time.Second * 10,
		Handler:           NewHandler(m, tokens),
	}

	log.Infof("Running HTTP API...")
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("stopping http server: %s", err)
		}
	}()

	return httpServer, nil
}

// NewHandler returns the router of the market REST API.
func NewHandler(m *mm.Market, tokens *auth.Tokens) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Group(func(r chi.Router) {
		r.Use(scopeMiddleware(tokens))
		mount(r, "/bid", bidRoutes(m.Bids))
		mount(r, "/offer", offerRoutes(m.Offers))
		mount(r, "/contract", contractRoutes(m.Contracts))
		mount(r, "/offer_contract_relationship", relationshipRoutes(m.Relationships))
	})

	return otelhttp.NewHandler(r, "marketd")
}

// scopeMiddleware authenticates the bearer token and stores the caller
// scope in the request context.
func scopeMiddleware(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := tokens.ParseBearer(r.Header.Get("Authorization"))
			if err != nil {
				httpError(w, err.Error(), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), s)))
		})
	}
}

// routes are the operations behind the REST endpoints of one entity kind.
type routes[T any] struct {
	list    func(ctx context.Context, s auth.Scope, r *http.Request) ([]T, error)
	get     func(ctx context.Context, s auth.Scope, id string) (T, error)
	create  func(ctx context.Context, s auth.Scope, body io.Reader) (T, error)
	update  func(ctx context.Context, s auth.Scope, id string, body io.Reader) (T, error)
	destroy func(ctx context.Context, s auth.Scope, id string) error
}

func mount[T any](r chi.Router, path string, rs routes[T]) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			es, err := rs.list(r.Context(), scope(r), r)
			if err != nil {
				writeErr(w, err)
				return
			}
			if es == nil {
				es = []T{}
			}
			writeJSON(w, http.StatusOK, es)
		})
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			e, err := rs.get(r.Context(), scope(r), chi.URLParam(r, "id"))
			if err != nil {
				writeErr(w, err)
				return
			}
			writeJSON(w, http.StatusOK, e)
		})
		if rs.create != nil {
			r.Post("/", func(w http.ResponseWriter, r *http.Request) {
				e, err := rs.create(r.Context(), scope(r), http.MaxBytesReader(w, r.Body, maxBodySize))
				if err != nil {
					writeErr(w, err)
					return
				}
				writeJSON(w, http.StatusCreated, e)
			})
		}
		r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
			body := http.MaxBytesReader(w, r.Body, maxBodySize)
			e, err := rs.update(r.Context(), scope(r), chi.URLParam(r, "id"), body)
			if err != nil {
				writeErr(w, err)
				return
			}
			writeJSON(w, http.StatusOK, e)
		})
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			if err := rs.destroy(r.Context(), scope(r), chi.URLParam(r, "id")); err != nil {
				writeErr(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})
}

func scope(r *http.Request) auth.Scope {
	s, _ := auth.FromContext(r.Context())
	return s
}

// errBadRequest marks malformed requests.
var errBadRequest = errors.New("bad request")

func decode(body io.Reader, v interface{}) error {
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decoding body: %s: %w", err, errBadRequest)
	}
	return nil
}

// unexpired reports whether the listing asks only for unexpired entities.
func unexpired(r *http.Request) (bool, error) {
	v := r.URL.Query().Get("unexpired")
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing unexpired: %s: %w", err, errBadRequest)
	}
	return b, nil
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, market.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrPermissionDenied),
		errors.Is(err, auth.ErrRequiresAdmin),
		errors.Is(err, auth.ErrInvalidScope):
		return http.StatusForbidden
	case errors.Is(err, market.ErrValidation),
		errors.Is(err, market.ErrConstraintViolation),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeErr(w http.ResponseWriter, err error) {
	httpError(w, err.Error(), statusCode(err))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("marshaling response: %s", err)
	}
}

func httpError(w http.ResponseWriter, err string, status int) {
	if status >= http.StatusInternalServerError {
		log.Errorf("request error: %s", err)
	} else {
		log.Debugf("request error: %s", err)
	}
	http.Error(w, err, status)
}
