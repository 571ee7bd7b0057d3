// Copyright 2024 The Ontokit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ontokithttp serves a fact store and the rule engine over HTTP.
package ontokithttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ontokit/ontokit/clog"
	"github.com/ontokit/ontokit/factstore"
)

const prefix = "/api/v1"

const (
	hdrContentType     = "Content-Type"
	hdrContentEncoding = "Content-Encoding"
	hdrAccept          = "Accept"
	contentTypeJSON    = "application/json"
	defaultFormat      = "nquads"
)

// Config holds the settings of the API.
type Config struct {
	ReadOnly bool
	// Timeout bounds a single rule application request. Zero means no
	// limit.
	Timeout       time.Duration
	Batch         int
	Workers       int
	MaxIterations int
	Calibrate     bool
}

// API serves the routes of a single fact store.
type API struct {
	store   factstore.Store
	cfg     Config
	handler http.Handler
}

// New creates the API for s and registers its routes.
func New(s factstore.Store, cfg Config) *API {
	r := httprouter.New()
	api := &API{store: s, cfg: cfg, handler: r}
	api.registerOn(r)
	return api
}

func (api *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.handler.ServeHTTP(w, r)
}

func toHandle(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		handler(w, r)
	}
}

func (api *API) registerOn(r *httprouter.Router) {
	r.OPTIONS("/*path", corsFunc)
	r.POST(prefix+"/write", cors(api.rwOnly(logRequest(toHandle(api.ServeWrite)))))
	r.POST(prefix+"/infer", cors(logRequest(toHandle(api.ServeInfer))))
	r.GET(prefix+"/rules/builtins", cors(toHandle(ServeBuiltIns)))
	r.Handler(http.MethodGet, "/metrics", promhttp.Handler())
	r.GET("/health", toHandle(ServeHealth))
}

// ServeHealth answers liveness probes.
func ServeHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

type statusWriter struct {
	http.ResponseWriter
	code *int
}

func (w *statusWriter) WriteHeader(code int) {
	*(w.code) = code
	w.ResponseWriter.WriteHeader(code)
}

func logRequest(handler httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {
		start := time.Now()
		addr := req.Header.Get("X-Real-IP")
		if addr == "" {
			addr = req.Header.Get("X-Forwarded-For")
			if addr == "" {
				addr = req.RemoteAddr
			}
		}
		code := http.StatusOK
		rw := &statusWriter{ResponseWriter: w, code: &code}
		if clog.V(1) {
			clog.Infof("started %s %s for %s", req.Method, req.URL.Path, addr)
		}
		handler(rw, req, params)
		clog.Infof("completed %v %s %s in %v", code, http.StatusText(code), req.URL.Path, time.Since(start))
	}
}

func corsFunc(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	if origin := req.Header.Get("Origin"); origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers",
			"Accept, Content-Type, Content-Length, Accept-Encoding, Content-Encoding")
	}
}

func cors(h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {
		corsFunc(w, req, params)
		h(w, req, params)
	}
}

func (api *API) rwOnly(handler httprouter.Handle) httprouter.Handle {
	if api.cfg.ReadOnly {
		return func(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
			jsonResponse(w, http.StatusForbidden, errReadOnly)
		}
	}
	return handler
}

var errReadOnly = errors.New("database is read-only")

func jsonResponse(w http.ResponseWriter, code int, err interface{}) {
	w.Header().Set(hdrContentType, contentTypeJSON)
	w.WriteHeader(code)
	w.Write([]byte(`{"error": `))
	data, _ := json.Marshal(fmt.Sprint(err))
	w.Write(data)
	w.Write([]byte("}\n"))
}

// mediaTypes returns the media types listed in a header, in order.
func mediaTypes(h http.Header, name string) []string {
	var out []string
	for _, v := range h.Values(name) {
		for _, part := range strings.Split(v, ",") {
			typ, _, err := mime.ParseMediaType(strings.TrimSpace(part))
			if err == nil {
				out = append(out, typ)
			}
		}
	}
	return out
}

func (api *API) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if api.cfg.Timeout > 0 {
		return context.WithTimeout(r.Context(), api.cfg.Timeout)
	}
	return context.WithCancel(r.Context())
}

// Serve listens on addr and serves handler until ctx is done.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	clog.Infof("listening on %s", ln.Addr())
	select {
	case err = <-errc:
		return err
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err = <-errc; err == http.ErrServerClosed {
		return nil
	}
	return err
}
