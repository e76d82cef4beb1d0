// Package server exposes compile-and-trace over HTTP for the visualizer.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/ezrec/x86trace/compiler"
	"github.com/ezrec/x86trace/cpu"
	"github.com/ezrec/x86trace/trace"
	"github.com/ezrec/x86trace/translate"
)

var f = translate.From

// Compiler turns source text into an assembly listing.
type Compiler interface {
	Compile(ctx context.Context, source string) (lines []string, err error)
}

// Request is the body of a POST /compile.
type Request struct {
	Code  string   `json:"code"`
	Setup []string `json:"setup,omitempty"`
}

// Response is the body of a successful POST /compile.
type Response struct {
	Instructions []string    `json:"instructions"`
	Steps        trace.Trace `json:"steps"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server handles compile-and-trace requests.
type Server struct {
	Verbose  bool          // If set, logs every request.
	Compiler Compiler      // Compiler used for every request.
	Timeout  time.Duration // Per request limit on compiling; zero for none.

	mux *http.ServeMux
}

// NewServer creates a server using a compiler.
func NewServer(c Compiler) (s *Server) {
	s = &Server{
		Compiler: c,
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("/compile", s.handleCompile)

	return
}

func setCorsHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		log.Printf("server: %v", err)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCorsHeaders(w)
	if s.Verbose {
		log.Printf("server: %v %v", r.Method, r.URL.Path)
	}
	s.mux.ServeHTTP(w, r)
}

// statusOf maps a failure to its HTTP status and message.
func statusOf(err error) (status int, msg string) {
	var compileErr *compiler.ErrCompile
	var syntaxErr *cpu.ErrSyntax
	var runtimeErr *trace.ErrRuntime
	var setupErr *cpu.ErrSetup

	switch {
	case errors.As(err, &compileErr):
		return http.StatusBadRequest, compileErr.Diagnostic
	case errors.Is(err, compiler.ErrUnavailable):
		return http.StatusBadGateway, err.Error()
	case errors.As(err, &syntaxErr), errors.As(err, &runtimeErr), errors.As(err, &setupErr):
		return http.StatusUnprocessableEntity, err.Error()
	}

	return http.StatusInternalServerError, f("backend exception: %v", err)
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: f("method %v not allowed", r.Method)})
		return
	}

	var req Request
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: f("request: %v", err)})
		return
	}

	resp, err := s.Run(r.Context(), req)
	if err != nil {
		status, msg := statusOf(err)
		if s.Verbose {
			log.Printf("server: %d %v", status, err)
		}
		writeJSON(w, status, ErrorResponse{Error: msg})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Run compiles a request's source and traces the resulting listing.
func (s *Server) Run(ctx context.Context, req Request) (resp Response, err error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	lines, err := s.Compiler.Compile(ctx, req.Code)
	if err != nil {
		return
	}

	builder := &trace.Builder{Verbose: s.Verbose, Setup: req.Setup}
	steps, err := builder.Build(lines)
	if err != nil {
		return
	}

	resp = Response{
		Instructions: lines,
		Steps:        steps,
	}
	if resp.Instructions == nil {
		resp.Instructions = []string{}
	}

	return
}

// ListenAndServe serves requests on an address until the server fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("server: listening on %v", addr)

	return srv.ListenAndServe()
}
