package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"blobdeps/internal/config"
	"blobdeps/internal/model"
	"blobdeps/internal/resolve"
)

//go:embed static/*
var staticFS embed.FS

//go:embed help.md
var helpMD string

// contextRadius is the default byte window for /api/context.
const contextRadius = 64

// Server exposes scans of one system dump over HTTP. Every scan request is an
// independent run with its own registry.
type Server struct {
	settings config.Settings
	index    *resolve.Index
	log      zerolog.Logger
}

// NewServer creates a server for the dump described by settings.
func NewServer(settings config.Settings, index *resolve.Index, log zerolog.Logger) *Server {
	return &Server{settings: settings, index: index, log: log}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	subFS, _ := fs.Sub(staticFS, "static")
	mux.Handle("/", http.FileServer(http.FS(subFS)))

	// API Endpoints
	mux.HandleFunc("/api/scan", s.handleScan)
	mux.HandleFunc("/api/context", s.handleContext)
	mux.HandleFunc("/api/ls", s.handleLs)
	mux.HandleFunc("/api/help", handleHelp)
	return mux
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// ScanResponse is the body of /api/scan.
type ScanResponse struct {
	Result        model.Result `json:"Result"`
	Blobs         []string     `json:"Blobs"`
	Report        string       `json:"Report"`
	VerboseReport string       `json:"VerboseReport"`
	Version       string       `json:"Version"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	targets := r.URL.Query()["target"]
	if len(targets) == 0 {
		http.Error(w, "target is required", http.StatusBadRequest)
		return
	}

	var out bytes.Buffer
	res := resolve.New(s.settings.ResolverOptions(), s.index, &out, s.log)
	for _, t := range targets {
		if err := res.ResolveTarget(r.Context(), t); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			s.log.Warn().Err(err).Str("target", t).Msg("scan target failed")
		}
	}

	result := res.Result()
	writeJSON(w, ScanResponse{
		Result:        result,
		Blobs:         result.Blobs(),
		Report:        resolve.GenerateReport(result, false),
		VerboseReport: resolve.GenerateReport(result, true),
		Version:       model.Version,
	})
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	offsetStr := r.URL.Query().Get("offset")
	if path == "" || offsetStr == "" {
		http.Error(w, "path and offset are required", http.StatusBadRequest)
		return
	}

	offset, err := strconv.Atoi(offsetStr)
	if err != nil {
		http.Error(w, "invalid offset", http.StatusBadRequest)
		return
	}

	if !s.insideRoot(path) {
		http.Error(w, "path is outside the system dump", http.StatusForbidden)
		return
	}

	writeJSON(w, model.GetByteContext(path, offset, contextRadius))
}

// LsEntry is one row of /api/ls.
type LsEntry struct {
	Name    string `json:"Name"`
	IsDir   bool   `json:"IsDir"`
	Size    int64  `json:"Size"`
	Mode    string `json:"Mode"`
	ModTime string `json:"ModTime"`
}

func (s *Server) handleLs(w http.ResponseWriter, r *http.Request) {
	dir := r.URL.Query().Get("dir")
	if dir == "" {
		http.Error(w, "dir is required", http.StatusBadRequest)
		return
	}
	if !slices.Contains(s.settings.Directories, dir) {
		http.Error(w, fmt.Sprintf("%s is not a library directory", dir), http.StatusBadRequest)
		return
	}

	files, err := os.ReadDir(filepath.Join(s.settings.Root, filepath.FromSlash(dir)))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	entries := []LsEntry{}
	for _, f := range files {
		info, err := f.Info()
		if err != nil {
			continue
		}
		entries = append(entries, LsEntry{
			Name:    f.Name(),
			IsDir:   f.IsDir(),
			Size:    info.Size(),
			Mode:    info.Mode().String(),
			ModTime: info.ModTime().Format("Jan 02 15:04"),
		})
	}

	writeJSON(w, entries)
}

func handleHelp(w http.ResponseWriter, r *http.Request) {
	text := strings.ReplaceAll(helpMD, "{{VERSION}}", model.Version)

	w.Header().Set("Content-Type", "text/markdown")
	w.Write([]byte(text))
}

// insideRoot reports whether path is within the dump root.
func (s *Server) insideRoot(path string) bool {
	root, err := filepath.Abs(s.settings.Root)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
