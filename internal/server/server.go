// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/html"

	"github.com/ccitool/ccitool/internal/filters"
	"github.com/ccitool/ccitool/internal/log"
	"github.com/ccitool/ccitool/internal/source"
	"github.com/ccitool/ccitool/internal/viewer"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = "127.0.0.1:8080"

// ErrBadPath is returned for payload paths that are empty or try to escape
// the root.
var ErrBadPath = errors.New("bad payload path")

type Server struct {
	Root    string
	Fetcher source.Fetcher
	Options viewer.Options
}

func New(root string, f source.Fetcher, opts viewer.Options) *Server {
	if root == "" {
		root = "."
	}
	return &Server{Root: root, Fetcher: f, Options: opts}
}

// Router wires the routes onto a fresh gin engine.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/static/viewer.js", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/javascript; charset=utf-8", []byte(viewer.Script))
	})
	r.GET("/static/viewer.css", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/css; charset=utf-8", []byte(viewer.Stylesheet))
	})
	r.GET("/view/*path", s.View)

	return r
}

// View loads, renders and writes the report for the requested payload. Load
// failures are reported inside the page.
func (s *Server) View(c *gin.Context) {
	rel := c.Param("path")
	target, err := Resolve(s.Root, rel)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	var main *html.Node
	edits, err := viewer.Load(c.Request.Context(), s.Fetcher, target)
	if err != nil {
		log.WithError(err).WithField("path", target).Warn("failed to load payload")
		main = viewer.ErrorView(err.Error())
	} else {
		edits = filters.FilterEdits(edits, c.Query("filter"))
		v := viewer.Render(edits, s.Options)
		v.ApplyQuery(c.Request.URL.Query())
		main = v.Main
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := viewer.WriteHTML(c.Writer, viewer.Document(path.Base(rel), main)); err != nil {
		log.WithError(err).Warn("failed to write report")
	}
}

// Resolve joins a request path onto root. Any ".." segment is rejected rather
// than cleaned away.
func Resolve(root, rel string) (string, error) {
	rel = strings.TrimLeft(rel, "/")
	if rel == "" {
		return "", fmt.Errorf("%w: empty", ErrBadPath)
	}
	for _, seg := range strings.FieldsFunc(rel, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return "", fmt.Errorf("%w: %s", ErrBadPath, rel)
		}
	}

	if source.Scheme(root) != "file" {
		return strings.TrimRight(root, "/") + "/" + rel, nil
	}
	return filepath.Join(root, filepath.FromSlash(rel)), nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	log.Infof("serving %s on http://%s/view/", s.Root, addr)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debugf("%s %s %d %s", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start))
	}
}
