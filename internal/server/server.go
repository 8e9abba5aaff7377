package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/http2"
	"golang.org/x/sync/errgroup"

	"github.com/llama-swappo/swappo/internal/logger"
	"github.com/llama-swappo/swappo/internal/server/middleware"
	logutils "github.com/llama-swappo/swappo/internal/utils/logger"
)

const shutdownGrace = 5 * time.Second

// Options configures the dashboard server
type Options struct {
	Port     string
	Dir      string
	LogLevel string
	// Timeout bounds each request. Zero means no bound.
	Timeout time.Duration
	ExitCh  chan string
	// Out receives the start banner. Nil discards it.
	Out io.Writer
}

// Server serves the dashboard's static files
type Server struct {
	ctx     context.Context
	port    string
	dir     string
	timeout time.Duration
	exitCh  chan string
	out     io.Writer
}

// New creates a new server instance
func New(ctx context.Context, opts Options) (*Server, error) {
	// set up the server's logger
	lgr := logger.New(
		ctx,
		"dashboard",
		logger.LevelFromString(opts.LogLevel),
		opts.ExitCh,
	)
	ctx = logutils.ContextWithLogger(ctx, lgr)

	if opts.Port == "" {
		return nil, errors.New("port is required")
	}
	if opts.Dir == "" {
		return nil, errors.New("dir is required")
	}
	info, err := os.Stat(opts.Dir)
	if err != nil {
		return nil, errors.Wrap(err, "error opening dashboard directory")
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", opts.Dir)
	}

	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	return &Server{
		ctx:     ctx,
		port:    opts.Port,
		dir:     opts.Dir,
		timeout: opts.Timeout,
		exitCh:  opts.ExitCh,
		out:     out,
	}, nil
}

// Handler returns the static file handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.dir)))

	return middleware.Wrap(s.ctx, mux, middleware.Params{
		Timeout: s.timeout,
	})
}

// Start serves until ctx is done, then shuts down gracefully. It returns nil
// after a clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	lgr := logutils.FromContext(s.ctx)

	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(l net.Listener) context.Context { return s.ctx },
	}

	// Enable HTTP/2 support
	if err := http2.ConfigureServer(srv, nil); err != nil {
		return errors.Wrap(err, "error configuring HTTP/2")
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return errors.Wrapf(err, "error listening on port %s", s.port)
	}

	s.printBanner(ln.Addr())
	lgr.Infof(s.ctx, "Serving %s on %s", s.dir, ln.Addr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "error serving dashboard")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprint(s.out, "\n\n👋 Shutting down dashboard...\n")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) printBanner(addr net.Addr) {
	port := s.port
	if tcp, ok := addr.(*net.TCPAddr); ok {
		port = fmt.Sprint(tcp.Port)
	}
	fmt.Fprintf(s.out, `
╔═══════════════════════════════════════════════════════════╗
║                                                           ║
║   🦙 Llama Swappo Dashboard                               ║
║                                                           ║
║   Dashboard: http://localhost:%-28s║
║   API Proxy: Enabled (CORS)                               ║
║                                                           ║
║   Press Ctrl+C to stop                                    ║
║                                                           ║
╚═══════════════════════════════════════════════════════════╝

`, port)
}
