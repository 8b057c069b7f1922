package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/exvulsec/rugscope/config"
	"github.com/exvulsec/rugscope/http/controller"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type HTTPServer struct {
	srv     *http.Server
	routers *gin.Engine
	onStop  []func()
}

func NewHTTPServer(conf config.HTTPServerConfig, controllers ...controller.Controller) *HTTPServer {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), cors.Default())
	addRouters(r, conf.APIKey, controllers)

	return &HTTPServer{
		routers: r,
		srv: &http.Server{
			Addr:              net.JoinHostPort(conf.Host, strconv.Itoa(conf.Port)),
			Handler:           r,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// OnStop registers fn to run after the listener has shut down.
func (s *HTTPServer) OnStop(fn func()) {
	s.onStop = append(s.onStop, fn)
}

// Run serves until SIGINT or SIGTERM and returns the listener error, if any.
func (s *HTTPServer) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.serve(ctx)
}

func (s *HTTPServer) serve(ctx context.Context) error {
	logrus.Infof("rugscope api listening on %s", s.srv.Addr)
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}
	s.shutdown()
	return serveErr
}

func (s *HTTPServer) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		logrus.Warnf("server forced to shutdown: %v", err)
	}
	for _, fn := range s.onStop {
		fn()
	}
	logrus.Info("rugscope api closed")
}
