package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nearwatch/receipt-watcher/module/component"
	"github.com/nearwatch/receipt-watcher/module/irrecoverable"
)

const shutdownTimeout = 5 * time.Second

// Server is the http server that will be serving the /metrics request for prometheus
type Server struct {
	component.Component

	address string
	server  *http.Server
	log     zerolog.Logger
}

// NewServer creates a new server that will start on the specified port,
// and responds to only the `/metrics` endpoint
func NewServer(log zerolog.Logger, port uint) *Server {
	addr := ":" + strconv.Itoa(int(port))

	mux := http.NewServeMux()
	endpoint := "/metrics"
	mux.Handle(endpoint, promhttp.Handler())

	m := &Server{
		address: addr,
		server:  &http.Server{Addr: addr, Handler: mux},
		log:     log.With().Str("component", "metrics_server").Str("endpoint", endpoint).Logger(),
	}

	m.Component = component.NewComponentManagerBuilder().
		AddWorker(m.serve).
		Build()

	return m
}

func (m *Server) serve(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	listener, err := net.Listen("tcp", m.address)
	if err != nil {
		m.log.Err(err).Str("address", m.address).Msg("could not listen for metrics server")
		ctx.Throw(err)
		return
	}
	m.log.Info().Str("address", listener.Addr().String()).Msg("metrics server started")

	var g errgroup.Group
	g.Go(func() error {
		err := m.server.Serve(listener)
		// http.ErrServerClosed is returned when Close or Shutdown is called
		if errors.Is(err, http.ErrServerClosed) {
			m.log.Debug().Err(err).Msg("metrics server shutdown")
			return nil
		}
		return err
	})
	ready()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := m.server.Shutdown(shutdownCtx); err != nil {
		m.log.Warn().Err(err).Msg("metrics server did not shut down cleanly")
	}
	if err := g.Wait(); err != nil {
		m.log.Err(err).Msg("error shutting down metrics server")
	}
}
