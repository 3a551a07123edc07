package localserver

import (
	"context"
	"log/slog"
	"net"
	"net/http"
)

// ReservedPath is the only path that may switch protocols.
const ReservedPath = "/ws"

// routes is the routing table shared by every Service. It is fixed before
// serving starts.
type routes struct {
	api    http.Handler
	stream http.Handler
}

// Factory builds one Service per accepted connection.
type Factory struct {
	routes *routes
	logger *slog.Logger
}

// NewFactory creates a factory over the API router and the event stream
// handler.
func NewFactory(api, stream http.Handler, logger *slog.Logger) *Factory {
	return &Factory{
		routes: &routes{api: api, stream: stream},
		logger: logger,
	}
}

// New creates the Service for one connection.
func (f *Factory) New(id string, remote net.Addr) *Service {
	addr := ""
	if remote != nil {
		addr = remote.String()
	}
	return &Service{
		ConnID: id,
		Remote: addr,
		Logger: f.logger.With("conn_id", id),
		routes: f.routes,
	}
}

// Service dispatches the requests of one connection.
type Service struct {
	ConnID string
	Remote string
	Logger *slog.Logger

	routes *routes
}

// ServeHTTP sends ReservedPath to the event stream and everything else to
// the API router unmodified. Upgrade headers on other paths are ignored by
// the API router, so they never switch protocols.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == ReservedPath {
		s.routes.stream.ServeHTTP(w, r)
		return
	}
	s.routes.api.ServeHTTP(w, r)
}

type serviceKey struct{}

func withService(ctx context.Context, s *Service) context.Context {
	return context.WithValue(ctx, serviceKey{}, s)
}

// ServiceFromContext returns the Service of the connection carrying ctx.
func ServiceFromContext(ctx context.Context) (*Service, bool) {
	s, ok := ctx.Value(serviceKey{}).(*Service)
	return s, ok
}

// dispatch is the http.Server handler: it forwards to the connection's
// Service.
func dispatch(w http.ResponseWriter, r *http.Request) {
	s, ok := ServiceFromContext(r.Context())
	if !ok {
		http.Error(w, "no connection service", http.StatusInternalServerError)
		return
	}
	s.ServeHTTP(w, r)
}
