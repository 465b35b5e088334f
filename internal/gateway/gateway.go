// Package gateway is the single public entry point: it forwards /api requests
// to the owning service by path prefix and aggregates service health.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"hospital-management/config"
	"hospital-management/internal/delivery/http/middleware"
	"hospital-management/pkg/response"

	"github.com/go-resty/resty/v2"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Route sends every path under Prefix to Service.
type Route struct {
	Prefix  string
	Service string
}

// DefaultRoutes is checked in order; the first matching prefix wins.
var DefaultRoutes = []Route{
	{Prefix: "/api/auth", Service: "auth"},
	{Prefix: "/api/departments", Service: "department"},
	{Prefix: "/api/specialties", Service: "department"},
	{Prefix: "/api/rooms", Service: "department"},
	{Prefix: "/api/doctors", Service: "doctor"},
	{Prefix: "/api/reviews", Service: "doctor"},
	{Prefix: "/api/patients", Service: "patient"},
	{Prefix: "/api/medical-records", Service: "patient"},
	{Prefix: "/api/appointments", Service: "appointment"},
	{Prefix: "/api/receptionists", Service: "receptionist"},
	{Prefix: "/api/receptionist", Service: "receptionist"},
	{Prefix: "/api/notifications", Service: "notification"},
	{Prefix: "/api/payments", Service: "payment"},
	{Prefix: "/api/reports", Service: "admin"},
	{Prefix: "/api/audit-logs", Service: "admin"},
}

const shutdownTimeout = 10 * time.Second

type Gateway struct {
	cfg     config.GatewayConfig
	log     *logrus.Logger
	routes  []Route
	proxies map[string]*httputil.ReverseProxy
	targets map[string]*url.URL
	prober  *resty.Client
}

func New(cfg config.GatewayConfig, log *logrus.Logger) (*Gateway, error) {
	g := &Gateway{
		cfg:     cfg,
		log:     log,
		routes:  DefaultRoutes,
		proxies: make(map[string]*httputil.ReverseProxy, len(cfg.Services)),
		targets: make(map[string]*url.URL, len(cfg.Services)),
		prober:  resty.New().SetTimeout(probeTimeout),
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.Timeout

	for name, raw := range cfg.Services {
		target, err := url.Parse(raw)
		if err != nil || target.Scheme == "" || target.Host == "" {
			return nil, fmt.Errorf("invalid %s: %q", config.ServiceURLKey(name), raw)
		}
		g.targets[name] = target
		g.proxies[name] = g.newProxy(name, target, transport)
	}

	return g, nil
}

func (g *Gateway) newProxy(name string, target *url.URL, transport http.RoundTripper) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		Transport: transport,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			g.log.WithFields(logrus.Fields{
				"service":    name,
				"path":       r.URL.Path,
				"request_id": r.Header.Get(middleware.RequestIDHeader),
			}).Warnf("Upstream request failed: %v", err)

			if errors.Is(err, context.DeadlineExceeded) {
				response.Error(w, http.StatusGatewayTimeout, fmt.Sprintf("Service %s timed out", name), nil)
				return
			}
			response.BadGateway(w, fmt.Sprintf("Service %s is unreachable", name))
		},
	}
}

// Match returns the route owning path. Prefixes match whole path segments,
// so /api/doctorsX is not routed to the doctor service.
func (g *Gateway) Match(path string) (Route, bool) {
	for _, route := range g.routes {
		if path == route.Prefix || strings.HasPrefix(path, route.Prefix+"/") {
			return route, true
		}
	}
	return Route{}, false
}

// Handler builds the gateway's HTTP surface.
func (g *Gateway) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/health", g.health).Methods(http.MethodGet)
	router.PathPrefix("/").HandlerFunc(g.forward)

	var h http.Handler = router
	h = middleware.Recover(g.log)(h)
	h = middleware.AccessLog(g.log)(h)
	h = middleware.RequestID(h)
	return h
}

func (g *Gateway) forward(w http.ResponseWriter, r *http.Request) {
	route, ok := g.Match(r.URL.Path)
	if !ok {
		response.NotFound(w, "No service serves "+r.URL.Path)
		return
	}

	proxy, ok := g.proxies[route.Service]
	if !ok {
		response.ServiceUnavailable(w, fmt.Sprintf("Service %s is not configured", route.Service))
		return
	}

	proxy.ServeHTTP(w, r)
}

// Run serves until SIGINT or SIGTERM.
func (g *Gateway) Run() error {
	server := &http.Server{
		Addr:              ":" + g.cfg.Port,
		Handler:           g.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		g.log.WithFields(logrus.Fields{
			"port":     g.cfg.Port,
			"services": len(g.proxies),
		}).Info("Gateway starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		g.log.Info("Shutting down gateway...")
	case err := <-serverErr:
		return fmt.Errorf("failed to start gateway: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("gateway forced to shutdown: %w", err)
	}

	g.log.Info("Gateway shutdown complete")
	return nil
}
