package main

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sort"

	"go.uber.org/zap"

	"github.com/ridloal/mini-store/internal/platform/config"
	"github.com/ridloal/mini-store/internal/platform/httperr"
	"github.com/ridloal/mini-store/internal/platform/logger"
)

// routeTable maps public path prefixes to the backend that owns them.
// Each prefix is registered with and without a trailing slash so that
// collection routes such as POST /api/v1/orders are not redirected.
func routeTable(cfg config.GatewayConfig) map[string]string {
	return map[string]string{
		"/api/v1/auth":        cfg.UserServiceURL,
		"/api/v1/users":       cfg.UserServiceURL,
		"/api/v1/admin/users": cfg.UserServiceURL,
		"/api/v1/products":    cfg.ProductServiceURL,
		"/api/v1/external":    cfg.ProductServiceURL,
		"/api/v1/orders":      cfg.OrderServiceURL,
	}
}

func newSingleHostReverseProxy(targetHost string) (*httputil.ReverseProxy, error) {
	targetURL, err := url.Parse(targetHost)
	if err != nil {
		return nil, fmt.Errorf("failed to parse target URL '%s': %w", targetHost, err)
	}
	if targetURL.Scheme == "" || targetURL.Host == "" {
		return nil, fmt.Errorf("target URL '%s' must include scheme and host", targetHost)
	}

	proxy := httputil.NewSingleHostReverseProxy(targetURL)
	proxy.ErrorHandler = func(rw http.ResponseWriter, req *http.Request, err error) {
		logger.Error("Gateway: proxy error", err,
			zap.String("method", req.Method), zap.String("path", req.URL.Path), zap.String("target", targetHost))
		rw.Header().Set("Content-Type", "application/json")
		rw.WriteHeader(http.StatusBadGateway)
		_, _ = rw.Write([]byte(`{"error":"` + httperr.CodeInternal + `","message":"Service unavailable"}`))
	}
	return proxy, nil
}

func newGatewayHandler(cfg config.GatewayConfig) (http.Handler, error) {
	mux := http.NewServeMux()
	routes := routeTable(cfg)

	prefixes := make([]string, 0, len(routes))
	for prefix := range routes {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)

	for _, prefix := range prefixes {
		target := routes[prefix]
		proxy, err := newSingleHostReverseProxy(target)
		if err != nil {
			return nil, err
		}
		mux.Handle(prefix, proxy)
		mux.Handle(prefix+"/", proxy)
		logger.Info("Routing prefix", zap.String("prefix", prefix), zap.String("target", target))
	}

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"service":"api-gateway","status":"ok"}`))
	})
	return mux, nil
}
