package server

import (
	"context"
	"fmt"

	"github.com/NeuralTrust/SportLens/pkg/config"
	handlers "github.com/NeuralTrust/SportLens/pkg/handlers/http"
	"github.com/NeuralTrust/SportLens/pkg/infra/prometheus"
	"github.com/NeuralTrust/SportLens/pkg/middleware"
	"github.com/NeuralTrust/SportLens/pkg/server/router"
	"github.com/sirupsen/logrus"
)

type (
	APIServerDI struct {
		Config              *config.Config
		Logger              *logrus.Logger
		MiddlewareTransport middleware.Transport
		HandlerTransport    handlers.HandlerTransport
	}
	APIServer struct {
		*BaseServer
	}
)

func NewAPIServer(di APIServerDI) *APIServer {
	prometheus.Initialize(prometheus.MetricsConfig{
		EnableLatency:  di.Config.Metrics.EnableLatency,
		EnableUpstream: di.Config.Metrics.EnableUpstream,
	})

	s := &APIServer{
		BaseServer: NewBaseServer(di.Config, di.Logger),
	}
	s.WithRouters(
		healthRouter(),
		router.NewAPIRouter(&di.MiddlewareTransport, di.HandlerTransport),
	)
	return s
}

func (s *APIServer) Run() error {
	s.setupMetricsEndpoint()
	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("starting api server")
	return s.Router.Listen(addr)
}

func (s *APIServer) Shutdown(ctx context.Context) error {
	return s.shutdown(ctx)
}
