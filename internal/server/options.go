package server

import (
	"errors"
	"log/slog"

	"github.com/abhisek/readlevel/internal/metrics"
	"github.com/abhisek/readlevel/internal/store"
	"github.com/abhisek/readlevel/internal/util"
)

// Option configures a Server.
type Option func(*Server) error

func (s *Server) setOptions(options ...Option) error {
	for _, opt := range options {
		if err := opt(s); err != nil {
			return err
		}
	}
	return nil
}

// Name sets the service instance name. Empty generates one.
func Name(name string) Option {
	return func(s *Server) error {
		if name == "" {
			name = util.GenerateName()
		}
		s.serviceName = name
		return nil
	}
}

// ID sets the service instance id. Empty generates one.
func ID(id string) Option {
	return func(s *Server) error {
		if id == "" {
			id = util.GenerateID()
		}
		s.serviceID = id
		return nil
	}
}

// Host sets the listen address.
func Host(host string) Option {
	return func(s *Server) error {
		if host == "" {
			return errors.New("host must not be empty")
		}
		s.serviceHost = host
		return nil
	}
}

// Port sets the listen port.
func Port(port int) Option {
	return func(s *Server) error {
		if port <= 0 || port > 65535 {
			return errors.New("port must be within 1..65535")
		}
		s.servicePort = port
		return nil
	}
}

// Results enables persistence of scored attempts and GET /v1/attempts/:id.
func Results(repo store.ResultRepo) Option {
	return func(s *Server) error {
		s.results = repo
		return nil
	}
}

// Collector exposes counters at /metrics.
func Collector(c *metrics.Collector) Option {
	return func(s *Server) error {
		s.collector = c
		return nil
	}
}

// Logger sets the operational logger.
func Logger(log *slog.Logger) Option {
	return func(s *Server) error {
		if log == nil {
			return errors.New("logger must not be nil")
		}
		s.log = log
		return nil
	}
}
