package gateway

import (
	"net"
	"net/http"
	"time"

	"github.com/hkwi/h2c"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/kellegous/php-from-rs/fcgi"
	"github.com/kellegous/php-from-rs/internal/errgroup"
	"github.com/kellegous/php-from-rs/log"
)

// Server is the HTTP front of the gateway. Every inbound request,
// whatever its method or path, is translated into a FastCGI request
// against the configured worker script.
type Server struct {
	opt *Options

	logger       *log.Logger
	accessLogger *zap.Logger
	errorLogger  *zap.Logger

	client  *fcgi.Client
	metrics *metrics
	worker  *Worker

	server *http.Server
	aux    *http.Server

	started  time.Time
	requests uint64
}

// NewServer creates a Server from validated options. A nil logger
// builds one from opt.Log.
func NewServer(opt *Options, logger *log.Logger) (*Server, error) {
	if logger == nil {
		l, err := log.NewLogger(&opt.Log)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create logger")
		}
		logger = l
	}

	return &Server{
		opt:          opt,
		logger:       logger,
		accessLogger: logger.AcquireAccessLogger(),
		errorLogger:  logger.AcquireErrorLogger(),
		client: &fcgi.Client{
			Address:     opt.Fpm.Address,
			DialTimeout: 3 * time.Second,
		},
		metrics: newMetrics(),
	}, nil
}

// Run spawns the worker and serves until Stop is called or a listener
// fails. The worker must come up before any listener does.
func (s *Server) Run() error {
	w, err := StartWorker(&s.opt.Fpm, s.errorLogger)
	if err != nil {
		return errors.Wrap(err, "failed to start worker")
	}
	s.worker = w
	s.started = time.Now()

	// Both listeners are bound before any serve goroutine starts, so
	// a failed bind never leaves a goroutine behind.
	l, err := net.Listen("tcp", s.opt.Address)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", s.opt.Address)
	}

	var al net.Listener
	if s.opt.AuxAddress != "" {
		al, err = net.Listen("tcp", s.opt.AuxAddress)
		if err != nil {
			l.Close()
			return errors.Wrapf(err, "failed to listen on %s", s.opt.AuxAddress)
		}
	}

	s.server = &http.Server{
		Handler: h2c.Server{Handler: http.HandlerFunc(s.handle)},
	}

	g := errgroup.New()
	g.Go("http", func() error {
		if err := s.server.Serve(l); err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	if al != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", s.metrics.handler())
		mux.HandleFunc("/healthz", s.handleHealth)
		s.aux = &http.Server{Handler: mux}

		g.Go("aux", func() error {
			if err := s.aux.Serve(al); err != http.ErrServerClosed {
				return err
			}
			return nil
		})
	}

	name, err := g.Wait()
	if err != nil {
		return errors.Wrapf(err, "%s listener failed", name)
	}
	return nil
}
