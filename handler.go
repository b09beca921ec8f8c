package gateway

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kellegous/php-from-rs/fcgi"
)

// handle proxies one inbound request to the backend. Whatever goes
// wrong internally, the client sees a bare 500; the failure detail
// stays in the error log.
func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	requestTime := time.Now()
	requestID := uuid.New().String()
	atomic.AddUint64(&s.requests, 1)

	logger := s.errorLogger.With(zap.String("request_id", requestID))
	status, bodyBytesSent := s.dispatch(logger, w, r)

	elapsed := time.Since(requestTime)
	s.metrics.observe(status, elapsed)
	s.accessLogger.Info("",
		zap.String("request_id", requestID),
		zap.Time("request_time", requestTime),
		zap.String("host", r.Host),
		zap.String("method", r.Method),
		zap.String("request_uri", r.RequestURI),
		zap.Int("status", status),
		zap.Int("body_bytes_sent", bodyBytesSent),
		zap.Duration("round_trip_time", elapsed),
	)
}

func (s *Server) dispatch(logger *zap.Logger, w http.ResponseWriter, r *http.Request) (status, sent int) {
	params, err := fcgiParams(r, &s.opt.Fpm)
	if err != nil {
		logger.Error("failed to translate request", zap.Error(err))
		return s.internalError(w), 0
	}

	raw, err := s.client.Do(r.Context(), params, r.Body)
	if err != nil {
		logger.Error("fastcgi exchange failed", zap.Error(err))
		return s.internalError(w), 0
	}
	if len(raw.Stderr) > 0 {
		logger.Warn("worker stderr", zap.ByteString("stderr", raw.Stderr))
	}

	resp, err := fcgi.ParseResponse(raw.Stdout)
	if err != nil {
		logger.Error("failed to parse backend response", zap.Error(err))
		return s.internalError(w), 0
	}

	h := w.Header()
	for k, vals := range resp.Header {
		for _, v := range vals {
			h.Add(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	n, _ := w.Write(resp.Body)
	return resp.StatusCode, n
}

// internalError writes the uniform failure response: 500, no body,
// no internal detail.
func (s *Server) internalError(w http.ResponseWriter) int {
	w.WriteHeader(http.StatusInternalServerError)
	return http.StatusInternalServerError
}
