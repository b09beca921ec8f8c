package gateway

import (
	"net/http"
	"os"
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type healthStatus struct {
	Pid           int    `json:"pid"`
	WorkerPid     int    `json:"worker_pid,omitempty"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Requests      uint64 `json:"requests"`
}

// handleHealth reports liveness on the aux listener.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := healthStatus{
		Pid:           os.Getpid(),
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		Requests:      atomic.LoadUint64(&s.requests),
	}
	if wk := s.worker; wk != nil {
		st.WorkerPid = wk.Pid()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(&st); err != nil {
		s.errorLogger.Error("failed to encode health status")
	}
}
