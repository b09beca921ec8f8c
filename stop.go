package gateway

// Stop signals the worker's process group and closes the listeners.
// There is no drain period: in-flight requests are abandoned, and the
// caller is expected to exit the process right after.
func (s *Server) Stop() {
	if s.worker != nil {
		s.worker.Shutdown()
	}
	if s.server != nil {
		s.server.Close()
	}
	if s.aux != nil {
		s.aux.Close()
	}
}
