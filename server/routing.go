package server

import "net/http"

// setupHTTPRoutes configures all HTTP handlers
func (s *Server) setupHTTPRoutes() {
	s.mux.HandleFunc("/api/convert", s.corsMiddleware(s.HandleConvert))            // One request, one target (POST)
	s.mux.HandleFunc("/api/convert/batch", s.corsMiddleware(s.HandleConvertBatch)) // One source, many targets (POST)
	s.mux.HandleFunc("/api/targets", s.corsMiddleware(s.HandleTargets))            // Supported targets + tool identity (GET)
	s.mux.HandleFunc("/health", s.corsMiddleware(s.HandleHealth))                  // Live tool readiness probe (GET)
	s.mux.HandleFunc("/ws", s.corsMiddleware(s.HandleCompileWS))                   // Editor live-compile channel
}

// corsMiddleware adds CORS headers to HTTP responses using configured
// allowed origins. Uses the same origin validation as the websocket
// endpoint.
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin != "" && s.checkOrigin(r) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}
