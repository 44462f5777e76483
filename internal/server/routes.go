package server

import "net/http"

// Routes registers every handler and wraps the mux with request logging.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/config", s.HandleConfig)
	mux.HandleFunc("/favicon.ico", s.HandleFavicon)
	mux.HandleFunc("/icons/", s.HandleIcon)
	mux.HandleFunc("/data/", s.HandleData)
	mux.HandleFunc("/viewer.wasm", s.HandleDist)
	mux.HandleFunc("/wasm_exec.js", s.HandleDist)
	mux.HandleFunc("/", s.HandleIndex)

	return RequestLogger(mux)
}
