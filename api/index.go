package handler

import (
	"net/http"
	"sync"

	"homeserve/config"
	"homeserve/di"
	"homeserve/shared/logger"
	httpTransport "homeserve/transport/http"
)

var (
	once   sync.Once
	server *httpTransport.HTTP
)

// Handler serves one request on a warm instance. Dependencies are built once per process.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		logger.Setup(config.Get())

		server = di.InitializeService()
	})

	r.RequestURI = r.URL.String()

	server.ServeHTTP(w, r)
}
