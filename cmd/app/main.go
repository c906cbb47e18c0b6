package main

import (
	"homeserve/config"
	"homeserve/di"
	"homeserve/shared/logger"
)

func main() {
	logger.Setup(config.Get())

	server := di.InitializeService()
	server.Serve()
}
