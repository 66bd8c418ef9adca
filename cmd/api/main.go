// @title       photomarket API
// @version     1.0
// @description Jobs board, Connects ledger and creative verification.
// @BasePath    /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"photomarket/internal/app"
	"photomarket/internal/logger"
)

func main() {
	if err := app.Run(); err != nil {
		logger.Fatal("Server stopped", "error", err)
	}
}
