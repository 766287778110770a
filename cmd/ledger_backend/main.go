package main

import (
	"os"
)

// @title Ledger Core API
// @version 1.0
// @description Multi-entity, multi-currency double-entry ledger.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
