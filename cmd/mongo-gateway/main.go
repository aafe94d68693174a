// Package main is the entry point for the MongoDB MCP gateway.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/kart-io/mongo-gateway/internal/gateway"
)

func main() {
	gateway.NewApp().Run()
}
