package main

import (
	"os"

	"github.com/docuquery/docuquery/internal/bootstrap"
)

func main() {
	app, err := bootstrap.New("docuquery-mcp")
	if err != nil {
		os.Stderr.WriteString("bootstrap: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := app.MCPServer().ServeStdio(); err != nil {
		app.Logger.Error("mcp server failed", "error", err)
		os.Exit(1)
	}
}
