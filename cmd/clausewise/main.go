// Command clausewise ingests legal agreements and answers questions about them.
package main

import (
	"github.com/joho/godotenv"

	"github.com/custodia-labs/clausewise/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is normal; real environment variables still apply.
	_ = godotenv.Load()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)
	cli.Main()
}
