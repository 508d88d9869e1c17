// Command server runs the forum reaction backend: the REST API, the
// change-feed workers, and the caches they maintain.
//
// Configuration comes from CONFIG_PATH (YAML) and environment variables.
//
// Exit codes: 0 = clean shutdown, 1 = startup or runtime error.
package main

import (
	"context"
	"log"

	"github.com/hcmus-forum/forumus-backend/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("server: %v", err)
	}
}
