package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/ronmurphy/soundrel-webgame-sub000/internal/config"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/serverapp"
)

// Dev entry point: in-memory saves, fixed port, disk static assets.
// The deployable binary lives in cmd/server.
func main() {
	cfg := config.Default()
	cfg.Storage.Driver = "memory"

	handler, err := serverapp.NewHandler(serverapp.Options{
		Config:        cfg,
		UseDiskStatic: true,
		Logger:        log.Default(),
	})
	if err != nil {
		log.Fatal(err)
	}

	addr := ":42069"
	fmt.Printf("scoundrel dev server on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
