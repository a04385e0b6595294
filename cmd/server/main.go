package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ronmurphy/soundrel-webgame-sub000/internal/config"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/serverapp"
)

func main() {
	cfgPath := flag.String("config", "scoundrel.yml", "path to yaml config")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = config.Default()
		err = nil
	}
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := config.FromEnv(cfg); err != nil {
		log.Fatalf("env config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, err := serverapp.NewHandler(serverapp.Options{
		Config:        cfg,
		StaticDir:     "static",
		UseDiskStatic: serverapp.UseDiskStaticByEnv(),
		Logger:        log.Default(),
		Ctx:           ctx,
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: handler}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	log.Printf("listening on http://localhost%s", cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
