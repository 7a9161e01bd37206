package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/brun04maral/agora-contabilidade-sub000/internal/config"
	"github.com/brun04maral/agora-contabilidade-sub000/internal/database"
	"github.com/brun04maral/agora-contabilidade-sub000/internal/router"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// ensure the sqlite data directory exists
	if cfg.Database.Driver == "" || cfg.Database.Driver == "sqlite" {
		if err := ensureDir(filepath.Dir(cfg.Database.Path)); err != nil {
			log.Fatalf("create data dir: %v", err)
		}
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// setup router
	r := router.SetupRouter(cfg, db)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
