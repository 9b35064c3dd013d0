// Seed issues a batch of access keys straight into the store, for
// handing out without going through the HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"premium-access-service/internal/config"
	pg "premium-access-service/internal/infra/db/postgres"
	"premium-access-service/internal/infra/logging"
	"premium-access-service/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	plan := flag.String("plan", "week", "plan to issue (week|month)")
	count := flag.Int("n", 1, "number of keys to issue")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	ctx := context.Background()
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 2)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	uc := usecase.NewAccessKeyUseCase(pg.NewAccessKeyRepo(pool), logger, nil)
	for i := 0; i < *count; i++ {
		key, err := uc.Issue(ctx, *plan)
		if err != nil {
			log.Fatalf("issue: %v", err)
		}
		fmt.Printf("%s\t%s\texpires %s\n", key.Code, key.Plan, key.ExpiresAt.Format("2006-01-02 15:04"))
	}
}
