// Seeds the room catalog from a JSON file. Rooms are upserted concurrently
// under a bounded worker count, and affected cache keys are evicted so the
// API never serves a stale catalog after a reseed.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"roomdesk/internal/adapters/observability"
	redisad "roomdesk/internal/adapters/redis"
	"roomdesk/internal/app"
	"roomdesk/internal/domain"
	"roomdesk/internal/shared"
	mysqlrepo "roomdesk/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("file", cfg.RoomsFile).
		Int("workers", cfg.Workers).
		Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	raw, err := os.ReadFile(cfg.RoomsFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.RoomsFile).Msg("read rooms file failed")
	}
	var rooms []domain.Room
	if err := json.Unmarshal(raw, &rooms); err != nil {
		log.Fatal().Err(err).Msg("rooms file is not valid JSON")
	}

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	catalog := app.NewCatalogService(repo, cache)

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, room := range rooms {
		room := room

		if room.ID == "" || room.Name == "" || room.Price < 0 {
			log.Warn().Str("id", room.ID).Msg("skipping malformed room entry")
			continue
		}

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(r domain.Room) {
			defer wg.Done()
			defer sem.Release(1)

			if err := catalog.UpsertRoom(ctx, r); err != nil {
				log.Warn().Str("id", r.ID).Err(err).Msg("seed failed")
				return
			}
			log.Info().Str("id", r.ID).Int64("price", r.Price).Msg("seed ok")
		}(room)
	}

	wg.Wait()
	log.Info().Int("rooms", len(rooms)).Msg("seeding completed")
}
