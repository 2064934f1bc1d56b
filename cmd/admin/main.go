package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"mindbridge/backend/internal/auth"
	"mindbridge/backend/internal/chathub"
	"mindbridge/backend/internal/config"
	"mindbridge/backend/internal/logging"
	"mindbridge/backend/internal/storage"

	"github.com/rs/zerolog/log"
)

const usage = `Usage: admin <command> [args]

Commands:
  purge <anonId>             delete a user and all their check-ins
  rooms                      list chat rooms
  history <roomId> [limit]   print the latest messages of a room`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	if cfg.Database.UsesMemory() {
		log.Fatal().Msg("DATABASE_URL is required for the admin CLI")
	}
	db, err := storage.Open(cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	store := storage.NewStorageService(db)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch os.Args[1] {
	case "purge":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin purge <anonId>")
			os.Exit(1)
		}
		// Tokens are never issued here, so the secret is irrelevant.
		if err := auth.NewService(store, cfg.JWT.Secret, cfg.JWT.TTL).Logout(ctx, os.Args[2]); err != nil {
			log.Fatal().Err(err).Msg("error purging user")
		}
		fmt.Printf("User %s and their check-ins have been deleted.\n", os.Args[2])

	case "rooms":
		if err := listRooms(ctx, store); err != nil {
			log.Fatal().Err(err).Msg("error listing rooms")
		}

	case "history":
		if len(os.Args) < 3 || len(os.Args) > 4 {
			fmt.Println("Usage: admin history <roomId> [limit]")
			os.Exit(1)
		}
		limit := config.HistoryLimit
		if len(os.Args) == 4 {
			limit, err = strconv.Atoi(os.Args[3])
			if err != nil || limit < 1 {
				fmt.Println("Invalid limit. Please provide a positive integer.")
				os.Exit(1)
			}
		}
		if err := printHistory(ctx, store, os.Args[2], limit); err != nil {
			log.Fatal().Err(err).Msg("error reading history")
		}

	default:
		fmt.Println("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}
}

func listRooms(ctx context.Context, s storage.Storage) error {
	rooms, err := s.ListRooms(ctx)
	if err != nil {
		return err
	}
	for _, r := range rooms {
		fmt.Printf("%s\t%s\t%s\n", r.ID, r.College, r.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

func printHistory(ctx context.Context, s storage.Storage, roomID string, limit int) error {
	// History only reads, so the relay needs no running hub or broker.
	relay := chathub.NewRelay(s, nil, chathub.NewLocalBroker(), nil)
	messages, err := relay.History(ctx, roomID, limit)
	if err != nil {
		return err
	}
	for _, m := range messages {
		fmt.Printf("%s\t%s\t%s\n", m.Timestamp.Format(time.RFC3339), m.Username, m.Text)
	}
	return nil
}
