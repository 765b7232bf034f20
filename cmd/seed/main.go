// Command main runs the database seeder for EpicFails.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"epicfails/internal/bootstrap"
	"epicfails/internal/config"
	"epicfails/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 80, "Number of posts to create")
	scenario := flag.String("scenario", "", "Apply a YAML scenario (built-in name or file path) instead of random data")
	rngSeed := flag.Int64("seed", 0, "Random seed (0 picks one from the clock)")
	fast := flag.Bool("fast", false, "Store the default password unhashed (local demos only)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	rt, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() { _ = rt.Close(context.Background()) }()

	s := seed.NewSeeder(rt.Store, seed.Options{SkipBcrypt: *fast, Seed: *rngSeed})

	if *scenario != "" {
		sc, err := seed.LoadScenario(*scenario)
		if err != nil {
			log.Fatalf("Failed to load scenario: %v", err)
		}
		fx, err := s.Factory().ApplyScenario(ctx, sc)
		if err != nil {
			log.Fatalf("Scenario seeding failed: %v", err)
		}
		log.Printf("Applied scenario %q: %d users, %d posts", sc.Name, len(fx.Users), len(fx.Posts))
		for key, u := range fx.Users {
			log.Printf("  %s -> token %s", key, u.AuthToken)
		}
		return
	}

	sum, err := s.SeedRandom(ctx, *numUsers, *numPosts)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d users, %d posts, %d likes, %d bookmarks, %d comments, %d duels",
		sum.Users, sum.Posts, sum.Likes, sum.Bookmarks, sum.Comments, sum.Duels)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
