package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/bookshelf-backend/internal/app"
	"github.com/yungbote/bookshelf-backend/internal/seed"
)

func main() {
	var file string
	flag.StringVar(&file, "file", "", "fixture yaml to load (defaults to the bundled catalog)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx)
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	fixture, err := loadFixture(file)
	if err != nil {
		application.Log.Error("Load fixture failed", "file", file, "error", err)
		return
	}

	seeder := seed.NewSeeder(application.Log, application.Repos.User, application.Services.User, application.Services.Catalog)
	res, err := seeder.Apply(ctx, fixture)
	if err != nil {
		application.Log.Error("Seed failed", "error", err)
		return
	}
	fmt.Printf("seeded: books_added=%d books_skipped=%d authors_updated=%d\n", res.BooksAdded, res.BooksSkipped, res.AuthorsUpdated)
}

func loadFixture(path string) (seed.Fixture, error) {
	if path == "" {
		return seed.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return seed.Fixture{}, err
	}
	defer f.Close()
	return seed.Parse(f)
}
