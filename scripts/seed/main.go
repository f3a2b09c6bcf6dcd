// Seed adds sample todos through the service layer. Run from project root: go run ./scripts/seed
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"todolist/internal/cache"
	"todolist/internal/config"
	"todolist/internal/database"
	"todolist/internal/models"
	"todolist/internal/queue"
	"todolist/internal/repository"
	"todolist/internal/service"
)

const total = 100

var priorities = []string{"", "Low", "Medium", "High"}

func main() {
	config.LoadEnvFile(".env")

	ctx := context.Background()
	cfg := config.Load()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "DB connection failed:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.MigrateOrCreateSchema(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Schema failed:", err)
		os.Exit(1)
	}

	rc := cache.New(ctx, cfg)
	defer rc.Close()
	producer := queue.NewProducer(ctx, cfg)
	defer producer.Close()
	todos := service.NewTodos(repository.NewTodos(db), rc, producer)

	start := time.Now()
	today := time.Now()
	for n := 1; n <= total; n++ {
		in := models.TodoCreate{
			Title:       fmt.Sprintf("Todo %d", n),
			Description: models.StringPtr(fmt.Sprintf("Description for todo %d", n)),
			Priority:    models.StringPtr(priorities[n%len(priorities)]),
		}
		if n%3 == 0 {
			due := models.DateOf(today.AddDate(0, 0, n))
			in.DueDate = &due
		}
		if _, err := todos.Create(ctx, in); err != nil {
			fmt.Fprintln(os.Stderr, "\nInsert failed:", err)
			os.Exit(1)
		}
		fmt.Printf("\rInserted %d / %d", n, total)
	}

	fmt.Printf("\nDone: %d todos in %v\n", total, time.Since(start))
}
