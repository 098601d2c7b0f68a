// Command journal prints publish attempts that left a listing without its
// complete image set, so an operator can fix or delete those listings.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/shinyyama/kidtokid/internal/config"
	"github.com/shinyyama/kidtokid/internal/db"
	"github.com/shinyyama/kidtokid/internal/repository"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("journal failed: %v", err)
	}
}

func run() error {
	limit := flag.Int("limit", 50, "maximum rows to print")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.JournalEnabled() {
		return fmt.Errorf("DB_HOST or INSTANCE_CONNECTION_NAME must be set")
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	items, err := repository.NewPublicationRepository(gdb).ListIncomplete(ctx, *limit)
	if err != nil {
		return fmt.Errorf("list incomplete: %w", err)
	}
	if len(items) == 0 {
		log.Printf("no incomplete publications")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tLISTING\tSTAGE\tFILES\tTITLE\tERROR")
	for _, p := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			p.CreatedAt.Format(time.RFC3339), p.ListingID, p.Stage, p.FileCount, p.Title, p.Error)
	}
	return w.Flush()
}
