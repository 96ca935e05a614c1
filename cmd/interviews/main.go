// Command interviews prints every stored interview grouped the way the
// dashboard shows them.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/blesswrld/codesync/backend/go-services/internal/config"
	"github.com/blesswrld/codesync/backend/go-services/internal/database"
	"github.com/blesswrld/codesync/backend/go-services/internal/interviews"
	"github.com/blesswrld/codesync/backend/go-services/internal/models"
	"github.com/blesswrld/codesync/backend/go-services/internal/status"
	"github.com/blesswrld/codesync/backend/go-services/pkg/logger"
)

func main() {
	candidate := flag.String("candidate", "", "only show interviews of this candidate identity")
	flag.Parse()

	logger.Init(os.Getenv("LOG_LEVEL"))
	if os.Getenv("LOG_FORMAT") == "console" {
		logger.UseConsole(os.Stderr)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if cfg.MongoDB.URI == "" {
		logger.Fatalf("MONGODB_URI is required")
	}

	ctx := context.Background()
	client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	repo, err := interviews.NewMongoRepo(ctx, client.Database(cfg.MongoDB.Database).Collection("interviews"))
	if err != nil {
		logger.Fatalf("failed to open interviews collection: %v", err)
	}
	var list []*models.Interview
	if *candidate != "" {
		list, err = repo.ListByCandidate(ctx, *candidate)
	} else {
		list, err = repo.List(ctx)
	}
	if err != nil {
		logger.Fatalf("failed to list interviews: %v", err)
	}
	if err := report(os.Stdout, list, time.Now().UTC()); err != nil {
		logger.Fatalf("%v", err)
	}
}

// report writes one section per bucket, in dashboard order.
func report(w io.Writer, list []*models.Interview, now time.Time) error {
	g := status.GroupInterviews(list, now)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	sections := []struct {
		name string
		ivs  []*models.Interview
	}{
		{"upcoming", g.Upcoming},
		{"completed", g.Completed},
		{"succeeded", g.Succeeded},
		{"failed", g.Failed},
	}
	for _, s := range sections {
		fmt.Fprintf(tw, "%s (%d)\n", s.name, len(s.ivs))
		for _, iv := range s.ivs {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n",
				iv.ID, iv.StartTime.Format(time.RFC3339), status.MeetingDisplayState(iv, now), iv.CandidateID, iv.Title)
		}
	}
	return tw.Flush()
}
