// ingestor runs one survey-export PDF through the full pipeline from the
// command line: a local path or a URL in, per-unit reports and a regional
// summary out.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"cloud.google.com/go/firestore"
	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"

	"github.com/gustavoconect/lideranca-regional-sub000/config"
	"github.com/gustavoconect/lideranca-regional-sub000/fetcher"
	"github.com/gustavoconect/lideranca-regional-sub000/pipeline"
	"github.com/gustavoconect/lideranca-regional-sub000/reporter"
	"github.com/gustavoconect/lideranca-regional-sub000/storage"
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		log.Fatal("usage: ingestor <pdf-path-or-url>")
	}
	source := flag.Arg(0)

	_ = godotenv.Load()
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Ctrl-C finishes the unit in flight, then stops; saved reports stand.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := firestore.NewClientWithDatabase(ctx, cfg.FirestoreProject, cfg.FirestoreDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to Firestore: %v", err)
	}
	defer client.Close()

	var (
		data      []byte
		filename  string
		sourceURL string
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = fetcher.New().DownloadPDF(ctx, source)
		filename, sourceURL = source, source
	} else {
		data, err = os.ReadFile(source)
		filename = filepath.Base(source)
	}
	if err != nil {
		log.Fatalf("❌ could not read PDF: %v", err)
	}

	store := storage.NewStore(client)
	rep := reporter.New(openai.NewClient(cfg.OpenAIKey), cfg.OpenAIModel, reporter.DefaultRetryPolicy)
	pipe := pipeline.New(store, rep, pipeline.Config{MinComments: cfg.MinComments})

	summary, err := pipe.Run(ctx, filename, sourceURL, data)
	if err != nil {
		log.Fatalf("❌ run failed: %v", err)
	}
	if summary.NoUnitsFound {
		log.Println("no units recognized — is this a survey export?")
		return
	}

	for _, u := range summary.Units {
		if u.Status == pipeline.StatusSkipped {
			log.Printf("skipped %s: %s (%d comments)", u.UnitCode, u.Reason, u.Comments)
		}
	}
	log.Printf("✅ %d units analyzed, %d skipped (upload %s)", summary.Analyzed, summary.Skipped, summary.UploadID)
	if summary.RegionalSummary != "" {
		log.Printf("regional summary:\n%s", summary.RegionalSummary)
	}
}
