package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"

	"github.com/gustavoconect/lideranca-regional-sub000/config"
	"github.com/gustavoconect/lideranca-regional-sub000/fetcher"
	"github.com/gustavoconect/lideranca-regional-sub000/handlers"
	"github.com/gustavoconect/lideranca-regional-sub000/pipeline"
	"github.com/gustavoconect/lideranca-regional-sub000/reporter"
	"github.com/gustavoconect/lideranca-regional-sub000/storage"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stderr)

	_ = godotenv.Load()
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	fsClient, err := firestore.NewClientWithDatabase(ctx, cfg.FirestoreProject, cfg.FirestoreDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to Firestore: %v", err)
	}
	defer fsClient.Close()

	store := storage.NewStore(fsClient)
	rep := reporter.New(openai.NewClient(cfg.OpenAIKey), cfg.OpenAIModel, reporter.DefaultRetryPolicy)
	pipe := pipeline.New(store, rep, pipeline.Config{MinComments: cfg.MinComments})

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	handlers.New(store, pipe, fetcher.New()).Register(r)

	log.Printf("✅ regional feedback API running on %s", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, r))
}
