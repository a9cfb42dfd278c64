// Package integration exercises the store, engine, and watcher together.
package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/tansaku/internal/config"
	"github.com/hyperjump/tansaku/internal/models"
	"github.com/hyperjump/tansaku/internal/search"
	"github.com/hyperjump/tansaku/internal/storage"
	"github.com/hyperjump/tansaku/internal/watcher"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Storage.Backend = backend
	name := "catalog.jsonl"
	if backend == storage.BackendSQLite {
		name = "catalog.db"
	}
	cfg.Storage.Path = filepath.Join(t.TempDir(), name)
	return cfg
}

func seedDocs() []*models.Document {
	return []*models.Document{
		{ID: "bug-hunter", Title: "Bug Hunter", Description: "Turns a stack trace into failure hypotheses.", Category: "coding"},
		{ID: "idea-wizard", Title: "Idea Wizard", Description: "Generates campaign concepts.", Category: "writing"},
		{ID: "meeting-scribe", Title: "Meeting Scribe", Description: "Turns transcripts into minutes.", Category: "productivity"},
	}
}

func TestStorePutSearchDelete(t *testing.T) {
	for _, backend := range []string{storage.BackendJSONL, storage.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t, backend)
			store, err := storage.Open(backend, cfg.Storage.Path)
			if err != nil {
				t.Fatal(err)
			}
			defer store.Close()

			ctx := context.Background()
			for _, doc := range seedDocs() {
				if err := store.Put(ctx, doc); err != nil {
					t.Fatalf("put %q: %v", doc.ID, err)
				}
			}

			engine, err := search.NewEngine(cfg, store, zap.NewNop())
			if err != nil {
				t.Fatal(err)
			}
			defer engine.Close()
			if err := engine.Rebuild(ctx); err != nil {
				t.Fatal(err)
			}

			resp, err := engine.Search(ctx, models.SearchQuery{Query: "stack trace", Limit: 5})
			if err != nil {
				t.Fatal(err)
			}
			if resp.Total == 0 || resp.Results[0].ID != "bug-hunter" {
				t.Fatalf("unexpected results: %+v", resp.Results)
			}

			// A deleted document disappears after the next rebuild.
			if err := store.Delete(ctx, "bug-hunter"); err != nil {
				t.Fatal(err)
			}
			if err := engine.Rebuild(ctx); err != nil {
				t.Fatal(err)
			}
			resp, err = engine.Search(ctx, models.SearchQuery{Query: "stack trace", Limit: 5})
			if err != nil {
				t.Fatal(err)
			}
			for _, r := range resp.Results {
				if r.ID == "bug-hunter" {
					t.Error("deleted document still in results after rebuild")
				}
			}
			if _, ok := engine.Document("bug-hunter"); ok {
				t.Error("deleted document still served by Document")
			}
		})
	}
}

func TestSnapshotSwapUnderConcurrentQueries(t *testing.T) {
	cfg := testConfig(t, storage.BackendJSONL)
	store, err := storage.Open(storage.BackendJSONL, cfg.Storage.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	for _, doc := range seedDocs() {
		if err := store.Put(ctx, doc); err != nil {
			t.Fatal(err)
		}
	}

	engine, err := search.NewEngine(cfg, store, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer engine.Close()
	if err := engine.Rebuild(ctx); err != nil {
		t.Fatal(err)
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if _, err := engine.Search(ctx, models.SearchQuery{Query: "wizard", Limit: 5}); err != nil {
					select {
					case errs <- err:
					default:
					}
					return
				}
			}
		}()
	}

	// Grow the catalog and swap snapshots while the readers hammer away.
	for i := 0; i < 10; i++ {
		doc := &models.Document{
			ID:    fmt.Sprintf("extra-%02d", i),
			Title: fmt.Sprintf("Extra Tool %d", i),
		}
		if err := store.Put(ctx, doc); err != nil {
			t.Fatal(err)
		}
		if err := engine.Rebuild(ctx); err != nil {
			t.Fatal(err)
		}
	}

	close(stop)
	wg.Wait()
	select {
	case err := <-errs:
		t.Fatalf("concurrent search failed: %v", err)
	default:
	}

	if got := engine.Stats().Documents; got != len(seedDocs())+10 {
		t.Errorf("final snapshot has %d documents, want %d", got, len(seedDocs())+10)
	}
}

func TestWatcherReloadsCatalog(t *testing.T) {
	cfg := testConfig(t, storage.BackendJSONL)
	if err := storage.WriteJSONL(cfg.Storage.Path, seedDocs()); err != nil {
		t.Fatal(err)
	}
	store, err := storage.Open(storage.BackendJSONL, cfg.Storage.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	engine, err := search.NewEngine(cfg, store, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer engine.Close()
	ctx := context.Background()
	if err := engine.Rebuild(ctx); err != nil {
		t.Fatal(err)
	}

	w := watcher.New(
		[]string{store.Path()},
		func(string) { _ = engine.Rebuild(context.Background()) },
		watcher.WithDebounce(50*time.Millisecond),
	)
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := w.Start(watchCtx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	// Replace the catalog file the way export and import do.
	grown := append(seedDocs(), &models.Document{ID: "press-kit-packer", Title: "Press Kit Packer"})
	if err := storage.WriteJSONL(cfg.Storage.Path, grown); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for {
		if _, ok := engine.Document("press-kit-packer"); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("engine never picked up the rewritten catalog")
		}
		time.Sleep(20 * time.Millisecond)
	}

	resp, err := engine.Search(ctx, models.SearchQuery{Query: "press kit", Limit: 5})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Total == 0 || resp.Results[0].ID != "press-kit-packer" {
		t.Errorf("unexpected results after reload: %+v", resp.Results)
	}
}
