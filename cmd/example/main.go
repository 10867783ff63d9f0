package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-aipages"
)

func main() {
	addr := flag.String("serve", "", "serve the admin and public APIs on this address after the demo, e.g. :8080")
	storage := flag.String("storage", aipages.DefaultConfig().Storage.Provider, "storage provider: memory, sqlite or postgres")
	dsn := flag.String("dsn", "", "storage DSN for sqlite or postgres")
	redisAddr := flag.String("redis", "", "publish change events to this redis address")
	flag.Parse()

	cfg := aipages.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Format = "console"
	cfg.Storage.Provider = *storage
	cfg.Storage.DSN = *dsn
	cfg.Routes.BaseURL = "https://pages.example.com"
	if *redisAddr != "" {
		cfg.Notifications.Provider = "redis"
		cfg.Notifications.RedisAddr = *redisAddr
	}

	module, err := aipages.New(cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer module.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runDemo(ctx, module); err != nil {
		log.Fatalf("demo: %v", err)
	}
	if *addr == "" {
		return
	}
	if err := serve(ctx, module, *addr); err != nil {
		log.Fatalf("serve: %v", err)
	}
}

func runDemo(ctx context.Context, module *aipages.Module) error {
	record, businessPage, err := module.SaveBusiness(ctx, &aipages.Business{
		Name:            "Casa Verde",
		Category:        "food-dining",
		Description:     "Family-run Tex-Mex kitchen on East 6th.",
		Phone:           "+1 512 555 0100",
		Email:           "hola@casaverde.example",
		Street:          "1100 E 6th St",
		City:            "Austin",
		State:           "TX",
		PostalCode:      "78702",
		YearsInBusiness: 4,
	})
	if err != nil {
		return fmt.Errorf("save business: %w", err)
	}
	if businessPage != nil {
		fmt.Printf("business page: %s (score %d)\n", businessPage.Path, businessPage.Score)
	}

	events, err := module.Notifier().Subscribe(ctx, record.ID)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	expires := time.Now().Add(7 * 24 * time.Hour)
	batch, err := module.SubmitUpdate(ctx, aipages.UpdateRequest{
		BusinessID:          record.ID,
		Description:         "Happy hour 5-7pm! $5 margaritas and half-price queso all week.",
		ExpiresAt:           &expires,
		UniqueSellingPoints: []string{"Patio seating", "House-made tortillas"},
		Testimonials: []aipages.Testimonial{
			{Author: "Dana R.", Text: "Best queso on the east side.", Rating: 5},
		},
	})
	if err != nil {
		return fmt.Errorf("submit update: %w", err)
	}
	for i, draft := range batch.Drafts {
		fmt.Printf("draft %d [%s] %q -> %s (score %d)\n", i, draft.Variant, draft.Title, draft.Path, draft.Score)
	}
	for _, failure := range batch.Failures {
		fmt.Printf("variant %s failed: %v\n", failure.Variant, failure.Err)
	}

	result, err := module.Publish(ctx, batch.ID)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	fmt.Printf("published %d pages for update %s\n", len(result.PageIDs), result.UpdateID)

	drainEvents(events, len(result.PageIDs))

	first, err := module.Pages().Get(ctx, result.PageIDs[0])
	if err != nil {
		return fmt.Errorf("load page: %w", err)
	}
	doc, err := json.MarshalIndent(first.StructuredData, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s\n", first.Path, doc)

	extended, err := module.Pages().Extend(ctx, first.ID, 72)
	if err != nil {
		return fmt.Errorf("extend: %w", err)
	}
	fmt.Printf("extended %s until %s (%s)\n", extended.Path, extended.ExpiresAt.Format(time.RFC3339), module.Pages().State(extended))
	return nil
}

func drainEvents(events <-chan aipages.Event, want int) {
	timeout := time.After(time.Second)
	for seen := 0; seen < want; {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			seen++
			fmt.Printf("event %s page=%s\n", event.Type, event.PageID)
		case <-timeout:
			return
		}
	}
}

func serve(ctx context.Context, module *aipages.Module, addr string) error {
	mux := http.NewServeMux()
	if err := module.RegisterHTTP(mux); err != nil {
		return err
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := module.Worker().Run(ctx, time.Minute); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("expiration worker stopped: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
