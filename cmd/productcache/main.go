// Command productcache manages the local product cache.
//
// Usage:
//
//	productcache [-config file] validate
//	productcache [-config file] load
//	productcache [-config file] save <products.json>
//	productcache [-config file] run
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dailyyoga/productcache/cache"
	"github.com/dailyyoga/productcache/config"
	"github.com/dailyyoga/productcache/cron"
	"github.com/dailyyoga/productcache/logger"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "productcache.yaml", "path to the YAML config file")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	if err := run(*configPath, flag.Args()); err != nil {
		logger.Error("productcache failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config file] validate|load|save <file>|run\n", os.Args[0])
	flag.PrintDefaults()
}

func run(configPath string, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Logger)
	if err != nil {
		return err
	}

	store, err := cfg.Store.OpenStore(log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("close store", zap.Error(err))
		}
	}()

	loader := cache.NewLocalLoader(store, time.Now, cache.WithLogger(log))
	defer loader.Release()

	switch cmd := args[0]; cmd {
	case "validate":
		loader.ValidateCache()
		flush(store)
		log.Info("cache validated", zap.String("backend", cfg.Store.Backend))
		return nil

	case "load":
		products, err := load(loader)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(products)

	case "save":
		if len(args) != 2 {
			return fmt.Errorf("productcache: save requires exactly one file argument")
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		products, err := parseProducts(data)
		if err != nil {
			return err
		}
		if err := save(loader, products); err != nil {
			return err
		}
		log.Info("cache saved", zap.Int("products", len(products)))
		return nil

	case "run":
		return serve(cfg, log, loader)

	default:
		return fmt.Errorf("productcache: unknown command %q", cmd)
	}
}

// serve validates the cache on start and on schedule until interrupted
func serve(cfg *config.Config, log logger.Logger, loader *cache.LocalLoader) error {
	if !cfg.Validation.SkipOnStart {
		loader.ValidateCache()
	}

	sched := cron.New(log)
	if err := sched.Add(cfg.Validation.Schedule, cron.ValidationJob(loader)); err != nil {
		return err
	}
	sched.Start()
	log.Info("productcache running",
		zap.String("backend", cfg.Store.Backend),
		zap.String("schedule", cfg.Validation.Schedule))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	log.Info("shutting down", zap.String("signal", s.String()))

	sched.Close()
	return nil
}

func load(loader *cache.LocalLoader) ([]cache.Product, error) {
	type result struct {
		products []cache.Product
		err      error
	}
	done := make(chan result, 1)
	loader.Load(func(products []cache.Product, err error) {
		done <- result{products, err}
	})
	r := <-done
	return r.products, r.err
}

func save(loader *cache.LocalLoader, products []cache.Product) error {
	done := make(chan error, 1)
	loader.Save(products, func(err error) {
		done <- err
	})
	return <-done
}

// flush waits until every operation queued on store so far, including
// operations those completions queue, has run
func flush(store cache.Store) {
	done := make(chan struct{})
	store.Retrieve(func(*cache.CachedSnapshot, error) {
		store.Retrieve(func(*cache.CachedSnapshot, error) {
			close(done)
		})
	})
	<-done
}
