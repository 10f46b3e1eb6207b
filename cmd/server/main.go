package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/dnscache"

	"github.com/leonardcser/lol-esports-mcp/internal/cache"
	"github.com/leonardcser/lol-esports-mcp/internal/config"
	"github.com/leonardcser/lol-esports-mcp/internal/esports"
	"github.com/leonardcser/lol-esports-mcp/internal/live"
	"github.com/leonardcser/lol-esports-mcp/internal/logger"
	"github.com/leonardcser/lol-esports-mcp/internal/prompts"
	"github.com/leonardcser/lol-esports-mcp/internal/resources"
	"github.com/leonardcser/lol-esports-mcp/internal/telemetry"
)

const version = "0.1.0"

// statsCache is a cache backend that also reports its own counters.
type statsCache interface {
	cache.Cache
	cache.StatsReporter
}

func main() {
	configPath := flag.String("config", os.Getenv("LOL_MCP_CONFIG"), "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "lol-esports-mcp:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Log.Path != "" {
		err = logger.Init(cfg.Log.Path)
	} else {
		err = logger.InitFromEnv()
	}
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		logger.Warnf("Ignoring log level %q: %v", cfg.Log.Level, err)
	}

	logger.Infof("Starting LoL Esports MCP server %s", version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Tracing.Endpoint != "" {
		shutdown, err := telemetry.SetupTracing(ctx, cfg.Tracing.Endpoint, cfg.Tracing.SampleRate, version)
		if err != nil {
			return err
		}
		logger.Infof("Exporting traces to %s (sample rate %.2f)", cfg.Tracing.Endpoint, cfg.Tracing.SampleRate)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				logger.Warnf("trace flush: %v", err)
			}
		}()
	}

	store, closeStore, err := openCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer closeStore()
	logger.Infof("Using %s cache backend", cfg.Cache.Backend)

	var resolver *dnscache.Resolver
	if cfg.API.DNSRefresh > 0 {
		resolver = &dnscache.Resolver{}
		go esports.RefreshDNS(ctx, resolver, cfg.API.DNSRefresh)
	}
	client, err := esports.NewClient(esports.ClientOptions{
		BaseURL:     cfg.API.BaseURL,
		APIKey:      cfg.API.APIKey,
		Timeout:     cfg.API.Timeout,
		Parallelism: cfg.API.Parallelism,
		Resolver:    resolver,
	})
	if err != nil {
		return err
	}
	logger.Infof("Esports API client targeting %s (timeout %s)", client.BaseURL(), cfg.API.Timeout)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewMetrics(reg)
	telemetry.RegisterCacheStats(reg, store)

	opts := []esports.CachedOption{esports.WithMetrics(metrics)}
	if cfg.Cache.CoalesceMisses {
		opts = append(opts, esports.WithCoalescing())
	}
	svc := live.NewService(esports.NewCached(esports.NewAPI(client), store, opts...))

	s := server.NewMCPServer(
		"LoL Esports MCP",
		version,
		server.WithRecovery(),
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
	)
	logger.Infof("Created MCP server instance")

	registerTools(s, svc, metrics, cfg.Cache.Backend, store)
	resources.Register(s, resources.NewProvider(svc))
	logger.Infof("Registered %d resources", len(resources.Definitions()))
	prompts.Register(s)
	logger.Infof("Registered %d prompts", len(prompts.All()))

	if cfg.Metrics.Addr != "" {
		side, err := telemetry.Listen(cfg.Metrics.Addr, telemetry.NewHandler(reg))
		if err != nil {
			return fmt.Errorf("metrics listener: %w", err)
		}
		logger.Infof("Serving metrics on http://%s/metrics", side.Addr())
		go func() {
			if err := side.Serve(); err != nil {
				logger.Errorf("metrics listener: %v", err)
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = side.Shutdown(sctx)
		}()
	}

	logger.Infof("Starting MCP server on stdio")
	if err := server.ServeStdio(s); err != nil {
		logger.Errorf("server error: %v", err)
		return err
	}
	return nil
}

// openCache builds the configured backend. The returned func releases it.
func openCache(ctx context.Context, cfg config.CacheConfig) (statsCache, func(), error) {
	switch cfg.Backend {
	case config.BackendBounded:
		b, err := cache.NewBounded(cfg.MaxSize, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("bounded cache: %w", err)
		}
		return b, func() {}, nil
	case config.BackendRedis:
		rc, err := cache.DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		return cache.NewRedis(rc, cfg.Redis.Prefix), func() { _ = rc.Close() }, nil
	default:
		return cache.NewMemory(cache.WithMaxSize(cfg.MaxSize)), func() {}, nil
	}
}
