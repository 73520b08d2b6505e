package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"genesearch/config"
	"genesearch/geocode"
	"genesearch/models"
	"genesearch/persons"
	"genesearch/regions"
	"genesearch/services"
	"genesearch/sources"
	"genesearch/storage"
)

var (
	personsProcessedCounter prometheus.Counter
	matchesStoredCounter    prometheus.Counter
)

func init() {
	personsProcessedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "persons_processed_total",
		Help: "Total number of persons processed by search runs.",
	})
	matchesStoredCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matches_stored_total",
		Help: "Total number of exact matches stored.",
	})
	prometheus.MustRegister(personsProcessedCounter, matchesStoredCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		if c.GetHeader("X-API-KEY") != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	store, err := storage.Open(cfg.DatabasePath(), logging)
	if err != nil {
		logging.Fatal("Failed to open record store", zap.Error(err))
	}
	logging.Info("Record store opened", zap.String("path", store.Path()))

	// Region resolution, with the optional Nominatim fallback.
	var geocoder regions.Geocoder
	if cfg.UseNominatim {
		geocoder = geocode.NewClient(cfg, logging)
		logging.Info("Nominatim fallback enabled", zap.String("base_url", cfg.NominatimBaseURL))
	}
	resolver := regions.NewResolver(store, geocoder, logging)

	// Site drivers.
	var enabledSources []sources.Source
	for _, name := range cfg.SourceNames() {
		switch name {
		case "geneteka":
			enabledSources = append(enabledSources, sources.NewGeneteka(cfg, logging))
		case "ptg":
			enabledSources = append(enabledSources, sources.NewPTG(cfg, logging))
		case "poznan":
			enabledSources = append(enabledSources, sources.NewPoznan(cfg, logging))
		case "basia":
			enabledSources = append(enabledSources, sources.NewBaSIA(cfg, logging))
		default:
			logging.Warn("Unknown source in config", zap.String("source_name", name))
		}
	}
	if len(enabledSources) == 0 {
		logging.Fatal("No valid sources enabled. Check ENABLED_SOURCES in .env")
	}
	logging.Info("Active sources loaded", zap.Strings("sources", cfg.SourceNames()))

	searchService := services.NewSearchService(cfg, store, logging, enabledSources)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupPersonRoutes(router, cfg, resolver, logging)
	setupSearchRoutes(router, cfg, resolver, searchService, logging)
	setupRecordRoutes(router, store, logging)
	setupRegionRoutes(router, resolver)

	if cfg.CronSchedule != "" {
		cronScheduler := cron.New()
		_, err := cronScheduler.AddFunc(cfg.CronSchedule, func() {
			logging.Info("Running scheduled search...")
			runSearch(context.Background(), cfg, resolver, searchService, services.RunOptions{}, logging)
		})
		if err != nil {
			logging.Fatal("Invalid cron schedule", zap.Error(err))
		}
		cronScheduler.Start()
		logging.Info("Cron schedule active", zap.String("schedule", cfg.CronSchedule))
	}

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

// loadPersons parses the configured person source, resolves regions and
// applies the living-person cutoff.
func loadPersons(ctx context.Context, cfg *config.Config, resolver *regions.Resolver, logger *zap.Logger) ([]*models.Person, error) {
	var (
		list []*models.Person
		err  error
	)
	switch {
	case cfg.GedcomPath != "":
		list, err = persons.NewGedcomAdapter(cfg.GedcomPath, resolver, logger).Parse(ctx)
	case cfg.HeredisPath != "":
		list, err = persons.NewHeredisAdapter(cfg.HeredisPath, resolver, logger).Parse(ctx)
	default:
		return nil, errors.New("no person source configured: set GEDCOM_PATH or HEREDIS_PATH")
	}
	if err != nil {
		return nil, err
	}

	before := len(list)
	list = persons.FilterByCutoff(list, cfg.BirthYearCutoff)
	if dropped := before - len(list); dropped > 0 {
		logger.Info("Filtered out persons past the birth-year cutoff",
			zap.Int("dropped", dropped), zap.Int("cutoff_year", cfg.BirthYearCutoff))
	}
	return list, nil
}

// runMu serializes triggered runs: the cron schedule and POST /search/run
// both fire runSearch in the background, and the sites as well as the
// single-writer store expect one run at a time.
var runMu sync.Mutex

func runSearch(ctx context.Context, cfg *config.Config, resolver *regions.Resolver, searchService *services.SearchService, opts services.RunOptions, logger *zap.Logger) {
	if !runMu.TryLock() {
		logger.Warn("Search run already in progress, trigger ignored")
		return
	}
	defer runMu.Unlock()

	list, err := loadPersons(ctx, cfg, resolver, logger)
	if err != nil {
		logger.Error("Person source load failed", zap.Error(err))
		return
	}

	if opts.PersonID != "" {
		p := persons.FindByID(list, opts.PersonID)
		if p == nil {
			logger.Error("Person not found", zap.String("person_id", opts.PersonID))
			return
		}
		list = []*models.Person{p}
	} else {
		if opts.Random {
			rand.Shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })
		} else {
			persons.SortByBirthYear(list)
		}
		if opts.Limit > 0 && opts.Limit < len(list) {
			list = list[:opts.Limit]
		}
	}

	summary, err := searchService.RunAll(ctx, list, opts)
	if err != nil {
		logger.Error("Search run aborted", zap.Error(err))
	}
	personsProcessedCounter.Add(float64(summary.PersonsProcessed))
	matchesStoredCounter.Add(float64(summary.MatchesStored))
}

func setupPersonRoutes(router *gin.Engine, cfg *config.Config, resolver *regions.Resolver, log *zap.Logger) {
	rg := router.Group("/persons")
	rg.GET("/", func(c *gin.Context) {
		list, err := loadPersons(c.Request.Context(), cfg, resolver, log)
		if err != nil {
			log.Error("Person source load failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load persons"})
			return
		}
		persons.SortByBirthYear(list)
		c.JSON(http.StatusOK, list)
	})
}

func setupSearchRoutes(router *gin.Engine, cfg *config.Config, resolver *regions.Resolver, searchService *services.SearchService, log *zap.Logger) {
	rg := router.Group("/search")
	rg.POST("/run", func(c *gin.Context) {
		// Empty or absent body runs with defaults.
		var opts services.RunOptions
		_ = c.ShouldBindJSON(&opts)

		go runSearch(context.Background(), cfg, resolver, searchService, opts, log)
		c.JSON(http.StatusAccepted, gin.H{"message": "Search run triggered."})
	})
}

func setupRecordRoutes(router *gin.Engine, store *storage.Store, log *zap.Logger) {
	rg := router.Group("/records")

	rg.GET("/matches", func(c *gin.Context) {
		filter := storage.MatchFilter{
			PersonID:   c.Query("person_id"),
			Source:     c.Query("source"),
			RecordType: c.Query("record_type"),
		}
		if l := c.Query("limit"); l != "" {
			n, err := strconv.Atoi(l)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "'limit' must be an integer"})
				return
			}
			filter.Limit = n
		}
		matches, err := store.ListMatches(filter)
		if err != nil {
			log.Error("Match query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, matches)
	})

	rg.GET("/retrieved/:person_id", func(c *gin.Context) {
		limit := 0
		if l := c.Query("limit"); l != "" {
			n, err := strconv.Atoi(l)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "'limit' must be an integer"})
				return
			}
			limit = n
		}
		rows, err := store.ListRetrieved(c.Param("person_id"), limit)
		if err != nil {
			log.Error("Retrieved-records query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, rows)
	})
}

func setupRegionRoutes(router *gin.Engine, resolver *regions.Resolver) {
	rg := router.Group("/regions")
	rg.POST("/resolve", func(c *gin.Context) {
		var req struct {
			Place string `json:"place" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body. 'place' field is required."})
			return
		}
		region := resolver.Resolve(c.Request.Context(), req.Place)
		c.JSON(http.StatusOK, gin.H{"place": req.Place, "region": region, "resolved": region != ""})
	})
}
