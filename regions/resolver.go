// Package regions resolves free-text place strings to standardized
// voivodeship names.
package regions

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"genesearch/storage"
)

// Geocoder is the optional external fallback for towns the alias table
// cannot place. See geocode.Client for the three-outcome contract.
type Geocoder interface {
	LookupVoivodeship(ctx context.Context, town string) (region string, found bool, err error)
}

// RegionCache is the persistent cross-run cache of geocoder outcomes.
type RegionCache interface {
	GetCachedRegion(query string) (storage.CachedRegion, error)
	SetCachedRegion(query, region string) error
}

// Resolver maps a place string such as
// "Kraków, , , MAŁOPOLSKIE, Polska," to a canonical voivodeship name.
// Lookup order: in-process cache on the exact input, then the alias table on
// the 4th comma segment, then (when a geocoder is configured) a geocoder
// call on the 1st segment guarded by the persistent cache.
type Resolver struct {
	cache    RegionCache
	geocoder Geocoder
	logger   *zap.Logger

	mu   sync.Mutex
	memo map[string]string
}

// NewResolver creates a resolver. geocoder may be nil to disable the
// external fallback entirely.
func NewResolver(cache RegionCache, geocoder Geocoder, logger *zap.Logger) *Resolver {
	return &Resolver{
		cache:    cache,
		geocoder: geocoder,
		logger:   logger,
		memo:     make(map[string]string),
	}
}

// Resolve returns the canonical voivodeship for a place string, or "" when
// none can be derived. Empty input returns "" without any cache or network
// access. Geocoder failures are soft: logged, not cached, resolved as "".
func (r *Resolver) Resolve(ctx context.Context, place string) string {
	if place == "" {
		return ""
	}

	r.mu.Lock()
	if region, ok := r.memo[place]; ok {
		r.mu.Unlock()
		return region
	}
	r.mu.Unlock()

	region := r.resolveUncached(ctx, place)

	r.mu.Lock()
	r.memo[place] = region
	r.mu.Unlock()
	return region
}

func (r *Resolver) resolveUncached(ctx context.Context, place string) string {
	parts := strings.Split(place, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	// Conventional export ordering: Town, Area code, County, Region,
	// Country, Subdivision. The region sits at index 3.
	if len(parts) > 3 && parts[3] != "" {
		if canonical, ok := voivodeshipAliases[strings.ToUpper(parts[3])]; ok {
			return canonical
		}
	}

	if r.geocoder != nil && len(parts) > 0 && parts[0] != "" {
		return r.queryGeocoder(ctx, parts[0])
	}

	return ""
}

// queryGeocoder asks the external geocoder about a town, going through the
// persistent cache first. Definitive outcomes (found or confirmed absent)
// are cached; soft failures are not, so a later run retries them.
func (r *Resolver) queryGeocoder(ctx context.Context, town string) string {
	log := r.logger.With(zap.String("town", town))

	cached, err := r.cache.GetCachedRegion(town)
	if err != nil {
		log.Warn("Region cache read failed, falling through to geocoder", zap.Error(err))
	} else {
		switch cached.Status {
		case storage.CachedFound:
			log.Debug("Geocoder lookup served from cache", zap.String("region", cached.Region))
			return cached.Region
		case storage.CachedNotFound:
			log.Debug("Geocoder lookup served from cache (no voivodeship)")
			return ""
		}
	}

	region, found, err := r.geocoder.LookupVoivodeship(ctx, town)
	if err != nil {
		log.Warn("Geocoder lookup failed, not cached", zap.Error(err))
		return ""
	}

	if err := r.cache.SetCachedRegion(town, region); err != nil {
		log.Warn("Region cache write failed", zap.Error(err))
	}

	if !found {
		log.Info("Geocoder found no voivodeship")
		return ""
	}
	log.Info("Geocoder resolved voivodeship", zap.String("region", region))
	return region
}
