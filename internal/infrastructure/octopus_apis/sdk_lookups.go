package octopus_apis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/domain/jsonex"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/infrastructure/apploggers"
	"github.com/OctopusSolutionsEngineering/OctopusBuildStep/internal/infrastructure/retry_config"
	"github.com/allegro/bigcache/v3"
	"github.com/avast/retry-go"
)

// sdkLookups reads resource lists through the go-octopusdeploy client. The lists are converted to the
// domain models through their JSON representation, and the JSON is what the optional cache holds.
type sdkLookups struct {
	resources sdkResources
	cache     *bigcache.BigCache
	logger    apploggers.AppLogger
}

func newSdkLookups(resources sdkResources, cacheDuration time.Duration, logger apploggers.AppLogger) (*sdkLookups, error) {
	lookups := &sdkLookups{
		resources: resources,
		logger:    logger,
	}

	if cacheDuration > 0 {
		cache, err := bigcache.New(context.Background(), cacheConfig(cacheDuration))

		if err != nil {
			return nil, fmt.Errorf("octobuildstep-init-cacheerror - failed to create the lookup cache: %w", err)
		}

		lookups.cache = cache
	}

	return lookups, nil
}

// cacheConfig sizes the cache for a handful of resource lists rather than the bigcache defaults
func cacheConfig(lifeWindow time.Duration) bigcache.Config {
	config := bigcache.DefaultConfig(lifeWindow)
	config.Shards = 16
	config.MaxEntriesInWindow = 1024
	config.MaxEntrySize = 8192
	config.HardMaxCacheSize = 64
	config.Verbose = false
	return config
}

// listResources returns the list read by the SDK call as domain models, retrying failures the way the
// web client retries GET requests
func listResources[T any, S any](ctx context.Context, lookups *sdkLookups, key string, list func() ([]S, error)) ([]T, error) {
	result := []T{}

	if lookups.cache != nil {
		if cached, err := lookups.cache.Get(key); err == nil {
			if err := jsonex.DeserializeJsonBytes(cached, &result); err == nil {
				return result, nil
			}
		}
	}

	var items []S
	options := append([]retry.Option{
		retry.Context(ctx),
		retry.RetryIf(isRetryable),
	}, retry_config.RetryOptions...)

	err := retry.Do(
		func() error {
			var err error
			items, err = list()
			return translateSdkError(err)
		}, options...)

	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(items)

	if err != nil {
		return nil, fmt.Errorf("failed to serialize the %s returned by the Octopus client: %w", key, err)
	}

	if err := jsonex.DeserializeJsonBytes(data, &result); err != nil {
		return nil, err
	}

	if lookups.cache != nil {
		if err := lookups.cache.Set(key, data); err != nil {
			lookups.logger.GetLogger().Warn("Failed to cache the " + key + ": " + err.Error())
		}
	}

	return result, nil
}
