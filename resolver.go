package esindex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// ClusterInfo represents routing information from sync service.
type ClusterInfo struct {
	ClusterName string `json:"cluster_name"`
	ClusterID   int    `json:"cluster_id"`
	IndexName   string `json:"index_name"`
}

// Resolver finds the cluster and index a company's documents live in, using
// Redis as a cache in front of the sync service.
type Resolver struct {
	registry   *Registry
	redis      *redis.Client
	syncURL    string
	cacheTTL   time.Duration
	httpClient *http.Client
	log        Logger
}

// ResolverConfig configures the resolver.
type ResolverConfig struct {
	Registry   *Registry     // Registry with pre-created clients
	Redis      *redis.Client // Redis client for caching, nil disables the cache
	SyncURL    string        // Sync service URL (e.g., "http://sync-service:8080")
	CacheTTL   time.Duration // Cache TTL (default: 24h)
	HTTPClient *http.Client  // HTTP client for sync calls (optional)
	Logger     Logger        // Optional
}

// NewResolver creates a new resolver.
func NewResolver(cfg ResolverConfig) (*Resolver, error) {
	if cfg.Registry == nil {
		return nil, errors.New("registry is required")
	}
	if cfg.SyncURL == "" {
		return nil, errors.New("sync service URL is required")
	}

	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}

	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{
			Timeout: 5 * time.Second,
		}
	}

	return &Resolver{
		registry:   cfg.Registry,
		redis:      cfg.Redis,
		syncURL:    cfg.SyncURL,
		cacheTTL:   cfg.CacheTTL,
		httpClient: cfg.HTTPClient,
		log:        safeLogger(cfg.Logger),
	}, nil
}

// Resolve returns the index handle for company and index type.
func (r *Resolver) Resolve(ctx context.Context, companyID, indexType string) (*Index, error) {
	info, err := r.ResolveRaw(ctx, companyID, indexType)
	if err != nil {
		return nil, err
	}

	idx, err := r.registry.Index(info.ClusterName, info.IndexName)
	if err != nil {
		return nil, errors.Wrapf(err, "cluster %q not found in registry", info.ClusterName)
	}
	return idx, nil
}

// ResolveRaw resolves cluster info without building an index handle.
func (r *Resolver) ResolveRaw(ctx context.Context, companyID, indexType string) (*ClusterInfo, error) {
	if companyID == "" {
		return nil, errors.New("company ID is required")
	}
	if indexType == "" {
		return nil, errors.New("index type is required")
	}

	info, err := r.getFromCache(ctx, companyID, indexType)
	if err == nil && info != nil {
		return info, nil
	}

	info, err = r.fetchFromSync(ctx, companyID, indexType)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch from sync service")
	}

	if err := r.saveToCache(ctx, companyID, indexType, info); err != nil {
		r.log.DebugWithCtx(ctx, "failed to cache cluster info", "company_id", companyID, "error", err)
	}

	return info, nil
}

func cacheKey(companyID, indexType string) string {
	return fmt.Sprintf("es_settings_%s_%s", companyID, indexType)
}

// getFromCache retrieves cluster info from Redis.
func (r *Resolver) getFromCache(ctx context.Context, companyID, indexType string) (*ClusterInfo, error) {
	if r.redis == nil {
		return nil, errors.New("cache disabled")
	}

	val, err := r.redis.Get(ctx, cacheKey(companyID, indexType)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.New("cache miss")
		}
		return nil, errors.Wrap(err, "redis get failed")
	}

	var info ClusterInfo
	if err := json.Unmarshal([]byte(val), &info); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal cached info")
	}

	return &info, nil
}

// saveToCache saves cluster info to Redis with a short write deadline.
func (r *Resolver) saveToCache(ctx context.Context, companyID, indexType string, info *ClusterInfo) error {
	if r.redis == nil {
		return nil
	}

	data, err := json.Marshal(info)
	if err != nil {
		return errors.Wrap(err, "failed to marshal info")
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := r.redis.Set(ctx, cacheKey(companyID, indexType), data, r.cacheTTL).Err(); err != nil {
		return errors.Wrap(err, "redis set failed")
	}

	return nil
}

// fetchFromSync calls sync service to get cluster info.
func (r *Resolver) fetchFromSync(ctx context.Context, companyID, indexType string) (*ClusterInfo, error) {
	url := fmt.Sprintf("%s/v1/company/refresh-es-info-cache", r.syncURL)

	bodyReader, err := jsonBody(map[string]string{
		"company_id": companyID,
		"type":       indexType,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bodyReader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create HTTP request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "HTTP request to sync service failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("sync service returned status %d: %s", resp.StatusCode, string(body))
	}

	var info ClusterInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, errors.Wrap(err, "failed to decode sync response")
	}
	if info.IndexName == "" {
		return nil, errors.New("sync service returned empty index name")
	}

	return &info, nil
}

// InvalidateCache removes cached cluster info for company and index type.
func (r *Resolver) InvalidateCache(ctx context.Context, companyID, indexType string) error {
	if r.redis == nil {
		return nil
	}
	return r.redis.Del(ctx, cacheKey(companyID, indexType)).Err()
}

// InvalidateCompanyCache removes all cached cluster info for a company.
func (r *Resolver) InvalidateCompanyCache(ctx context.Context, companyID string) error {
	if r.redis == nil {
		return nil
	}

	pattern := fmt.Sprintf("es_settings_%s_*", companyID)

	iter := r.redis.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := r.redis.Del(ctx, iter.Val()).Err(); err != nil {
			return errors.Wrapf(err, "failed to delete key %s", iter.Val())
		}
	}

	return iter.Err()
}
