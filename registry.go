package esindex

import (
	"net/url"
	"sort"

	elasticV8 "github.com/elastic/go-elasticsearch/v8"
	elasticV9 "github.com/elastic/go-elasticsearch/v9"
	"github.com/pkg/errors"
)

// Entry represents a registered Elasticsearch cluster with pre-created client.
type Entry struct {
	Name    string  // Cluster name
	Version int     // Elasticsearch version (8 or 9)
	BaseURL string  // Base URL for the cluster
	Client  *Client // Pre-created client
}

// Registry manages multiple Elasticsearch clusters.
// All clients are created once during initialization.
type Registry struct {
	defaultName string
	byName      map[string]Entry
}

// NewRegistry creates a new empty registry.
func NewRegistry(defaultName string) *Registry {
	if defaultName == "" {
		defaultName = "default"
	}
	return &Registry{
		defaultName: defaultName,
		byName:      make(map[string]Entry),
	}
}

// NewRegistryFromConfig creates registry from configuration.
// All ES clients are created during initialization (one-time setup).
func NewRegistryFromConfig(cfg *Config) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	reg := NewRegistry(cfg.DefaultCluster)

	for name, clusterCfg := range cfg.Clusters {
		baseURL := clusterCfg.Addresses[0]
		u, err := url.Parse(baseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, ErrInvalidBaseURL(name, baseURL)
		}

		es, err := newESClient(name, clusterCfg, u)
		if err != nil {
			return nil, err
		}

		client, err := NewClient(es, baseURL, WithLogger(cfg.Logger))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create client for %q", name)
		}

		reg.Register(Entry{
			Name:    name,
			Version: clusterCfg.Version,
			BaseURL: baseURL,
			Client:  client,
		})
	}

	return reg, nil
}

func newESClient(name string, cfg ClusterConfig, u *url.URL) (ESClient, error) {
	switch cfg.Version {
	case 9:
		cl, err := elasticV9.NewClient(elasticV9.Config{
			Addresses: cfg.Addresses,
			Username:  cfg.Username,
			Password:  cfg.Password,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create ES v9 client for %q", name)
		}
		return NewESClientV9(cl, u), nil

	case 8:
		cl, err := elasticV8.NewClient(elasticV8.Config{
			Addresses: cfg.Addresses,
			Username:  cfg.Username,
			Password:  cfg.Password,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create ES v8 client for %q", name)
		}
		return NewESClientV8(cl, u), nil

	default:
		// This should never happen after Validate()
		return nil, ErrInvalidESVersion(name, cfg.Version)
	}
}

// Register adds or replaces a cluster entry.
func (r *Registry) Register(entry Entry) {
	r.byName[entry.Name] = entry
}

// GetClient returns pre-created client by cluster name.
// An empty name selects the default cluster.
func (r *Registry) GetClient(clusterName string) (*Client, error) {
	entry, err := r.GetEntry(clusterName)
	if err != nil {
		return nil, err
	}
	return entry.Client, nil
}

// GetEntry returns full entry (client + metadata) by cluster name.
func (r *Registry) GetEntry(clusterName string) (Entry, error) {
	if clusterName == "" {
		clusterName = r.defaultName
	}

	entry, ok := r.byName[clusterName]
	if !ok {
		return Entry{}, ErrClusterNotFound(clusterName)
	}

	return entry, nil
}

// Default returns the default cluster client.
func (r *Registry) Default() (*Client, error) {
	return r.GetClient(r.defaultName)
}

// Index returns a handle for index name on the given cluster.
func (r *Registry) Index(clusterName string, name any) (*Index, error) {
	client, err := r.GetClient(clusterName)
	if err != nil {
		return nil, err
	}
	return client.Index(name)
}

// ListClusters returns the sorted names of all registered clusters.
func (r *Registry) ListClusters() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
