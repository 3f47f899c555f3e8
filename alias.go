package esindex

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

// AliasStatus resolves which indices currently hold an alias.
type AliasStatus interface {
	IndicesWithAlias(ctx context.Context, alias string) ([]*Index, error)
}

// Status answers cluster-wide questions through the client handle.
type Status struct {
	handle Handle
}

var _ AliasStatus = (*Status)(nil)

// NewStatus creates a Status bound to handle.
func NewStatus(handle Handle) *Status {
	return &Status{handle: handle}
}

// IndicesWithAlias returns an Index for every index holding alias.
// An alias nobody holds yields an empty slice.
func (s *Status) IndicesWithAlias(ctx context.Context, alias string) ([]*Index, error) {
	res, err := s.handle.Request(ctx, "_alias/"+alias, http.MethodGet, nil, nil)
	if err != nil {
		var re *ResponseError
		if errors.As(err, &re) && re.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to look up alias %q", alias)
	}

	indices := make([]*Index, 0, len(res.Data))
	for name := range res.Data {
		idx, err := NewIndex(s.handle, name)
		if err != nil {
			return nil, err
		}
		indices = append(indices, idx)
	}

	return indices, nil
}

// AliasAction is one entry of an _aliases request body.
type AliasAction map[string]aliasTarget

type aliasTarget struct {
	Index string `json:"index"`
	Alias string `json:"alias"`
}

func addAliasAction(index, alias string) AliasAction {
	return AliasAction{"add": {Index: index, Alias: alias}}
}

func removeAliasAction(index, alias string) AliasAction {
	return AliasAction{"remove": {Index: index, Alias: alias}}
}

// AddAlias points alias at this index. With replace, every other index holding
// the alias loses it in the same atomic request.
func (i *Index) AddAlias(ctx context.Context, alias string, replace bool) (*Response, error) {
	actions := make([]AliasAction, 0, 1)

	if replace {
		holders, err := i.status.IndicesWithAlias(ctx, alias)
		if err != nil {
			return nil, err
		}
		for _, holder := range holders {
			actions = append(actions, removeAliasAction(holder.Name(), alias))
		}
	}

	actions = append(actions, addAliasAction(i.name, alias))

	return i.updateAliases(ctx, actions)
}

// RemoveAlias removes alias from this index.
func (i *Index) RemoveAlias(ctx context.Context, alias string) (*Response, error) {
	return i.updateAliases(ctx, []AliasAction{removeAliasAction(i.name, alias)})
}

func (i *Index) updateAliases(ctx context.Context, actions []AliasAction) (*Response, error) {
	body := map[string]any{"actions": actions}
	return i.handle.Request(ctx, "_aliases", http.MethodPost, body, nil)
}

// GetAliases returns the names of the aliases pointing at this index.
// Order follows the decoded response and is not sorted.
func (i *Index) GetAliases(ctx context.Context) ([]string, error) {
	res, err := i.handle.Request(ctx, "_alias/*", http.MethodGet, nil, nil)
	if err != nil {
		return nil, err
	}

	entry, ok := res.Data[i.name].(map[string]any)
	if !ok {
		return []string{}, nil
	}
	aliases, ok := entry["aliases"].(map[string]any)
	if !ok {
		return []string{}, nil
	}

	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	return names, nil
}

// HasAlias reports whether alias points at this index.
func (i *Index) HasAlias(ctx context.Context, alias string) (bool, error) {
	aliases, err := i.GetAliases(ctx)
	if err != nil {
		return false, err
	}
	for _, name := range aliases {
		if name == alias {
			return true, nil
		}
	}
	return false, nil
}
