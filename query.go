package esindex

import (
	"github.com/olivere/elastic/v7"
	"github.com/pkg/errors"
)

// QueryBuilder produces a query clause. Every olivere/elastic query satisfies it.
type QueryBuilder interface {
	Source() (interface{}, error)
}

var _ QueryBuilder = elastic.Query(nil)

// Query is the query argument of the search family. It is one of MatchAll,
// QueryString, Structured or Builder.
type Query interface {
	isQuery()
}

// MatchAll is the empty query: every document matches.
type MatchAll struct{}

// QueryString is a raw query in Lucene query-string syntax.
type QueryString string

// Structured is a query clause given as a plain document, e.g. {"match": {...}}.
type Structured map[string]any

// Builder wraps a pre-built query.
type Builder struct {
	QueryBuilder
}

// FromBuilder wraps b as a Query.
func FromBuilder(b QueryBuilder) Query {
	return Builder{QueryBuilder: b}
}

func (MatchAll) isQuery()    {}
func (QueryString) isQuery() {}
func (Structured) isQuery()  {}
func (Builder) isQuery()     {}

// NormalizeQuery turns any Query into the clause sent under "query".
// A nil Query and an empty QueryString match all documents.
func NormalizeQuery(q Query) (interface{}, error) {
	var builder QueryBuilder

	switch v := q.(type) {
	case nil, MatchAll:
		builder = elastic.NewMatchAllQuery()
	case QueryString:
		if v == "" {
			builder = elastic.NewMatchAllQuery()
		} else {
			builder = elastic.NewQueryStringQuery(string(v))
		}
	case Structured:
		if len(v) == 0 {
			builder = elastic.NewMatchAllQuery()
		} else {
			return map[string]any(v), nil
		}
	case Builder:
		if v.QueryBuilder == nil {
			return nil, errors.New("query builder is nil")
		}
		builder = v.QueryBuilder
	default:
		return nil, errors.Errorf("unsupported query type %T", q)
	}

	src, err := builder.Source()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build query")
	}
	return src, nil
}
