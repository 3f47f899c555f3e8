package esindex

import "encoding/json"

// Result is a single search hit.
type Result struct {
	Index  string         `json:"_index"`
	ID     string         `json:"_id"`
	Score  *float64       `json:"_score"`
	Source map[string]any `json:"_source"`
	Sort   []any          `json:"sort,omitempty"`
}

// ResultSet is the outcome of a search.
type ResultSet struct {
	Took         int
	TimedOut     bool
	TotalHits    int
	MaxScore     *float64
	Results      []Result
	Aggregations map[string]any
	Response     *Response
}

// Count returns the number of hits in this page.
func (rs *ResultSet) Count() int {
	return len(rs.Results)
}

// DefaultResultSetBuilder decodes the standard search reply.
type DefaultResultSetBuilder struct{}

var _ ResultSetBuilder = DefaultResultSetBuilder{}

type searchReply struct {
	Took     int  `json:"took"`
	TimedOut bool `json:"timed_out"`
	Hits     struct {
		Total    totalHits `json:"total"`
		MaxScore *float64  `json:"max_score"`
		Hits     []Result  `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]any `json:"aggregations"`
}

// totalHits accepts both the object form {"value": n} and the bare number older engines send.
type totalHits struct {
	Value int `json:"value"`
}

func (t *totalHits) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		t.Value = n
		return nil
	}
	var obj struct {
		Value int `json:"value"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	t.Value = obj.Value
	return nil
}

// BuildResultSet implements ResultSetBuilder.
func (DefaultResultSetBuilder) BuildResultSet(res *Response, _ *Search) (*ResultSet, error) {
	var reply searchReply
	if err := res.Decode(&reply); err != nil {
		return nil, err
	}

	return &ResultSet{
		Took:         reply.Took,
		TimedOut:     reply.TimedOut,
		TotalHits:    reply.Hits.Total.Value,
		MaxScore:     reply.Hits.MaxScore,
		Results:      reply.Hits.Hits,
		Aggregations: reply.Aggregations,
		Response:     res,
	}, nil
}
