package domain

// SearchOptions configures a catalog search.
type SearchOptions struct {
	// Limit is the maximum number of results. Defaults to 20 when zero.
	Limit int

	// Offset is the number of results to skip.
	Offset int

	// Kinds restricts results to the listed entity kinds.
	Kinds []Kind

	// Sources restricts results to the listed source codes.
	Sources []string
}

// Validate rejects malformed search parameters before they reach the index.
func (o SearchOptions) Validate() error {
	if o.Limit < 0 || o.Offset < 0 {
		return ErrInvalidInput
	}
	for _, k := range o.Kinds {
		if _, ok := ParseKind(string(k)); !ok {
			return ErrUnknownKind
		}
	}
	return nil
}

// SearchResult is a single ranked search hit.
type SearchResult struct {
	// Entity is the matched catalog entity.
	Entity Entity

	// Score is the relevance score. Higher is better.
	// Zero for name-ordered listings of an empty query.
	Score float64

	// Snippet is a short excerpt of the matched text.
	Snippet string
}
