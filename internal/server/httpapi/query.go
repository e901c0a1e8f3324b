package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/taxiikeeper/internal/common"
	"github.com/dmitrijs2005/taxiikeeper/internal/pagination"
	"github.com/dmitrijs2005/taxiikeeper/internal/query"
	"github.com/dmitrijs2005/taxiikeeper/internal/stix"
)

// splitTokens flattens repeated parameters and comma separated values.
func splitTokens(values []string) []string {
	var tokens []string
	for _, v := range values {
		for _, tok := range strings.Split(v, ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				tokens = append(tokens, tok)
			}
		}
	}
	return tokens
}

func parseLimit(params url.Values, maxPageSize int) (int, error) {
	raw := params.Get("limit")
	if raw == "" {
		return maxPageSize, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("limit %q: %w", raw, common.ErrInvalidArgument)
	}
	return min(n, maxPageSize), nil
}

// parseSpec builds the filter specification of a request. Malformed values
// are reported as common.ErrInvalidArgument; unknown parameters are ignored.
// Limit is always between 1 and maxPageSize: a request without limit is paged
// by maxPageSize, so the HTTP API never asks for an unpaginated result.
func parseSpec(r *http.Request, collectionID, objectID string, maxPageSize int) (*query.Spec, error) {
	params := r.URL.Query()

	limit, err := parseLimit(params, maxPageSize)
	if err != nil {
		return nil, err
	}
	next, err := pagination.ParseCursor(params.Get("next"))
	if err != nil {
		return nil, err
	}

	spec := &query.Spec{
		CollectionID: collectionID,
		ObjectID:     objectID,
		Limit:        limit,
		Next:         next,
		Match: query.Match{
			ID:          splitTokens(params["match[id]"]),
			Type:        splitTokens(params["match[type]"]),
			Version:     splitTokens(params["match[version]"]),
			SpecVersion: splitTokens(params["match[spec_version]"]),
		},
	}

	if raw := params.Get("added_after"); raw != "" {
		ts, err := stix.ParseTimestamp(raw)
		if err != nil {
			return nil, fmt.Errorf("added_after: %w: %w", common.ErrInvalidArgument, err)
		}
		spec.AddedAfter = &ts.Time
	}
	return spec, nil
}
