package source

import (
	"go.uber.org/zap"

	"github.com/reviewscout/enrich-cli/internal/fetch"
	"github.com/reviewscout/enrich-cli/pkg/anthropic"
	"github.com/reviewscout/enrich-cli/pkg/google"
)

// BuildChain assembles the fallback chain in its fixed order: details,
// map search, website. A source whose client is missing (absent
// credential) is excluded for the whole run; the remaining sources are
// still attempted for every record.
func BuildChain(places google.Client, ai anthropic.Client, aiModel string, fetcher *fetch.Fetcher, region string) []Connector {
	var chain []Connector

	if places != nil {
		chain = append(chain, NewDetails(places), NewMapSearch(places, region))
	} else {
		zap.L().Warn("source: places credential missing, skipping details and map search for this run")
	}

	if ai == nil {
		zap.L().Warn("source: anthropic credential missing, website extraction will use direct fetch only")
	}
	chain = append(chain, NewWebsite(ai, aiModel, fetcher, region))

	return chain
}
