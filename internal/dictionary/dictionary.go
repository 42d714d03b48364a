// Package dictionary provides the advisory word-lookup collaborator. Lookups
// are best-effort: any transport failure, timeout, or ambiguous answer maps
// to VerdictUnknown, never to an error the caller has to handle.
package dictionary

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Verdict is the ternary outcome of a dictionary lookup
type Verdict string

const (
	VerdictValid   Verdict = "VALID"
	VerdictInvalid Verdict = "INVALID"
	VerdictUnknown Verdict = "UNKNOWN"
)

// Lookup is the collaborator contract: safe for concurrent use, never
// authoritative (host decisions always win when explicitly supplied)
type Lookup interface {
	IsValidWord(ctx context.Context, word, language string) Verdict
}

const defaultTimeout = 2 * time.Second

// Client queries an HTTP dictionary service. A 200 means the word exists,
// a 404 means it does not, anything else is inconclusive.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a dictionary client for the given base URL. The URL is
// expected to accept GET {base}/{language}/{word}.
func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logger.With().Str("component", "dictionary").Logger(),
	}
}

// IsValidWord implements Lookup
func (c *Client) IsValidWord(ctx context.Context, word, language string) Verdict {
	if c.baseURL == "" {
		return VerdictUnknown
	}

	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(language), url.PathEscape(word))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Debug().Err(err).Str("word", word).Msg("building lookup request failed")
		return VerdictUnknown
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("word", word).Msg("lookup failed")
		return VerdictUnknown
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return VerdictValid
	case http.StatusNotFound:
		return VerdictInvalid
	default:
		c.logger.Debug().Int("status", resp.StatusCode).Str("word", word).Msg("inconclusive lookup")
		return VerdictUnknown
	}
}

// Static serves lookups from an in-memory word list, keyed by language tag.
// Useful in tests and for deployments without a dictionary service.
type Static struct {
	words map[string]map[string]struct{}
}

// NewStatic builds a static dictionary from per-language word lists
func NewStatic(lists map[string][]string) *Static {
	words := make(map[string]map[string]struct{}, len(lists))
	for language, list := range lists {
		set := make(map[string]struct{}, len(list))
		for _, w := range list {
			set[w] = struct{}{}
		}
		words[language] = set
	}
	return &Static{words: words}
}

// IsValidWord implements Lookup. Languages without a list are unknown, not
// invalid.
func (s *Static) IsValidWord(_ context.Context, word, language string) Verdict {
	set, ok := s.words[language]
	if !ok {
		return VerdictUnknown
	}
	if _, ok := set[word]; ok {
		return VerdictValid
	}
	return VerdictInvalid
}

// None always answers unknown, degrading every word to host arbitration
type None struct{}

// IsValidWord implements Lookup
func (None) IsValidWord(context.Context, string, string) Verdict {
	return VerdictUnknown
}
