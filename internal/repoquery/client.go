// Package repoquery reads the destination repository's entity tables,
// either live over its discovery API or from the local lookup cache.
package repoquery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/uvalib/dspace-util-sub000/pkg/models"
)

// Source yields the destination's entities of one kind. The live client
// and the lookup cache both implement it.
type Source interface {
	Entities(ctx context.Context, kind string) ([]models.RepoEntity, error)
}

// Client pages through the destination's entity discovery API.
type Client struct {
	base     string
	token    string
	pageSize int
	http     *http.Client
	log      zerolog.Logger
}

// NewClient returns a client for the given API base URL. An empty token
// sends unauthenticated requests.
func NewClient(base, token string, pageSize int, timeout time.Duration, log zerolog.Logger) *Client {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Client{
		base:     strings.TrimRight(base, "/"),
		token:    token,
		pageSize: pageSize,
		http:     &http.Client{Timeout: timeout},
		log:      log.With().Str("component", "repoquery").Logger(),
	}
}

type pageEnvelope struct {
	Page struct {
		Number     int `json:"number"`
		TotalPages int `json:"totalPages"`
	} `json:"page"`
	Items []models.RepoEntity `json:"items"`
}

// Entities fetches every page of the given kind and returns the
// accumulated items.
func (c *Client) Entities(ctx context.Context, kind string) ([]models.RepoEntity, error) {
	var all []models.RepoEntity

	page := 0
	for {
		env, err := c.fetchPage(ctx, kind, page)
		if err != nil {
			return nil, err
		}
		all = append(all, env.Items...)
		c.log.Debug().
			Str("kind", kind).
			Int("page", page).
			Int("total_pages", env.Page.TotalPages).
			Int("fetched", len(all)).
			Msg("page fetched")

		page++
		if len(env.Items) == 0 || page >= env.Page.TotalPages {
			break
		}
	}

	c.log.Info().Str("kind", kind).Int("entities", len(all)).Msg("entity fetch complete")
	return all, nil
}

// fetchPage gets one page, retrying transport errors and 5xx responses
// with exponential backoff. Client errors and decode failures are
// permanent.
func (c *Client) fetchPage(ctx context.Context, kind string, page int) (*pageEnvelope, error) {
	u, err := url.Parse(c.base + "/api/entities")
	if err != nil {
		return nil, fmt.Errorf("entities: bad base url %q: %w", c.base, err)
	}
	q := u.Query()
	q.Set("type", kind)
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(c.pageSize))
	u.RawQuery = q.Encode()

	var env pageEnvelope
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("request: %w", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		default:
			return backoff.Permanent(fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
		}

		if err := json.Unmarshal(body, &env); err != nil {
			return backoff.Permanent(fmt.Errorf("decode: %w", err))
		}
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return nil, fmt.Errorf("entities: fetch %s page %d: %w", kind, page, err)
	}
	return &env, nil
}
