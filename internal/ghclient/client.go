// Package ghclient talks to the GitHub GraphQL and REST APIs on behalf of
// the maintainer dashboard.
package ghclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// ErrNoToken is returned when no GitHub token is available.
var ErrNoToken = errors.New("GitHub token not provided. Set the GITHUB_TOKEN environment variable")

// Client wraps the GitHub GraphQL client used for searches and the REST
// client used for rate limit inspection.
type Client struct {
	gql   *githubv4.Client
	rest  *gh.Client
	state *RateLimitState
}

// NewClient creates a client for github.com using a personal access token.
func NewClient(ctx context.Context, token string) (*Client, error) {
	return NewClientWithEndpoint(ctx, token, "", "")
}

// NewClientWithEndpoint creates a client for a GitHub Enterprise instance.
// graphqlURL is the full GraphQL endpoint and restURL the REST API base.
// Empty values select github.com.
func NewClientWithEndpoint(ctx context.Context, token, graphqlURL, restURL string) (*Client, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return newClient(oauth2.NewClient(ctx, ts), graphqlURL, restURL)
}

func newClient(httpClient *http.Client, graphqlURL, restURL string) (*Client, error) {
	state := &RateLimitState{}
	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	httpClient.Transport = &rateLimitTransport{base: base, state: state}

	c := &Client{state: state}

	if graphqlURL == "" {
		c.gql = githubv4.NewClient(httpClient)
	} else {
		c.gql = githubv4.NewEnterpriseClient(graphqlURL, httpClient)
	}

	rest := gh.NewClient(httpClient)
	if restURL != "" {
		if !strings.HasSuffix(restURL, "/") {
			restURL += "/"
		}
		var err error
		rest, err = rest.WithEnterpriseURLs(restURL, restURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REST endpoint %s: %w", restURL, err)
		}
	}
	c.rest = rest

	return c, nil
}

// LastRateLimit returns the most recent rate limit headers observed on any
// request made by this client.
func (c *Client) LastRateLimit() (remaining, limit int, resetAt time.Time) {
	return c.state.Status()
}

// RESTRate is the quota of one REST rate limit resource.
type RESTRate struct {
	Resource  string
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RESTRateLimits fetches the REST view of the core, search and graphql quotas.
// The endpoint itself does not count against any quota.
func (c *Client) RESTRateLimits(ctx context.Context) ([]RESTRate, error) {
	limits, _, err := c.rest.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limits: %w", err)
	}

	var rates []RESTRate
	add := func(name string, r *gh.Rate) {
		if r == nil {
			return
		}
		rates = append(rates, RESTRate{
			Resource:  name,
			Limit:     r.Limit,
			Remaining: r.Remaining,
			ResetAt:   r.Reset.Time,
		})
	}
	add("core", limits.Core)
	add("search", limits.Search)
	add("graphql", limits.GraphQL)

	return rates, nil
}
