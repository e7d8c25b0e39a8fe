// Package github lists the repositories owned by the authenticated user.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gogithub "github.com/google/go-github/v74/github"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/arthur-debert/hostprep/pkg/errors"
	"github.com/arthur-debert/hostprep/pkg/logging"
)

// DefaultAPIURL is the public GitHub REST endpoint
const DefaultAPIURL = "https://api.github.com/"

// PerPage is the page size requested from the API
const PerPage = 100

// Repository is the part of a repository record hostprep needs
type Repository struct {
	FullName string `json:"full_name" yaml:"full_name"`
	CloneURL string `json:"clone_url" yaml:"clone_url"`
}

// Lister lists repositories for the token it was built with
type Lister interface {
	ListOwnedRepositories(ctx context.Context) ([]Repository, error)
}

// APIError reports a non-2xx response
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Client wraps go-github with bearer authentication
type Client struct {
	gh     *gogithub.Client
	logger zerolog.Logger
}

// Option configures a Client
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	logger     zerolog.Logger
}

// WithHTTPClient sets the transport used underneath the oauth2 layer
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithLogger sets the logger used for page tracing
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) { o.logger = logger }
}

// NewClient creates a client for apiURL (empty means api.github.com)
// authenticating with token.
func NewClient(token, apiURL string, opts ...Option) (*Client, error) {
	o := clientOptions{logger: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	ctx := context.Background()
	if o.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)
	}
	var tc *http.Client
	if token = strings.TrimSpace(token); token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		tc = oauth2.NewClient(ctx, ts)
	} else {
		tc = o.httpClient
	}

	gh := gogithub.NewClient(tc)
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}
	base, err := url.Parse(apiURL)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid GitHub API URL %q", apiURL)
	}
	gh.BaseURL = base

	return &Client{gh: gh, logger: logging.Component(o.logger, "github")}, nil
}

// ListOwnedRepositories fetches every page of /user/repos owned by the
// token's user, sorted by full name. Pages are requested one at a time until
// an empty page or a body that is not a JSON array.
func (c *Client) ListOwnedRepositories(ctx context.Context) ([]Repository, error) {
	var all []Repository
	opts := &gogithub.RepositoryListByAuthenticatedUserOptions{
		Visibility:  "all",
		Affiliation: "owner",
		Sort:        "full_name",
		ListOptions: gogithub.ListOptions{Page: 1, PerPage: PerPage},
	}

	for {
		repos, resp, err := c.gh.Repositories.ListByAuthenticatedUser(ctx, opts)
		if resp != nil && (resp.StatusCode < 200 || resp.StatusCode > 299) {
			apiErr := &APIError{StatusCode: resp.StatusCode}
			var ghErr *gogithub.ErrorResponse
			if errors.As(err, &ghErr) {
				apiErr.Message = ghErr.Message
			}
			return nil, errors.Wrap(apiErr, errors.ErrGitHubAPI, "failed to list repositories")
		}
		if err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				c.logger.Debug().Int("page", opts.Page).Msg("Response is not a list, stopping")
				break
			}
			return nil, errors.Wrap(err, errors.ErrGitHubAPI, "failed to list repositories")
		}

		c.logger.Debug().Int("page", opts.Page).Int("count", len(repos)).Msg("Fetched repository page")
		if len(repos) == 0 {
			break
		}
		for _, r := range repos {
			all = append(all, Repository{FullName: r.GetFullName(), CloneURL: r.GetCloneURL()})
		}
		opts.Page++
	}

	return all, nil
}

var _ Lister = (*Client)(nil)
