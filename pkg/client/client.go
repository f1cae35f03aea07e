// Package client is a thin API client for the dataroom server, used by the
// CLI and usable by other Go programs.
package client

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

type Option func(*Client)

// WithAuthToken sets the session token used for authenticated endpoints.
func WithAuthToken(token string) Option {
	return func(c *Client) {
		c.authToken = token
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// urlBuilder assembles request URLs from route constants, which may contain
// {name} path parameters.
type urlBuilder struct {
	base   string
	path   string
	params url.Values
}

func (c *Client) url() *urlBuilder {
	return &urlBuilder{
		base:   c.baseURL,
		params: url.Values{},
	}
}

func (b *urlBuilder) setPath(path string) *urlBuilder {
	b.path = path
	return b
}

func (b *urlBuilder) setPathParam(name string, value any) *urlBuilder {
	b.path = strings.ReplaceAll(b.path,
		"{"+name+"}", url.PathEscape(fmt.Sprintf("%v", value)))
	return b
}

func (b *urlBuilder) addQueryParam(name string, value any) *urlBuilder {
	b.params.Add(name, fmt.Sprintf("%v", value))
	return b
}

func (b *urlBuilder) build() string {
	u := b.base + b.path
	if len(b.params) > 0 {
		u += "?" + b.params.Encode()
	}
	return u
}
