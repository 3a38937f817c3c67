// Package portal is the HTTP client for the external property-portal data
// service the monitors scan: listings, land-registry extracts, planning
// applications. The portal throttles aggressive clients, so every request
// goes through a shared token bucket, and the session is established once
// across concurrent callers.
package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"brokerage_backend/platform/config"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Client talks to the portal data service. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	navTimeout time.Duration

	sessionGroup singleflight.Group
	mu           sync.Mutex
	sessionToken string
}

// NewClient builds a portal client from config. The limiter is sized from
// the configured requests-per-minute with a burst of one: scans are
// background work and should never spike the portal.
func NewClient(cfg config.PortalConfig) *Client {
	perMinute := cfg.GetPortalRequestsPerMinute()
	if perMinute <= 0 {
		perMinute = 30
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.GetPortalNavigationTimeout()},
		baseURL:    cfg.GetPortalBaseURL(),
		limiter:    rate.NewLimiter(rate.Limit(float64(perMinute)/60), 1),
		navTimeout: cfg.GetPortalNavigationTimeout(),
	}
}

// session returns the cached session token, establishing it on first use.
// Concurrent first callers collapse onto a single handshake.
func (c *Client) session(ctx context.Context) (string, error) {
	c.mu.Lock()
	token := c.sessionToken
	c.mu.Unlock()
	if token != "" {
		return token, nil
	}

	v, err, _ := c.sessionGroup.Do("session", func() (any, error) {
		var payload struct {
			Token string `json:"token"`
		}
		if err := c.doGet(ctx, "/api/session", nil, "", &payload); err != nil {
			return "", err
		}
		if payload.Token == "" {
			return "", fmt.Errorf("portal session handshake returned no token")
		}
		c.mu.Lock()
		c.sessionToken = payload.Token
		c.mu.Unlock()
		return payload.Token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// resetSession drops the cached token so the next call re-handshakes.
func (c *Client) resetSession() {
	c.mu.Lock()
	c.sessionToken = ""
	c.mu.Unlock()
}

// GetJSON performs a paced, authenticated GET against the portal and
// decodes the JSON response into out. A stale session is refreshed once.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	token, err := c.session(ctx)
	if err != nil {
		return fmt.Errorf("portal session: %w", err)
	}

	err = c.doGet(ctx, path, query, token, out)
	if isUnauthorized(err) {
		c.resetSession()
		token, serr := c.session(ctx)
		if serr != nil {
			return fmt.Errorf("portal session refresh: %w", serr)
		}
		err = c.doGet(ctx, path, query, token, out)
	}
	return err
}

func (c *Client) doGet(ctx context.Context, path string, query url.Values, token string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.navTimeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		return errUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("portal %s returned %d: %s", path, resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

var errUnauthorized = fmt.Errorf("portal session expired")

func isUnauthorized(err error) bool { return err == errUnauthorized }
