// internal/showdata/client.go
package showdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Annany2002/nebula-canvas/internal/logger"
)

var customLog = logger.NewLogger()

// ErrUpstream is returned when the show catalogue cannot be fetched or read.
var ErrUpstream = errors.New("show catalogue unavailable")

// Show is the flattened record the dashboard components render.
type Show struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	Genres    []string `json:"genres"`
	Rating    *float64 `json:"rating"`
	Premiered *string  `json:"premiered"`
	Image     *string  `json:"image"`
}

// wireShow is the subset of the TVMaze show document we read.
type wireShow struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
	Rating struct {
		Average *float64 `json:"average"`
	} `json:"rating"`
	Premiered *string `json:"premiered"`
	Image     *struct {
		Medium *string `json:"medium"`
	} `json:"image"`
}

func (w wireShow) toShow() Show {
	s := Show{
		ID:        w.ID,
		Title:     w.Name,
		Genres:    w.Genres,
		Rating:    w.Rating.Average,
		Premiered: w.Premiered,
	}
	if s.Genres == nil {
		s.Genres = []string{}
	}
	if w.Image != nil {
		s.Image = w.Image.Medium
	}
	return s
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Pages      int
	CacheTTL   time.Duration
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client fetches shows. Concurrent callers share a single in-flight fetch,
// and results are cached for CacheTTL when it is positive.
type Client struct {
	opts  Options
	http  *http.Client
	group singleflight.Group

	mu        sync.Mutex
	cached    []Show
	fetchedAt time.Time
}

// NewClient returns a Client for opts.
func NewClient(opts Options) *Client {
	if opts.Pages < 1 {
		opts.Pages = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{opts: opts, http: hc}
}

// Shows returns every show across the configured pages, in page order.
func (c *Client) Shows(ctx context.Context) ([]Show, error) {
	if shows, ok := c.fromCache(); ok {
		return shows, nil
	}

	ch := c.group.DoChan("shows", func() (any, error) {
		// Detached from the first caller so its cancellation does not fail
		// everyone else waiting on the same fetch.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.Timeout)
		defer cancel()

		shows, err := c.fetchAll(fetchCtx)
		if err != nil {
			return nil, err
		}
		c.store(shows)
		return shows, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return clone(res.Val.([]Show)), nil
	}
}

func (c *Client) fetchAll(ctx context.Context) ([]Show, error) {
	pages := make([][]Show, c.opts.Pages)
	g, gctx := errgroup.WithContext(ctx)
	for i := range pages {
		page := i + 1
		g.Go(func() error {
			shows, err := c.fetchPage(gctx, page)
			if err != nil {
				return err
			}
			pages[page-1] = shows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Show
	for _, p := range pages {
		out = append(out, p...)
	}
	if out == nil {
		out = []Show{}
	}
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]Show, error) {
	pageURL, err := c.pageURL(page)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		customLog.Warnf("ShowData: GET %s failed: %v", pageURL, err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		customLog.Warnf("ShowData: GET %s returned %d", pageURL, resp.StatusCode)
		return nil, fmt.Errorf("%w: page %d returned status %d", ErrUpstream, page, resp.StatusCode)
	}

	var wire []wireShow
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: decode page %d: %v", ErrUpstream, page, err)
	}
	shows := make([]Show, len(wire))
	for i, w := range wire {
		shows[i] = w.toShow()
	}
	customLog.Debugf("ShowData: fetched %d shows from page %d", len(shows), page)
	return shows, nil
}

func (c *Client) pageURL(page int) (string, error) {
	u, err := url.Parse(c.opts.BaseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) fromCache() ([]Show, bool) {
	if c.opts.CacheTTL <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cached == nil || time.Since(c.fetchedAt) > c.opts.CacheTTL {
		return nil, false
	}
	return clone(c.cached), true
}

func (c *Client) store(shows []Show) {
	if c.opts.CacheTTL <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = shows
	c.fetchedAt = time.Now()
}

// clone copies the slice so callers may sort it without racing each other.
func clone(shows []Show) []Show {
	out := make([]Show, len(shows))
	copy(out, shows)
	return out
}
