// Package wiki fetches "on this day" historical events from the Wikimedia
// feed API (https://api.wikimedia.org).
package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public Wikimedia API gateway.
	DefaultBaseURL = "https://api.wikimedia.org"

	// DefaultLanguage selects the English-language feed.
	DefaultLanguage = "en"

	// DefaultUserAgent identifies this client to Wikimedia, which requires
	// a descriptive User-Agent on API traffic.
	DefaultUserAgent = "calendar-agent/0.1 (https://github.com/daymark/calendar-agent)"

	defaultTimeout = 10 * time.Second
)

// Feed failures carry a sentinel so callers can classify them the same way
// they classify holiday provider failures.
var (
	ErrInvalidCategory = errors.New("invalid event category")
	ErrFeedFailure     = errors.New("event feed failed")
)

// categories are the feed types Wikimedia serves.
var categories = map[string]bool{
	"all":      true,
	"selected": true,
	"events":   true,
	"births":   true,
	"deaths":   true,
	"holidays": true,
}

// ValidCategory reports whether the feed serves the given category.
func ValidCategory(category string) bool {
	return categories[category]
}

// FeedError describes a failed feed fetch. Status is zero when the request
// never produced an HTTP response.
type FeedError struct {
	Status int
	Cause  error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("on-this-day feed failed (status %d): %v", e.Status, e.Cause)
}

func (e *FeedError) Unwrap() error { return ErrFeedFailure }

// Event is one historical entry for a calendar day. Year is zero for
// entries the feed serves without one, such as recurring holidays.
type Event struct {
	Year  int
	Text  string
	Pages []string
}

// Client fetches on-this-day events. One request per lookup, no caching.
type Client struct {
	baseURL    string
	language   string
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a feed client. Empty baseURL, language or userAgent and
// a non-positive timeout select the defaults.
func NewClient(baseURL, language, userAgent string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if language == "" {
		language = DefaultLanguage
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   language,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// feedResponse mirrors the feed payload. A single-category request fills
// only its own key, so merging every key works for all categories.
type feedResponse struct {
	Selected []feedEvent `json:"selected"`
	Events   []feedEvent `json:"events"`
	Births   []feedEvent `json:"births"`
	Deaths   []feedEvent `json:"deaths"`
	Holidays []feedEvent `json:"holidays"`
}

type feedEvent struct {
	Year  int        `json:"year"`
	Text  string     `json:"text"`
	Pages []feedPage `json:"pages"`
}

type feedPage struct {
	Title           string `json:"title"`
	NormalizedTitle string `json:"normalizedtitle"`
}

// OnThisDay returns the feed's entries for a month and day. The category is
// validated before any request goes out.
func (c *Client) OnThisDay(ctx context.Context, category string, month time.Month, day int) ([]Event, error) {
	if !ValidCategory(category) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}

	url := fmt.Sprintf("%s/feed/v1/wikipedia/%s/onthisday/%s/%02d/%02d",
		c.baseURL, c.language, category, int(month), day)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FeedError{Cause: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("fetching on-this-day events",
		zap.String("category", category),
		zap.Int("month", int(month)),
		zap.Int("day", day))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FeedError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FeedError{Status: resp.StatusCode,
			Cause: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FeedError{Status: resp.StatusCode,
			Cause: fmt.Errorf("read response: %w", err)}
	}

	var feed feedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, &FeedError{Status: resp.StatusCode,
			Cause: fmt.Errorf("decode response: %w", err)}
	}

	var events []Event
	for _, section := range [][]feedEvent{feed.Selected, feed.Events, feed.Births, feed.Deaths, feed.Holidays} {
		for _, fe := range section {
			events = append(events, toEvent(fe))
		}
	}

	c.logger.Debug("fetched on-this-day events",
		zap.String("category", category),
		zap.Int("count", len(events)))

	return events, nil
}

func toEvent(fe feedEvent) Event {
	pages := make([]string, 0, len(fe.Pages))
	for _, p := range fe.Pages {
		title := p.NormalizedTitle
		if title == "" {
			title = p.Title
		}
		if title != "" {
			pages = append(pages, title)
		}
	}
	return Event{Year: fe.Year, Text: fe.Text, Pages: pages}
}
