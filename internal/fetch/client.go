// Package fetch scrapes the agency's index and detail pages for period
// and download links, and downloads archives.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"
)

// ErrNoDownloadLink means a detail page carried no archive or direct
// data-file link.
var ErrNoDownloadLink = errors.New("no download link found on page")

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultTimeout bounds each page or file request.
const DefaultTimeout = 60 * time.Second

var (
	periodLink = regexp.MustCompile(`ma-enrollment-scc-(\d{4}-\d{2})$`)
	archiveExt = regexp.MustCompile(`(?i)\.zip$`)
	directExt  = regexp.MustCompile(`(?i)\.(csv|txt|xlsx?)$`)
)

// Client fetches agency pages with retries. All calls block; the
// pipeline issues them sequentially.
type Client struct {
	http *retryablehttp.Client
	base string
}

// NewClient builds a Client. base resolves relative hrefs.
func NewClient(base string, timeout time.Duration) *Client {
	rc := retryablehttp.NewClient()
	rc.Logger = log.New(io.Discard, "", 0)
	rc.RetryMax = 3
	rc.HTTPClient.Timeout = timeout
	return &Client{http: rc, base: strings.TrimSuffix(base, "/")}
}

// PeriodIndex scans the listing page's hyperlinks and returns
// period → detail-page URL for every link matching the fixed
// "ma-enrollment-scc-YYYY-MM" suffix.
func (c *Client) PeriodIndex(ctx context.Context, indexURL string) (map[string]string, error) {
	doc, err := c.document(ctx, indexURL)
	if err != nil {
		return nil, err
	}
	links := make(map[string]string)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if m := periodLink.FindStringSubmatch(href); m != nil {
			links[m[1]] = c.absolute(href)
		}
	})
	return links, nil
}

// DownloadURL returns the first archive link on a detail page, falling
// back to a direct csv/txt/xlsx link when no archive is present.
func (c *Client) DownloadURL(ctx context.Context, pageURL string) (string, error) {
	doc, err := c.document(ctx, pageURL)
	if err != nil {
		return "", err
	}

	if href := firstHref(doc, archiveExt); href != "" {
		return c.absolute(href), nil
	}
	if href := firstHref(doc, directExt); href != "" {
		return c.absolute(href), nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoDownloadLink, pageURL)
}

// Download fetches the file at url.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", url, err)
	}
	return data, nil
}

func (c *Client) document(ctx context.Context, url string) (*goquery.Document, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", url, err)
	}
	return doc, nil
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return resp, nil
}

func (c *Client) absolute(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return c.base + href
}

func firstHref(doc *goquery.Document, pattern *regexp.Regexp) string {
	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if pattern.MatchString(href) {
			found = href
			return false
		}
		return true
	})
	return found
}
