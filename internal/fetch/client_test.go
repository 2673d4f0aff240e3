package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPeriodIndex(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/index": `<html><body>
			<a href="/files/ma-enrollment-scc-2024-01">January</a>
			<a href="/files/ma-enrollment-scc-2024-02">February</a>
			<a href="/files/ma-plan-directory">Directory</a>
			<a href="/about">About</a>
		</body></html>`,
	})
	c := NewClient(srv.URL, 5*time.Second)

	links, err := c.PeriodIndex(context.Background(), srv.URL+"/index")
	if err != nil {
		t.Fatalf("PeriodIndex: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("links = %v", links)
	}
	if links["2024-01"] != srv.URL+"/files/ma-enrollment-scc-2024-01" {
		t.Errorf("2024-01 link = %q", links["2024-01"])
	}
}

func TestDownloadURL_PrefersArchive(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/detail": `<html><body>
			<a href="/dl/notes.csv">notes</a>
			<a href="/dl/scc-2024-01.zip">archive</a>
		</body></html>`,
	})
	c := NewClient(srv.URL, 5*time.Second)

	url, err := c.DownloadURL(context.Background(), srv.URL+"/detail")
	if err != nil {
		t.Fatalf("DownloadURL: %v", err)
	}
	if url != srv.URL+"/dl/scc-2024-01.zip" {
		t.Errorf("url = %q, want the zip over the csv", url)
	}
}

func TestDownloadURL_DirectFileFallback(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/detail": `<a href="/dl/scc-2024-01.csv">data</a>`,
	})
	c := NewClient(srv.URL, 5*time.Second)

	url, err := c.DownloadURL(context.Background(), srv.URL+"/detail")
	if err != nil {
		t.Fatalf("DownloadURL: %v", err)
	}
	if url != srv.URL+"/dl/scc-2024-01.csv" {
		t.Errorf("url = %q", url)
	}
}

func TestDownloadURL_NoLink(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/detail": `<a href="/about">nothing here</a>`,
	})
	c := NewClient(srv.URL, 5*time.Second)

	if _, err := c.DownloadURL(context.Background(), srv.URL+"/detail"); !errors.Is(err, ErrNoDownloadLink) {
		t.Fatalf("err = %v, want ErrNoDownloadLink", err)
	}
}

func TestDownload(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/dl/data.csv": "STATE,COUNTY\nCA,Orange\n",
	})
	c := NewClient(srv.URL, 5*time.Second)

	data, err := c.Download(context.Background(), srv.URL+"/dl/data.csv")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if string(data) != "STATE,COUNTY\nCA,Orange\n" {
		t.Errorf("data = %q", data)
	}
}

func TestDownload_NotFound(t *testing.T) {
	srv := newTestServer(t, nil)
	// The retrying client gives up quickly on 404 (not retryable).
	c := NewClient(srv.URL, 5*time.Second)
	if _, err := c.Download(context.Background(), srv.URL+"/missing"); err == nil {
		t.Fatal("expected error for 404")
	}
}
