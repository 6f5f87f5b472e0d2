// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/proposal-analyzer/internal/httputil"
	"github.com/pdiddy/proposal-analyzer/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = 1 * time.Millisecond
}

const (
	doc1 = "# Add SE-0001\n\n* Proposal: [SE-0001](0001-a.md)\n* Status: **Accepted**\n"
	doc2 = "# Add SE-0002\n\n* Proposal: [SE-0002](0002-b.md)\n* Status: **Rejected**\n"
)

// githubStub serves a contents listing for apple/swift-evolution/proposals
// and the raw files it names.
type githubStub struct {
	*httptest.Server
	authHeader atomic.Value
	listCalls  int32
	rawCalls   int32
}

func newGitHubStub(t *testing.T, files map[string]string, extra ...Entry) *githubStub {
	t.Helper()
	stub := &githubStub{}
	mux := http.NewServeMux()

	mux.HandleFunc("/repos/apple/swift-evolution/contents/proposals", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&stub.listCalls, 1)
		stub.authHeader.Store(r.Header.Get("Authorization"))
		if r.URL.Query().Get("ref") != "main" {
			http.Error(w, `{"message":"No commit found for the ref"}`, http.StatusNotFound)
			return
		}
		var entries []Entry
		for _, name := range []string{"0001-a.md", "0002-b.md"} {
			content, ok := files[name]
			if !ok {
				continue
			}
			entries = append(entries, Entry{
				Name:        name,
				Path:        "proposals/" + name,
				Type:        "file",
				Size:        int64(len(content)),
				DownloadURL: stub.URL + "/raw/" + name,
			})
		}
		entries = append(entries, extra...)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entries)
	})

	mux.HandleFunc("/raw/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&stub.rawCalls, 1)
		content, ok := files[filepath.Base(r.URL.Path)]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(content))
	})

	stub.Server = httptest.NewServer(mux)
	t.Cleanup(stub.Close)
	return stub
}

func testConfig(stub *githubStub, dir string) types.FetchConfig {
	return types.FetchConfig{
		APIBase:      stub.URL,
		ProposalsDir: dir,
		MaxRetries:   2,
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := WithDefaults(types.FetchConfig{})

	assert.Equal(t, DefaultAPIBase, cfg.APIBase)
	assert.Equal(t, DefaultRepo, cfg.Repo)
	assert.Equal(t, DefaultPath, cfg.Path)
	assert.Equal(t, DefaultRef, cfg.Ref)
	assert.Equal(t, []string{"*.md"}, cfg.Include)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)

	kept := WithDefaults(types.FetchConfig{Repo: "me/fork", Ref: "v1"})
	assert.Equal(t, "me/fork", kept.Repo)
	assert.Equal(t, "v1", kept.Ref)
}

func TestList_FiltersEntries(t *testing.T) {
	stub := newGitHubStub(t,
		map[string]string{"0001-a.md": doc1, "0002-b.md": doc2},
		Entry{Name: "README.txt", Type: "file", DownloadURL: "http://unused/README.txt"},
		Entry{Name: "drafts.md", Type: "dir"},
	)

	entries, err := List(context.Background(), stub.Client(), testConfig(stub, t.TempDir()))
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "0001-a.md", entries[0].Name)
	assert.Equal(t, "0002-b.md", entries[1].Name)
	assert.Equal(t, int64(len(doc1)), entries[0].Size)
}

func TestList_HTTPError(t *testing.T) {
	stub := newGitHubStub(t, map[string]string{})
	cfg := testConfig(stub, t.TempDir())
	cfg.Ref = "no-such-branch"

	_, err := List(context.Background(), stub.Client(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
	assert.Contains(t, err.Error(), "No commit found")
}

func TestList_SendsTokenToAPIHost(t *testing.T) {
	stub := newGitHubStub(t, map[string]string{"0001-a.md": doc1})
	cfg := testConfig(stub, t.TempDir())
	cfg.Token = "ghp_test"

	_, err := List(context.Background(), stub.Client(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "Bearer ghp_test", stub.authHeader.Load())
}

func TestFetch_DownloadsAndSkips(t *testing.T) {
	stub := newGitHubStub(t, map[string]string{"0001-a.md": doc1, "0002-b.md": doc2})
	dir := t.TempDir()
	cfg := testConfig(stub, dir)

	var out bytes.Buffer
	summary, err := Fetch(context.Background(), stub.Client(), cfg, &out)
	require.NoError(t, err)

	assert.Equal(t, Summary{Downloaded: 2}, summary)
	got, err := os.ReadFile(filepath.Join(dir, "0002-b.md"))
	require.NoError(t, err)
	assert.Equal(t, doc2, string(got))
	assert.Contains(t, out.String(), "fetched 0001-a.md")

	out.Reset()
	summary, err = Fetch(context.Background(), stub.Client(), cfg, &out)
	require.NoError(t, err)

	assert.Equal(t, Summary{Skipped: 2}, summary)
	assert.Equal(t, int32(2), atomic.LoadInt32(&stub.rawCalls))
	assert.Contains(t, out.String(), "fetched: 0, skipped: 2, failed: 0 (total: 2)")
}

func TestFetch_ReplacesFileOfDifferentSize(t *testing.T) {
	stub := newGitHubStub(t, map[string]string{"0001-a.md": doc1})
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0001-a.md"), []byte("stale"), 0o644))

	summary, err := Fetch(context.Background(), stub.Client(), testConfig(stub, dir), &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Downloaded)
	got, err := os.ReadFile(filepath.Join(dir, "0001-a.md"))
	require.NoError(t, err)
	assert.Equal(t, doc1, string(got))
}

func TestFetch_ContinuesAfterFailure(t *testing.T) {
	stub := newGitHubStub(t,
		map[string]string{"0001-a.md": doc1},
		Entry{Name: "0003-gone.md", Type: "file", Size: 10},
	)

	dir := t.TempDir()
	var out bytes.Buffer
	summary, err := Fetch(context.Background(), stub.Client(), testConfig(stub, dir), &out)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Downloaded)
	assert.Equal(t, 1, summary.Failed)
	assert.True(t, summary.HasFailures())
	assert.Contains(t, out.String(), "failed  0003-gone.md: 0003-gone.md has no download URL")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
}

func TestDownload_NotFound(t *testing.T) {
	stub := newGitHubStub(t, map[string]string{})
	e := Entry{Name: "0009-x.md", Type: "file", Size: 3, DownloadURL: stub.URL + "/raw/0009-x.md"}

	_, err := Download(context.Background(), stub.Client(), testConfig(stub, t.TempDir()), e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestDownload_RejectsUnsafeNames(t *testing.T) {
	for _, name := range []string{"", "..", "../escape.md", "sub/dir.md"} {
		_, err := Download(context.Background(), http.DefaultClient,
			types.FetchConfig{ProposalsDir: t.TempDir()},
			Entry{Name: name, DownloadURL: "http://127.0.0.1:1/x"})
		assert.Error(t, err, name)
	}
}

func TestSameHost(t *testing.T) {
	assert.True(t, sameHost("https://api.github.com/repos/x", "https://API.github.com"))
	assert.False(t, sameHost("https://raw.githubusercontent.com/x", "https://api.github.com"))
	assert.False(t, sameHost("::bad", "https://api.github.com"))
}
