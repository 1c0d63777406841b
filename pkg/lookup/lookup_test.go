package lookup_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-fieldbuilder/pkg/lookup"
)

func TestClient_FetchDecodesChoices(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "7", r.URL.Query().Get(lookup.ParamParent))
		assert.Equal(t, "3", r.URL.Query().Get(lookup.ParamSource))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 11, "text": "First"}, {"id": "12", "text": "Second"}, {"id": null, "text": "skip"}]`))
	}))
	defer srv.Close()

	client, err := lookup.NewClient(srv.URL + "/api/admin/get-child-submissions/")
	require.NoError(t, err)

	got, err := client.Fetch(context.Background(), lookup.Query{ParentID: "7", SourceID: "3"})
	require.NoError(t, err)
	assert.Equal(t, []lookup.Choice{{ID: "11", Text: "First"}, {ID: "12", Text: "Second"}}, got)

	_, err = client.Fetch(context.Background(), lookup.Query{ParentID: "7", SourceID: "3"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits), "second fetch should be served from cache")
}

func TestClient_FetchWithoutCache(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client, err := lookup.NewClient(srv.URL, lookup.WithCacheSize(0))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		got, err := client.Fetch(context.Background(), lookup.Query{SourceID: "1"})
		require.NoError(t, err)
		assert.Empty(t, got)
	}
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestClient_FetchRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "Missing parameters"}`))
	}))
	defer srv.Close()

	client, err := lookup.NewClient(srv.URL)
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), lookup.Query{SourceID: "1"})
	var remote *lookup.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, http.StatusBadRequest, remote.Status)
	assert.Equal(t, "Missing parameters", remote.Message)
}

func TestNewClient_RequiresEndpoint(t *testing.T) {
	_, err := lookup.NewClient("  ")
	require.Error(t, err)
}

type stubFetcher struct {
	choices []lookup.Choice
	err     error
	calls   []lookup.Query
}

func (s *stubFetcher) Fetch(_ context.Context, q lookup.Query) ([]lookup.Choice, error) {
	s.calls = append(s.calls, q)
	return s.choices, s.err
}

func TestUpdater_PopulatesAfterReset(t *testing.T) {
	fetcher := &stubFetcher{choices: []lookup.Choice{{ID: "1", Text: "One"}}}
	target := &lookup.Choices{Items: []lookup.Choice{{ID: "old", Text: "Stale"}}}

	n := lookup.NewUpdater(fetcher).Update(context.Background(), "5", " 9 ", target)

	assert.Equal(t, 1, n)
	assert.Equal(t, []lookup.Choice{{ID: "", Text: lookup.EmptyLabel}, {ID: "1", Text: "One"}}, target.Items)
	assert.Equal(t, []lookup.Query{{ParentID: "9", SourceID: "5"}}, fetcher.calls)
}

func TestUpdater_EmptySourceOnlyResets(t *testing.T) {
	fetcher := &stubFetcher{}
	target := &lookup.Choices{Items: []lookup.Choice{{ID: "old", Text: "Stale"}}}

	lookup.NewUpdater(fetcher).Update(context.Background(), "", "9", target)

	assert.Equal(t, []lookup.Choice{{ID: "", Text: lookup.EmptyLabel}}, target.Items)
	assert.Empty(t, fetcher.calls)
}

func TestUpdater_SwallowsAndLogsErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	fetcher := &stubFetcher{err: errors.New("boom")}
	target := &lookup.Choices{}

	n := lookup.NewUpdater(fetcher, lookup.WithLogger(logger)).Update(context.Background(), "5", "9", target)

	assert.Zero(t, n)
	assert.Equal(t, []lookup.Choice{{ID: "", Text: lookup.EmptyLabel}}, target.Items)
	assert.Contains(t, buf.String(), "lookup: fetch failed")
	assert.Contains(t, buf.String(), "boom")
}
