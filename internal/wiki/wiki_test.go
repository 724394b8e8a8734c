package wiki

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient(srv.Client())
	c.baseURL = srv.URL
	return c, srv
}

func TestSummary(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/page/summary/Alan_Turing", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"Alan Turing","extract":"Alan Turing was an English mathematician. He is widely considered to be the father of computer science. He also ran marathons."}`))
	})
	defer srv.Close()

	got, err := c.Summary(context.Background(), "Alan Turing")
	require.NoError(t, err)
	assert.Equal(t,
		"Alan Turing was an English mathematician. He is widely considered to be the father of computer science.",
		got)
}

func TestSummaryNotFound(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer srv.Close()

	_, err := c.Summary(context.Background(), "Nonexistent Topic")
	assert.Error(t, err)
}

func TestSummaryMissingExtract(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title":"Stub"}`))
	})
	defer srv.Close()

	_, err := c.Summary(context.Background(), "Stub")
	assert.Error(t, err)
}

func TestSummaryEmptyTopic(t *testing.T) {
	c := NewClient(nil)
	_, err := c.Summary(context.Background(), "   ")
	assert.Error(t, err)
}

func TestFirstSentences(t *testing.T) {
	assert.Equal(t, "One. Two.", firstSentences("One. Two. Three.", 2))
	assert.Equal(t, "Only one.", firstSentences("Only one.", 2))
	assert.Equal(t, "Pi is 3.14 roughly. Next.", firstSentences("Pi is 3.14 roughly. Next. More.", 2))
	assert.Equal(t, "no terminator at all", firstSentences("no terminator at all", 2))
}
