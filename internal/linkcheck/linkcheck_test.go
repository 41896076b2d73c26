package linkcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStatusesInOrder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	var observed int32
	c := New(100, WithObserver(func(int) { atomic.AddInt32(&observed, 1) }))
	results, err := c.Check(context.Background(), []string{ts.URL + "/ok", ts.URL + "/gone", ts.URL + "/ok"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, ts.URL+"/ok", results[0].URL)
	assert.True(t, results[0].OK())
	assert.Equal(t, http.StatusNotFound, results[1].Status)
	assert.False(t, results[1].OK())
	assert.True(t, results[2].OK())
	assert.Equal(t, int32(3), atomic.LoadInt32(&observed))
}

func TestCheckFallsBackToGet(t *testing.T) {
	var gets int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		atomic.AddInt32(&gets, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	results, err := New(100).Check(context.Background(), []string{ts.URL})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, results[0].Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&gets))
}

func TestCheckConnectionError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	results, err := New(100).Check(context.Background(), []string{url})
	require.NoError(t, err)
	assert.Error(t, results[0].Err)
	assert.Zero(t, results[0].Status)
	assert.False(t, results[0].OK())
}

func TestCheckBoundsConcurrency(t *testing.T) {
	var inflight, peak int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&inflight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inflight, -1)
	}))
	defer ts.Close()

	urls := make([]string, 8)
	for i := range urls {
		urls[i] = ts.URL
	}
	_, err := New(1000, WithWorkers(2)).Check(context.Background(), urls)
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestCheckCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(1).Check(ctx, []string{ts.URL, ts.URL})
	assert.ErrorIs(t, err, context.Canceled)
}
