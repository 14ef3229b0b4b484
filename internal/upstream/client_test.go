package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/itinerary/internal/domain"
)

func TestFetchActivitiesSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/activities", r.URL.Path)
		require.Equal(t, "user 1", r.URL.Query().Get("userId"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"id":"a1","name":"Trek","description":"Hill walk","duration":120,"latitude":27.03,"longitude":88.26},
			{"id":"a2","name":"Tea Garden","description":"Estate tour","duration":90,"latitude":27.05,"longitude":88.27}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", time.Second)
	activities, err := client.FetchActivities(context.Background(), "user 1")
	require.NoError(t, err)
	require.Equal(t, []domain.Activity{
		{ID: "a1", Name: "Trek", Description: "Hill walk", DurationMin: 120, Latitude: 27.03, Longitude: 88.26},
		{ID: "a2", Name: "Tea Garden", Description: "Estate tour", DurationMin: 90, Latitude: 27.05, Longitude: 88.27},
	}, activities)
}

func TestFetchActivitiesEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).FetchActivities(context.Background(), "u1")
	require.ErrorIs(t, err, domain.ErrNoActivitiesSelected)
}

func TestFetchActivitiesNonOKIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).FetchActivities(context.Background(), "u1")
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	require.Contains(t, err.Error(), "status 503")
	require.Equal(t, int32(1), calls.Load())
}

func TestFetchActivitiesBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).FetchActivities(context.Background(), "u1")
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestFetchActivitiesUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).FetchActivities(context.Background(), "u1")
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestFetchActivitiesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient("http://127.0.0.1:1", time.Second).FetchActivities(ctx, "u1")
	require.ErrorIs(t, err, context.Canceled)
}

func TestFetchActivitiesNumericIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":42,"name":"Trek","description":"Hill walk","duration":120,"latitude":27.03,"longitude":88.26}]}`))
	}))
	defer srv.Close()

	activities, err := NewClient(srv.URL, time.Second).FetchActivities(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, []domain.Activity{
		{ID: "42", Name: "Trek", Description: "Hill walk", DurationMin: 120, Latitude: 27.03, Longitude: 88.26},
	}, activities)
}
