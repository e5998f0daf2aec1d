package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGeocoder(apiKey, endpoint string) *Geocoder {
	g := NewGeocoder(apiKey)
	g.endpoint = endpoint
	return g
}

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Lincoln Park, Chicago", r.URL.Query().Get("address"))
		assert.Equal(t, "maps-key", r.URL.Query().Get("key"))
		fmt.Fprint(w, `{"results":[
			{"geometry":{"location":{"lat":41.9214,"lng":-87.6513}}},
			{"geometry":{"location":{"lat":41.92,"lng":-87.65}}}
		]}`)
	}))
	defer srv.Close()

	points := testGeocoder("maps-key", srv.URL).Lookup(context.Background(), "Lincoln Park, Chicago")
	require.Len(t, points, 2)
	assert.Equal(t, Point{Lat: 41.9214, Lng: -87.6513}, points[0])
}

func TestLookupNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[],"status":"ZERO_RESULTS"}`)
	}))
	defer srv.Close()

	assert.Empty(t, testGeocoder("maps-key", srv.URL).Lookup(context.Background(), "nowhere"))
}

func TestLookupDegradesSilently(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		assert.Nil(t, NewGeocoder("").Lookup(context.Background(), "Chicago"))
	})
	t.Run("empty address", func(t *testing.T) {
		assert.Nil(t, NewGeocoder("maps-key").Lookup(context.Background(), ""))
	})
	t.Run("unreachable endpoint", func(t *testing.T) {
		assert.Nil(t, testGeocoder("maps-key", "http://127.0.0.1:1").Lookup(context.Background(), "Chicago"))
	})
	t.Run("garbage body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html>not json</html>")
		}))
		defer srv.Close()
		assert.Nil(t, testGeocoder("maps-key", srv.URL).Lookup(context.Background(), "Chicago"))
	})
}
