package catalog_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sarpt/hifi-web-api/pkg/catalog"
)

func newClient(t *testing.T, address string) *catalog.Client {
	t.Helper()

	client, err := catalog.NewClient(catalog.Config{
		Address:   address,
		AppID:     "app-id",
		UserToken: "user-token",
		ErrWriter: io.Discard,
		OutWriter: io.Discard,
	})
	if err != nil {
		t.Fatalf("could not create catalog client: %s", err)
	}

	return client
}

func TestAlbumMapsServiceResponseToModel(t *testing.T) {
	// given
	var gotAppID, gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		gotAppID = req.Header.Get("X-App-Id")
		gotToken = req.Header.Get("X-User-Auth-Token")

		if req.URL.Path != "/albums/alb-1" {
			t.Errorf("unexpected request path %q", req.URL.Path)
		}

		res.Header().Set("Content-Type", "application/json")
		io.WriteString(res, `{
			"id": "alb-1",
			"title": "Coasts",
			"artist": {"id": 7, "name": "Delta Waves"},
			"image": {"large": "https://img/alb-1.jpg"},
			"release_date_original": "2019-03-08",
			"tracks_count": 2,
			"duration": 512,
			"parental_warning": false,
			"hires_streamable": true,
			"tracks": {"items": [
				{"id": 501, "title": "Ebb", "track_number": 1, "duration": 250, "hires_streamable": true},
				{"id": 502, "title": "Flow", "track_number": 2, "duration": 262, "hires_streamable": true}
			]}
		}`)
	}))
	defer server.Close()

	client := newClient(t, server.URL)

	// when
	album, err := client.Album(context.Background(), "alb-1")

	// then
	if err != nil {
		t.Fatalf("album fetch returned error: %s", err)
	}

	if gotAppID != "app-id" || gotToken != "user-token" {
		t.Errorf("credentials not sent, got app id %q and token %q", gotAppID, gotToken)
	}

	if album.Title != "Coasts" || album.ReleaseYear != 2019 || !album.HiRes {
		t.Errorf("album fields mapped incorrectly: %+v", album)
	}

	if len(album.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(album.Tracks))
	}

	first := album.Tracks[0]
	if first.Number != 1 || first.AlbumID != "alb-1" || first.Artist.Name != "Delta Waves" {
		t.Errorf("track did not inherit album context: %+v", first)
	}
}

func TestServerErrorsWrapCatalogUnavailable(t *testing.T) {
	// given
	server := httptest.NewServer(http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		res.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newClient(t, server.URL)

	// when
	_, err := client.Search(context.Background(), "coasts")

	// then
	if !errors.Is(err, catalog.ErrCatalogUnavailable) {
		t.Errorf("expected catalog unavailable error, got %v", err)
	}
}

func TestUnreachableServiceWrapsCatalogUnavailable(t *testing.T) {
	// given
	client := newClient(t, "http://127.0.0.1:1")

	// when
	_, err := client.UserPlaylists(context.Background())

	// then
	if !errors.Is(err, catalog.ErrCatalogUnavailable) {
		t.Errorf("expected catalog unavailable error, got %v", err)
	}
}

func TestSetCredentialsAppliesToSubsequentRequests(t *testing.T) {
	// given
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		gotToken = req.Header.Get("X-User-Auth-Token")

		res.Header().Set("Content-Type", "application/json")
		io.WriteString(res, `{"id": 9, "name": "Delta Waves"}`)
	}))
	defer server.Close()

	client := newClient(t, server.URL)

	// when
	client.SetCredentials("app-id", "rotated-token")
	_, err := client.Artist(context.Background(), 9)

	// then
	if err != nil {
		t.Fatalf("artist fetch returned error: %s", err)
	}

	if gotToken != "rotated-token" {
		t.Errorf("expected rotated token to be sent, got %q", gotToken)
	}
}

func TestTrackURLRejectsEmptyPayload(t *testing.T) {
	// given
	server := httptest.NewServer(http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		res.Header().Set("Content-Type", "application/json")
		io.WriteString(res, `{"url": ""}`)
	}))
	defer server.Close()

	client := newClient(t, server.URL)

	// when
	_, err := client.TrackURL(context.Background(), 501)

	// then
	if !errors.Is(err, catalog.ErrCatalogUnavailable) {
		t.Errorf("expected catalog unavailable error for empty url, got %v", err)
	}
}
