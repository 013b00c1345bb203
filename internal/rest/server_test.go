package rest_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/sarpt/hifi-web-api/internal/channels"
	"github.com/sarpt/hifi-web-api/internal/mocks"
	"github.com/sarpt/hifi-web-api/internal/rest"
	"github.com/sarpt/hifi-web-api/pkg/catalog"
	"github.com/sarpt/hifi-web-api/pkg/protocol"
	"github.com/sarpt/hifi-web-api/pkg/state"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/status"
)

type nopTransport struct{}

func (t *nopTransport) WriteEvent([]byte) error { return nil }
func (t *nopTransport) Close() error            { return nil }
func (t *nopTransport) Kind() status.Transport  { return status.TransportSSE }
func (t *nopTransport) RemoteAddr() string      { return "test:0" }

type fixture struct {
	catalog    *mocks.MockAPI
	commands   chan protocol.Command
	manager    *channels.Manager
	repository state.Repository
	server     *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repository := state.NewRepository()
	manager := channels.NewManager(channels.ManagerConfig{
		ErrWriter:  io.Discard,
		OutWriter:  io.Discard,
		Repository: repository,
	})
	t.Cleanup(manager.Close)

	catalogMock := mocks.NewMockAPI(ctrl)
	commands := make(chan protocol.Command, 8)

	restServer := rest.NewServer(rest.Config{
		Catalog: catalogMock,
		Commands: func(channelID string, cmd protocol.Command) {
			commands <- cmd
		},
		ErrWriter:  io.Discard,
		Manager:    manager,
		OutWriter:  io.Discard,
		Repository: repository,
	})

	server := httptest.NewServer(restServer.Handler())
	t.Cleanup(server.Close)

	return &fixture{
		catalog:    catalogMock,
		commands:   commands,
		manager:    manager,
		repository: repository,
		server:     server,
	}
}

func TestGetPlaybackUsesRevisionForConditionalReads(t *testing.T) {
	// given
	f := newFixture(t)
	f.repository.Playback().SetVolume(45)

	// when
	first, err := http.Get(f.server.URL + "/rest/playback")
	if err != nil {
		t.Fatalf("playback request failed: %s", err)
	}
	defer first.Body.Close()

	// then
	if first.StatusCode != http.StatusOK {
		t.Errorf("incorrect status code %d", first.StatusCode)
	}

	revision := first.Header.Get("Etag")
	if revision == "" {
		t.Errorf("playback response misses revision header")
	}

	var snapshot map[string]json.RawMessage
	if err := json.NewDecoder(first.Body).Decode(&snapshot); err != nil {
		t.Fatalf("could not decode playback snapshot: %s", err)
	}

	if string(snapshot["volume"]) != "45" {
		t.Errorf("incorrect volume in snapshot: %s", snapshot["volume"])
	}

	// when
	req, err := http.NewRequest(http.MethodGet, f.server.URL+"/rest/playback", nil)
	if err != nil {
		t.Fatalf("could not construct conditional request: %s", err)
	}

	req.Header.Set("Etag", revision)

	second, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("conditional playback request failed: %s", err)
	}
	defer second.Body.Close()

	// then
	if second.StatusCode != http.StatusNotModified {
		t.Errorf("incorrect status code for unchanged state %d", second.StatusCode)
	}

	// when
	f.repository.Playback().SetVolume(80)

	third, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post-mutation playback request failed: %s", err)
	}
	defer third.Body.Close()

	// then
	if third.StatusCode != http.StatusOK {
		t.Errorf("incorrect status code after state change %d", third.StatusCode)
	}
}

func TestPostCommandRequiresAttachedChannel(t *testing.T) {
	// given
	f := newFixture(t)
	payload := bytes.NewBufferString(`{"play":{}}`)

	// when
	withoutChannel, err := http.Post(f.server.URL+"/rest/command", "application/json", payload)
	if err != nil {
		t.Fatalf("command request failed: %s", err)
	}
	defer withoutChannel.Body.Close()

	// then
	if withoutChannel.StatusCode != http.StatusBadRequest {
		t.Errorf("incorrect status code for missing channel argument %d", withoutChannel.StatusCode)
	}

	// when
	unknownChannel, err := http.Post(f.server.URL+"/rest/command?channel=gone", "application/json", bytes.NewBufferString(`{"play":{}}`))
	if err != nil {
		t.Fatalf("command request failed: %s", err)
	}
	defer unknownChannel.Body.Close()

	// then
	if unknownChannel.StatusCode != http.StatusNotFound {
		t.Errorf("incorrect status code for unknown channel %d", unknownChannel.StatusCode)
	}
}

func TestPostCommandForwardsDecodedCommands(t *testing.T) {
	// given
	f := newFixture(t)
	channel := f.manager.Attach(&nopTransport{})

	// when
	url := fmt.Sprintf("%s/rest/command?channel=%s", f.server.URL, channel.ID())
	res, err := http.Post(url, "application/json", bytes.NewBufferString(`{"setVolume":{"value":70}}`))
	if err != nil {
		t.Fatalf("command request failed: %s", err)
	}
	defer res.Body.Close()

	// then
	if res.StatusCode != http.StatusAccepted {
		t.Errorf("incorrect status code %d", res.StatusCode)
	}

	cmd := <-f.commands
	if cmd.Name != protocol.CommandSetVolume {
		t.Errorf("incorrect command forwarded: %s", cmd.Name)
	}

	payload, ok := cmd.Payload.(protocol.SetVolumePayload)
	if !ok {
		t.Fatalf("incorrect payload type %T", cmd.Payload)
	}

	if payload.Value != 70 {
		t.Errorf("incorrect volume value %d", payload.Value)
	}
}

func TestPostCommandRejectsMalformedPayloads(t *testing.T) {
	// given
	f := newFixture(t)
	channel := f.manager.Attach(&nopTransport{})

	// when
	url := fmt.Sprintf("%s/rest/command?channel=%s", f.server.URL, channel.ID())
	res, err := http.Post(url, "application/json", bytes.NewBufferString(`{"play":{},"pause":{}}`))
	if err != nil {
		t.Fatalf("command request failed: %s", err)
	}
	defer res.Body.Close()

	// then
	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("incorrect status code for malformed command %d", res.StatusCode)
	}

	select {
	case cmd := <-f.commands:
		t.Errorf("malformed command should not be forwarded, got %s", cmd.Name)
	default:
	}
}

func TestSearchDegradesToEmptyResultsOnCatalogOutage(t *testing.T) {
	// given
	f := newFixture(t)
	f.catalog.EXPECT().
		Search(gomock.Any(), "porcupine tree").
		Return(catalog.SearchResults{}, fmt.Errorf("fetching: %w", catalog.ErrCatalogUnavailable))

	// when
	res, err := http.Get(f.server.URL + "/rest/search?query=porcupine+tree")
	if err != nil {
		t.Fatalf("search request failed: %s", err)
	}
	defer res.Body.Close()

	// then
	if res.StatusCode != http.StatusOK {
		t.Errorf("incorrect status code %d", res.StatusCode)
	}

	var results catalog.SearchResults
	if err := json.NewDecoder(res.Body).Decode(&results); err != nil {
		t.Fatalf("could not decode search results: %s", err)
	}

	if results.Query != "porcupine tree" {
		t.Errorf("incorrect query echoed: %s", results.Query)
	}

	if results.Albums == nil || len(results.Albums) != 0 {
		t.Errorf("expected empty albums collection, got %v", results.Albums)
	}
}

func TestAlbumReadAnswersBadGatewayOnCatalogOutage(t *testing.T) {
	// given
	f := newFixture(t)
	f.catalog.EXPECT().
		Album(gomock.Any(), "alb-1").
		Return(catalog.Album{}, fmt.Errorf("fetching: %w", catalog.ErrCatalogUnavailable))

	// when
	res, err := http.Get(f.server.URL + "/rest/albums/alb-1")
	if err != nil {
		t.Fatalf("album request failed: %s", err)
	}
	defer res.Body.Close()

	// then
	if res.StatusCode != http.StatusBadGateway {
		t.Errorf("incorrect status code %d", res.StatusCode)
	}
}

func TestFavoriteChangeValidatesBody(t *testing.T) {
	// given
	f := newFixture(t)
	f.catalog.EXPECT().
		AddFavorite(gomock.Any(), catalog.FavoriteAlbum, "alb-9").
		Return(nil)

	// when
	valid, err := http.NewRequest(http.MethodPut, f.server.URL+"/rest/favorites", bytes.NewBufferString(`{"kind":"album","id":"alb-9"}`))
	if err != nil {
		t.Fatalf("could not construct favorite request: %s", err)
	}

	validRes, err := http.DefaultClient.Do(valid)
	if err != nil {
		t.Fatalf("favorite request failed: %s", err)
	}
	defer validRes.Body.Close()

	// then
	if validRes.StatusCode != http.StatusNoContent {
		t.Errorf("incorrect status code %d", validRes.StatusCode)
	}

	// when
	invalid, err := http.NewRequest(http.MethodPut, f.server.URL+"/rest/favorites", bytes.NewBufferString(`{"kind":"vinyl","id":"alb-9"}`))
	if err != nil {
		t.Fatalf("could not construct favorite request: %s", err)
	}

	invalidRes, err := http.DefaultClient.Do(invalid)
	if err != nil {
		t.Fatalf("favorite request failed: %s", err)
	}
	defer invalidRes.Body.Close()

	// then
	if invalidRes.StatusCode != http.StatusBadRequest {
		t.Errorf("incorrect status code for unknown favorite kind %d", invalidRes.StatusCode)
	}
}
