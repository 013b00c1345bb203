package protocol_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/sarpt/hifi-web-api/pkg/protocol"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/playback"
	"github.com/sarpt/hifi-web-api/pkg/state/pkg/tracklist"
)

func TestDecodeCommandParsesPayloadCommands(t *testing.T) {
	// given
	data := []byte(`{"skipTo": {"num": 3}}`)

	// when
	cmd, err := protocol.DecodeCommand(data)

	// then
	if err != nil {
		t.Fatalf("decode returned error: %s", err)
	}

	if cmd.Name != protocol.CommandSkipTo {
		t.Errorf("expected skipTo command, got %q", cmd.Name)
	}

	payload, ok := cmd.Payload.(protocol.SkipToPayload)
	if !ok {
		t.Fatalf("payload has unexpected type %T", cmd.Payload)
	}

	if payload.Num != 3 {
		t.Errorf("expected num 3, got %d", payload.Num)
	}
}

func TestDecodeCommandParsesUnitCommands(t *testing.T) {
	// given
	forms := [][]byte{
		[]byte(`{"playPause": {}}`),
		[]byte(`{"playPause": null}`),
	}

	for _, data := range forms {
		// when
		cmd, err := protocol.DecodeCommand(data)

		// then
		if err != nil {
			t.Fatalf("decode of %s returned error: %s", data, err)
		}

		if cmd.Name != protocol.CommandPlayPause || cmd.Payload != nil {
			t.Errorf("unexpected command %+v for %s", cmd, data)
		}
	}
}

func TestDecodeCommandRejectsUnknownNames(t *testing.T) {
	// given
	data := []byte(`{"rewind": {}}`)

	// when
	_, err := protocol.DecodeCommand(data)

	// then
	if !errors.Is(err, protocol.ErrMalformedCommand) {
		t.Errorf("expected malformed command error, got %v", err)
	}
}

func TestDecodeCommandRejectsMultipleKeys(t *testing.T) {
	// given
	data := []byte(`{"next": {}, "previous": {}}`)

	// when
	_, err := protocol.DecodeCommand(data)

	// then
	if !errors.Is(err, protocol.ErrMalformedCommand) {
		t.Errorf("expected malformed command error, got %v", err)
	}
}

func TestDecodeCommandRejectsWrongPayloadShape(t *testing.T) {
	// given
	data := []byte(`{"setVolume": {"value": "loud"}}`)

	// when
	_, err := protocol.DecodeCommand(data)

	// then
	if !errors.Is(err, protocol.ErrMalformedCommand) {
		t.Errorf("expected malformed command error, got %v", err)
	}
}

func TestCommandMarshalRoundTrips(t *testing.T) {
	// given
	original := protocol.Command{
		Name:    protocol.CommandPlayAlbum,
		Payload: protocol.PlayAlbumPayload{AlbumID: "alb-1"},
	}

	// when
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal returned error: %s", err)
	}

	decoded, err := protocol.DecodeCommand(data)

	// then
	if err != nil {
		t.Fatalf("decode returned error: %s", err)
	}

	payload, ok := decoded.Payload.(protocol.PlayAlbumPayload)
	if !ok || payload.AlbumID != "alb-1" {
		t.Errorf("round trip lost payload, got %+v", decoded)
	}
}

func TestEventMarshalUsesSingleKeyEncoding(t *testing.T) {
	// given
	event := protocol.NewStatusEvent(playback.TransportPlaying)

	// when
	data, err := json.Marshal(event)

	// then
	if err != nil {
		t.Fatalf("marshal returned error: %s", err)
	}

	expected := `{"status":{"status":"playing"}}`
	if string(data) != expected {
		t.Errorf("expected %s, got %s", expected, data)
	}
}

func TestDecodeEventRoundTripsTrackLists(t *testing.T) {
	// given
	list := tracklist.NewList(tracklist.ListConfig{
		Kind:  tracklist.KindAlbum,
		Album: &tracklist.AlbumMeta{ID: "alb-1", Title: "Coasts", ArtistName: "Delta Waves"},
		Entries: []tracklist.Entry{
			{ID: 501, Title: "Ebb", Ordinal: 1, DurationSecs: 250, Status: tracklist.StatusPlaying},
			{ID: 502, Title: "Flow", Ordinal: 2, DurationSecs: 262, Status: tracklist.StatusQueued},
		},
	})

	data, err := json.Marshal(protocol.NewCurrentTrackListEvent(list))
	if err != nil {
		t.Fatalf("marshal returned error: %s", err)
	}

	// when
	event, err := protocol.DecodeEvent(data)

	// then
	if err != nil {
		t.Fatalf("decode returned error: %s", err)
	}

	payload, ok := event.Payload.(protocol.CurrentTrackListPayload)
	if !ok {
		t.Fatalf("payload has unexpected type %T", event.Payload)
	}

	entries := payload.List.Entries()
	if payload.List.Kind() != tracklist.KindAlbum || len(entries) != 2 {
		t.Fatalf("list shape lost in round trip: %+v", payload.List)
	}

	if entries[0].Status != tracklist.StatusPlaying || entries[1].Status != tracklist.StatusQueued {
		t.Errorf("entry statuses lost in round trip: %+v", entries)
	}
}

func TestDecodeEventRejectsUnknownNames(t *testing.T) {
	// given
	data := []byte(`{"telemetry": {"value": 1}}`)

	// when
	_, err := protocol.DecodeEvent(data)

	// then
	if !errors.Is(err, protocol.ErrMalformedEvent) {
		t.Errorf("expected malformed event error, got %v", err)
	}
}
