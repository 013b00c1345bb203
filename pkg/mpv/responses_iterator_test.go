package mpv_test

import (
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/sarpt/hifi-web-api/internal/mocks"
	"github.com/sarpt/hifi-web-api/pkg/mpv"
)

func TestNext_MultiplePayloadsInOneRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	conn := mocks.NewMockConn(ctrl)
	conn.
		EXPECT().
		Read(gomock.Any()).
		DoAndReturn(func(buf []byte) (int, error) {
			result := []byte("{\"name\":\"pause\",\"data\":\"yes\"}\n{\"event\":\"property-change\"}\n")

			return copy(buf, result), nil
		}).
		Times(1)

	uut := mpv.NewResponsesIterator(conn)
	if uut == nil {
		t.Fatalf("Response iterator is nil")
	}

	// when
	response1, err := uut.Next()
	if err != nil {
		t.Fatalf("Unexpected error reported for response1: %s", err)
	}

	response2, err := uut.Next()
	if err != nil {
		t.Fatalf("Unexpected error reported for response2: %s", err)
	}

	// then
	expectedName1 := "pause"
	if response1.Name != expectedName1 {
		t.Errorf("Expected name %s to equal %s", response1.Name, expectedName1)
	}

	expectedData1 := "yes"
	data1, ok := response1.Data.(string)
	if !ok {
		t.Fatalf("Cannot cast data in response 1 to string")
	}

	if data1 != expectedData1 {
		t.Errorf("Expected data %s to equal %s", data1, expectedData1)
	}

	expectedEvent2 := "property-change"
	if response2.Event != expectedEvent2 {
		t.Errorf("Expected event %s to equal %s", response2.Event, expectedEvent2)
	}
}

func TestNext_OnePayloadInMultipleReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	conn := mocks.NewMockConn(ctrl)
	firstReadCall := conn.
		EXPECT().
		Read(gomock.Any()).
		DoAndReturn(func(buf []byte) (int, error) {
			result := []byte("{\"name\":\n")

			return copy(buf, result), nil
		}).
		Times(1)

	secondReadCall := conn.
		EXPECT().
		Read(gomock.Any()).
		DoAndReturn(func(buf []byte) (int, error) {
			result := []byte("\"volume\",")

			return copy(buf, result), nil
		}).
		Times(1).
		After(firstReadCall)

	conn.
		EXPECT().
		Read(gomock.Any()).
		DoAndReturn(func(buf []byte) (int, error) {
			result := []byte("\"data\":\"35\"}\n{\"name\":\"pause\"}\n")

			return copy(buf, result), nil
		}).
		Times(1).
		After(secondReadCall)

	uut := mpv.NewResponsesIterator(conn)
	if uut == nil {
		t.Fatalf("Response iterator is nil")
	}

	// when
	response1, err := uut.Next()
	if err != nil {
		t.Fatalf("Unexpected error reported for response1: %s", err)
	}

	response2, err := uut.Next()
	if err != nil {
		t.Fatalf("Unexpected error reported for response2: %s", err)
	}

	// then
	expectedName1 := "volume"
	if response1.Name != expectedName1 {
		t.Errorf("Expected name %s to equal %s", response1.Name, expectedName1)
	}

	expectedData1 := "35"
	data1, ok := response1.Data.(string)
	if !ok {
		t.Fatalf("Cannot cast data in response 1 to string")
	}

	if data1 != expectedData1 {
		t.Errorf("Expected data %s to equal %s", data1, expectedData1)
	}

	expectedName2 := "pause"
	if response2.Name != expectedName2 {
		t.Errorf("Expected name %s to equal %s", response2.Name, expectedName2)
	}
}

func TestNext_ConsecutiveNewlines(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// given
	conn := mocks.NewMockConn(ctrl)
	conn.
		EXPECT().
		Read(gomock.Any()).
		DoAndReturn(func(buf []byte) (int, error) {
			result := []byte("\n{\"name\":\"idle-active\",\"data\":\"yes\"}\n\n\n\n{\"name\":\"pause\"}\n\n")

			return copy(buf, result), nil
		}).
		Times(1)

	uut := mpv.NewResponsesIterator(conn)
	if uut == nil {
		t.Fatalf("Response iterator is nil")
	}

	// when
	response1, err := uut.Next()
	if err != nil {
		t.Fatalf("Unexpected error reported for response1: %s", err)
	}

	response2, err := uut.Next()
	if err != nil {
		t.Fatalf("Unexpected error reported for response2: %s", err)
	}

	// then
	expectedName1 := "idle-active"
	if response1.Name != expectedName1 {
		t.Errorf("Expected name %s to equal %s", response1.Name, expectedName1)
	}

	expectedName2 := "pause"
	if response2.Name != expectedName2 {
		t.Errorf("Expected name %s to equal %s", response2.Name, expectedName2)
	}
}
