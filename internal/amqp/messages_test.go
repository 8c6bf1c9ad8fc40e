package amqp

import "testing"

func TestChangeMessageRoundTrip(t *testing.T) {
	msg := NewChangeMessage("u1", "appointments", "status_updated")

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := ChangeMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Owner != "u1" || got.Stream != "appointments" || got.Reason != "status_updated" {
		t.Fatalf("unexpected message: %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}
}

func TestChangeMessageFromJSONInvalid(t *testing.T) {
	if _, err := ChangeMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid payload")
	}
}
