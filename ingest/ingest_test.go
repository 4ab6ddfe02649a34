package ingest

import "testing"

func TestDecodeEventMissingMessageField(t *testing.T) {
	evt := map[string]interface{}{}
	if _, err := decodeEvent(evt); err == nil {
		t.Fatal("expected error for missing message field")
	}
}

func TestDecodeEventKeysOnly(t *testing.T) {
	evt := map[string]interface{}{"message": "10, 20, 30"}
	b, err := decodeEvent(evt)
	if err != nil {
		t.Fatalf("decodeEvent: %v", err)
	}
	want := []uint32{10, 20, 30}
	if len(b.Keys) != len(want) {
		t.Fatalf("got %d keys, want %d", len(b.Keys), len(want))
	}
	for i, k := range want {
		if b.Keys[i] != k {
			t.Fatalf("Keys[%d] = %d, want %d", i, b.Keys[i], k)
		}
	}
	if b.Values != nil {
		t.Fatalf("expected nil values, got %v", b.Values)
	}
}

func TestDecodeEventKeysWithValues(t *testing.T) {
	evt := map[string]interface{}{"message": "5:100, 7:200"}
	b, err := decodeEvent(evt)
	if err != nil {
		t.Fatalf("decodeEvent: %v", err)
	}
	if len(b.Keys) != 2 || len(b.Values) != 2 {
		t.Fatalf("got %d keys, %d values, want 2 and 2", len(b.Keys), len(b.Values))
	}
	if b.Keys[0] != 5 || b.Values[0] != 100 {
		t.Fatalf("first pair = (%d,%d), want (5,100)", b.Keys[0], b.Values[0])
	}
	if b.Keys[1] != 7 || b.Values[1] != 200 {
		t.Fatalf("second pair = (%d,%d), want (7,200)", b.Keys[1], b.Values[1])
	}
}

func TestDecodeEventSkipsEmptyTokens(t *testing.T) {
	evt := map[string]interface{}{"message": "1,,2,"}
	b, err := decodeEvent(evt)
	if err != nil {
		t.Fatalf("decodeEvent: %v", err)
	}
	if len(b.Keys) != 2 || b.Keys[0] != 1 || b.Keys[1] != 2 {
		t.Fatalf("unexpected keys: %v", b.Keys)
	}
}

func TestDecodeEventInvalidKey(t *testing.T) {
	evt := map[string]interface{}{"message": "notanumber"}
	if _, err := decodeEvent(evt); err == nil {
		t.Fatal("expected error for invalid key")
	}
}

func TestDecodeEventInvalidValue(t *testing.T) {
	evt := map[string]interface{}{"message": "5:notanumber"}
	if _, err := decodeEvent(evt); err == nil {
		t.Fatal("expected error for invalid value")
	}
}

func TestDecodeEventMixedKeysWithAndWithoutValues(t *testing.T) {
	evt := map[string]interface{}{"message": "1:10, 2"}
	if _, err := decodeEvent(evt); err == nil {
		t.Fatal("expected error for mixing keyed and unkeyed tokens")
	}
}

func TestNewServerBindsListener(t *testing.T) {
	s, err := NewServer("127.0.0.1:0", 0)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	defer s.Close()
	if s.listener.Addr() == nil {
		t.Fatal("expected listener to be bound to an address")
	}
}
