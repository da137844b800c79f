package mediatypes

import "testing"

func TestRuneDigitRoundTrip(t *testing.T) {
	for _, r := range []rune{'0', '5', '9', '*', '#', 'A', 'b', 'C', 'd'} {
		digit, ok := RuneToDigit(r)
		if !ok {
			t.Fatalf("RuneToDigit(%q) = not ok, want ok", r)
		}
		back, ok := DigitToRune(digit)
		if !ok {
			t.Fatalf("DigitToRune(%d) = not ok, want ok", digit)
		}
		want := r
		if r >= 'a' && r <= 'd' {
			want = r - ('a' - 'A')
		}
		if back != want {
			t.Errorf("round trip %q -> %d -> %q, want %q", r, digit, back, want)
		}
	}
}

func TestRuneToDigitInvalid(t *testing.T) {
	if _, ok := RuneToDigit('x'); ok {
		t.Error("RuneToDigit('x') = ok, want not ok")
	}
}

func TestDTMFEventEncodeDecode(t *testing.T) {
	e := DTMFEvent{Digit: DTMFStar, EndOfEvent: true, Volume: 10, Duration: 1600}
	got, err := DecodeDTMFEvent(e.Encode())
	if err != nil {
		t.Fatalf("DecodeDTMFEvent() error = %v", err)
	}
	if got != e {
		t.Errorf("DecodeDTMFEvent(Encode()) = %+v, want %+v", got, e)
	}
}

func TestDecodeDTMFEventTooShort(t *testing.T) {
	if _, err := DecodeDTMFEvent([]byte{1, 2}); err == nil {
		t.Error("DecodeDTMFEvent(short payload) = nil error, want error")
	}
}

func TestBuildDTMFPacketsEndsWithThreeEndOfEvent(t *testing.T) {
	packets, err := BuildDTMFPackets('5', 1600, 101, 0xAAAA, 100, 5000)
	if err != nil {
		t.Fatalf("BuildDTMFPackets() error = %v", err)
	}
	if len(packets) < 3 {
		t.Fatalf("got %d packets, want at least 3", len(packets))
	}
	for _, p := range packets[len(packets)-3:] {
		evt, err := DecodeDTMFEvent(p.Payload)
		if err != nil {
			t.Fatalf("DecodeDTMFEvent() error = %v", err)
		}
		if !evt.EndOfEvent {
			t.Error("trailing packet missing end-of-event bit")
		}
		if p.Timestamp != 5000 {
			t.Errorf("Timestamp = %d, want constant 5000", p.Timestamp)
		}
	}
	if !packets[0].Marker {
		t.Error("first packet should set the marker bit")
	}
}

func TestBuildDTMFPacketsInvalidDigit(t *testing.T) {
	if _, err := BuildDTMFPackets('x', 1600, 101, 1, 1, 1); err == nil {
		t.Error("BuildDTMFPackets('x', ...) = nil error, want error")
	}
}
