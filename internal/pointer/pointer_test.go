package pointer

import "testing"

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"down", Down, false},
		{"pointermove", Move, false},
		{" UP ", Up, false},
		{"pointercancel", Cancel, false},
		{"click", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if err == nil && got != tt.want {
			t.Fatalf("ParseKind(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestKindRoundTrip(t *testing.T) {
	for _, k := range []Kind{Down, Move, Up, Cancel} {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Fatalf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if Kind(99).String() != "unknown" {
		t.Fatalf("unexpected string for invalid kind")
	}
}

func TestEnds(t *testing.T) {
	if !Up.Ends() || !Cancel.Ends() {
		t.Fatalf("up and cancel must end a drag")
	}
	if Down.Ends() || Move.Ends() {
		t.Fatalf("down and move must not end a drag")
	}
}
