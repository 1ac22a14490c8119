package timeutil

import (
	"testing"
	"time"
)

func TestNow_AlwaysUTC(t *testing.T) {
	now := Now()

	if now.Location() != time.UTC {
		t.Errorf("Now() returned non-UTC timezone: %v", now.Location())
	}
}

func TestFixed(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	clock := Fixed(time.Date(2024, 1, 15, 5, 0, 0, 0, est))

	got := clock()
	if got.Location() != time.UTC {
		t.Errorf("Fixed() returned non-UTC timezone: %v", got.Location())
	}
	if want := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("Fixed() = %v, want %v", got, want)
	}
	if !clock().Equal(got) {
		t.Error("Fixed() clock changed between calls")
	}
}

func TestUnixMillisRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		input  time.Time
		millis int64
	}{
		{
			name:   "epoch",
			input:  time.Unix(0, 0).UTC(),
			millis: 0,
		},
		{
			name:   "purchase time",
			input:  time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			millis: 1705312800000,
		},
		{
			name:   "sub-second precision",
			input:  time.Date(2024, 1, 15, 10, 0, 0, 250_000_000, time.UTC),
			millis: 1705312800250,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UnixMillis(tt.input); got != tt.millis {
				t.Errorf("UnixMillis() = %d, want %d", got, tt.millis)
			}
			back := FromUnixMillis(tt.millis)
			if !back.Equal(tt.input) {
				t.Errorf("FromUnixMillis() = %v, want %v", back, tt.input)
			}
			if back.Location() != time.UTC {
				t.Errorf("FromUnixMillis() returned non-UTC timezone: %v", back.Location())
			}
		})
	}
}
