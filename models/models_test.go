package models

import (
	"encoding/json"
	"testing"
	"time"
)

// TestAuthStatusOrdinals pins the wire values of every status. Some
// deployments transmit the status as a raw integer, so these must
// never change.
func TestAuthStatusOrdinals(t *testing.T) {
	expected := map[AuthStatus]int{
		StatusSuccess:               0,
		StatusSuccessAndReactivated: 1,
		StatusTwoFactorRequired:     2,
		StatusFail:                  3,
		StatusWrongPassword:         4,
		StatusPasswordExpired:       5,
		StatusAccessTimeLocked:      6,
		StatusLocked:                7,
		StatusSuspended:             8,
		StatusDisabled:              9,
		StatusSystemError:           10,
	}
	for status, ordinal := range expected {
		if int(status) != ordinal {
			t.Errorf("expected ordinal %d, got %d", ordinal, int(status))
		}
	}
}

func TestFlexTimeUnmarshal(t *testing.T) {
	ref := time.Date(2024, 5, 17, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"RFC3339", `"2024-05-17T10:30:00Z"`, ref},
		{"RFC3339 with offset", `"2024-05-17T12:30:00+02:00"`, ref},
		{"bare datetime", `"2024-05-17T10:30:00"`, ref},
		{"space separated", `"2024-05-17 10:30:00"`, ref},
		{"date only", `"2024-05-17"`, time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)},
		{"epoch seconds", `1715941800`, ref},
		{"epoch milliseconds", `1715941800000`, ref},
		{"null", `null`, time.Time{}},
		{"garbage string", `"not a date"`, time.Time{}},
		{"garbage token", `{"nested":true}`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ft FlexTime
			if err := json.Unmarshal([]byte(tt.in), &ft); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !ft.Time.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, ft.Time)
			}
		})
	}
}

// TestFlexTimeFailureInsideResult verifies that an unparsable date field
// does not fail decoding the overall authentication result.
func TestFlexTimeFailureInsideResult(t *testing.T) {
	body := `{"status":0,"user":{"username":"alice","tokenExpiredTime":"///","passwordExpiredTime":"2024-05-17T10:30:00Z"}}`

	var res AuthResult
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if res.User == nil {
		t.Fatal("expected user to be present")
	}
	if res.User.TokenExpiredTime == nil || !res.User.TokenExpiredTime.IsZero() {
		t.Errorf("expected unparsable token expiry to stay zero, got %v", res.User.TokenExpiredTime)
	}
	if res.User.PasswordExpiredTime == nil || res.User.PasswordExpiredTime.IsZero() {
		t.Errorf("expected password expiry to be parsed, got %v", res.User.PasswordExpiredTime)
	}
}

func TestFlexTimeMarshal(t *testing.T) {
	ft := NewFlexTime(time.Date(2024, 5, 17, 10, 30, 0, 0, time.UTC))
	b, err := json.Marshal(ft)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(b) != `"2024-05-17T10:30:00Z"` {
		t.Errorf("unexpected encoding: %s", b)
	}

	var zero FlexTime
	b, err = json.Marshal(zero)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(b) != "null" {
		t.Errorf("expected null for zero time, got %s", b)
	}
}
