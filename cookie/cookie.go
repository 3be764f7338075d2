// Package cookie persists a "remember me" credential envelope in a
// caller-supplied key/value store, passing it through a reversible
// encoder on the way in and out.
//
// The persisted payload is fixed and unversioned: a JSON object with
// exactly {username, password, remember}, encoded before storage.
// Restoration is fail-open: a corrupted or unparsable entry behaves as
// if nothing was stored, so a bad cookie can never block login.
package cookie

import (
	"encoding/json"
	"time"

	"github.com/dkoval/authkit/models"
)

// Store is the key/value storage the embedding application provides,
// typically browser cookies or a local database. Get returns an empty
// string when the key is absent or expired.
type Store interface {
	Set(key, value string, expires time.Time)
	Get(key string) string
	Delete(key string)
}

// Encoder is a reversible, lossless transform applied to the credential
// envelope before it reaches the store.
type Encoder interface {
	Encode(s string) string
	Decode(s string) (string, error)
}

// EncoderFunc adapts a single symmetric function, one that is its own
// inverse, to the Encoder interface.
type EncoderFunc func(string) string

func (f EncoderFunc) Encode(s string) string { return f(s) }

func (f EncoderFunc) Decode(s string) (string, error) { return f(s), nil }

// envelope is the fixed persisted payload.
type envelope struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// InitFromCookie restores a remembered credential from the store into
// user. It returns true when there is nothing usable to restore, or
// when the restored record had remember unset: the caller should
// proceed with a normal login prompt. It returns false when remember
// was set, meaning the restored credential can be submitted directly.
//
// Any decode or parse failure is treated as "nothing stored": user is
// left untouched and true is returned.
func InitFromCookie(key string, user *models.AuthInfo, store Store, encoder Encoder) bool {
	raw := store.Get(key)
	if raw == "" {
		return true
	}
	decoded, err := encoder.Decode(raw)
	if err != nil {
		return true
	}
	var env envelope
	if err := json.Unmarshal([]byte(decoded), &env); err != nil {
		return true
	}
	user.Username = env.Username
	user.Password = env.Password
	return !env.Remember
}

// HandleCookie persists or clears the remembered credential. When
// remember is true the {username, password, remember} envelope is
// encoded and written under key with an expiry of now plus
// expiresMinutes; otherwise the entry at key is deleted.
func HandleCookie(key string, user models.AuthInfo, remember bool, store Store, expiresMinutes int, encoder Encoder) {
	if !remember {
		store.Delete(key)
		return
	}
	data, err := json.Marshal(envelope{
		Username: user.Username,
		Password: user.Password,
		Remember: true,
	})
	if err != nil {
		return
	}
	store.Set(key, encoder.Encode(string(data)), AddMinutes(time.Now(), expiresMinutes))
}

// AddMinutes returns t offset by the given number of minutes. Negative
// offsets produce a time in the past.
func AddMinutes(t time.Time, minutes int) time.Time {
	return t.Add(time.Duration(minutes) * time.Minute)
}

// DayDiff returns the absolute whole-day difference between start and
// end, or nil when either is absent.
func DayDiff(start, end *time.Time) *int {
	if start == nil || end == nil {
		return nil
	}
	d := start.Sub(*end)
	if d < 0 {
		d = -d
	}
	days := int(d / (24 * time.Hour))
	return &days
}
