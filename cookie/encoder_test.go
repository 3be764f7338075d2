package cookie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBase64EncoderRoundTrip(t *testing.T) {
	enc := Base64Encoder{}
	in := `{"username":"alice","password":"p@ss/w0rd+","remember":true}`

	out, err := enc.Decode(enc.Encode(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestBase64EncoderDecodeError(t *testing.T) {
	_, err := Base64Encoder{}.Decode("!!! definitely not base64 !!!")
	assert.Error(t, err)
}

func TestAESEncoderRoundTrip(t *testing.T) {
	enc, err := NewAESEncoder([]byte("cookie secret"))
	require.NoError(t, err)

	in := `{"username":"alice","password":"s3cret","remember":true}`
	sealed := enc.Encode(in)
	require.NotEmpty(t, sealed)
	assert.NotContains(t, sealed, "alice")

	out, err := enc.Decode(sealed)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestAESEncoderRejectsTampering(t *testing.T) {
	enc, err := NewAESEncoder([]byte("cookie secret"))
	require.NoError(t, err)

	sealed := enc.Encode("payload")

	// Flip a character somewhere past the nonce.
	b := []byte(sealed)
	i := len(b) - 2
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}

	_, err = enc.Decode(string(b))
	assert.Error(t, err)
}

func TestAESEncoderRejectsWrongKey(t *testing.T) {
	enc1, err := NewAESEncoder([]byte("key one"))
	require.NoError(t, err)
	enc2, err := NewAESEncoder([]byte("key two"))
	require.NoError(t, err)

	_, err = enc2.Decode(enc1.Encode("payload"))
	assert.Error(t, err)
}

func TestAESEncoderRejectsShortInput(t *testing.T) {
	enc, err := NewAESEncoder([]byte("cookie secret"))
	require.NoError(t, err)

	_, err = enc.Decode("AAAA")
	assert.Error(t, err)
}
