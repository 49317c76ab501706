package apns

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadEncode(t *testing.T) {
	payload := &Payload{Alert: "hi"}
	data, err := payload.Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"aps":{"alert":"hi"}}`, string(data))
}

func TestPayloadEncodeTitle(t *testing.T) {
	payload := &Payload{Alert: "body text", Title: "title text"}
	data, err := payload.Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"aps":{"alert":{"body":"body text","title":"title text"}}}`, string(data))
}

func TestPayloadEncodeEmptyAps(t *testing.T) {
	// a silent push carries no visible fields, but aps must stay an object
	payload := &Payload{}
	data, err := payload.Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"aps":{}}`, string(data))
}

func TestPayloadEncodeFields(t *testing.T) {
	payload := &Payload{
		Alert:            "hi",
		Sound:            "default",
		Category:         "MESSAGE",
		ThreadID:         "chat-1",
		ContentAvailable: true,
		MutableContent:   true,
	}
	payload.SetBadge(0)
	data, err := payload.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"aps":{
		"alert":"hi","badge":0,"sound":"default","category":"MESSAGE",
		"thread-id":"chat-1","content-available":1,"mutable-content":1}}`,
		string(data))
}

func TestPayloadCustomKeys(t *testing.T) {
	payload := &Payload{Alert: "hi"}
	require.NoError(t, payload.Set("time", "now"))
	require.NoError(t, payload.Set("count", 7))
	require.ErrorIs(t, payload.Set("aps", "nope"), ErrReservedKey)
	data, err := payload.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"aps":{"alert":"hi"},"time":"now","count":7}`, string(data))

	value, ok := payload.Get("count")
	require.True(t, ok)
	assert.Equal(t, 7, value)
}

func TestPayloadUnicodeUnescaped(t *testing.T) {
	payload := &Payload{Alert: "привет, 世界 <&>"}
	data, err := payload.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), "привет, 世界 <&>")
}

func TestPayloadEncodeIdempotent(t *testing.T) {
	payload := &Payload{Alert: "hi", Sound: "default"}
	first, err := payload.Encode()
	require.NoError(t, err)
	second, err := payload.Encode()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPayloadTooLarge(t *testing.T) {
	payload := &Payload{Alert: strings.Repeat("a", MaxPayloadSize+100)}
	_, err := payload.Encode()
	var sizeErr *PayloadSizeError
	require.ErrorAs(t, err, &sizeErr)
	assert.Greater(t, sizeErr.Size, MaxPayloadSize)
	assert.Equal(t, MaxPayloadSize, sizeErr.Max)
}

func TestPayloadAutoAdjust(t *testing.T) {
	payload := &Payload{
		Alert:      strings.Repeat("я", MaxPayloadSize), // 2 bytes per rune
		Sound:      "default",
		AutoAdjust: true,
	}
	require.NoError(t, payload.Set("key", "value"))
	data, err := payload.Encode()
	require.NoError(t, err)
	assert.LessOrEqual(t, len(data), MaxPayloadSize)
	assert.True(t, utf8.Valid(data), "truncation must not split a code point")
	// only the alert text may change
	assert.Contains(t, string(data), `"sound":"default"`)
	assert.Contains(t, string(data), `"key":"value"`)
	assert.Contains(t, string(data), `"alert":"я`)
	// the original payload is untouched
	assert.Len(t, payload.Alert, 2*MaxPayloadSize)
}

func TestPayloadAutoAdjustNoAlert(t *testing.T) {
	payload := &Payload{AutoAdjust: true}
	require.NoError(t, payload.Set("blob", strings.Repeat("x", MaxPayloadSize+100)))
	_, err := payload.Encode()
	require.ErrorIs(t, err, ErrNoAlertToTruncate)
}

func TestPayloadAutoAdjustExhausted(t *testing.T) {
	// even an empty alert cannot bring this payload under the limit
	payload := &Payload{Alert: "short", AutoAdjust: true}
	require.NoError(t, payload.Set("blob", strings.Repeat("x", MaxPayloadSize+100)))
	_, err := payload.Encode()
	var sizeErr *PayloadSizeError
	require.ErrorAs(t, err, &sizeErr)
}
