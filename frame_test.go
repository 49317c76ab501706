package apns

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFrame(t *testing.T) {
	token := bytes.Repeat([]byte{0xab}, 32)
	payload := []byte(`{"aps":{"alert":"hi"}}`)
	var buf bytes.Buffer
	writeFrame(&buf, 7, 1234567890, token, payload)

	data := buf.Bytes()
	require.Len(t, data, 1+4+4+2+32+2+len(payload))
	assert.Equal(t, frameSend, data[0])
	assert.EqualValues(t, 7, binary.BigEndian.Uint32(data[1:5]))
	assert.EqualValues(t, 1234567890, binary.BigEndian.Uint32(data[5:9]))
	assert.EqualValues(t, 32, binary.BigEndian.Uint16(data[9:11]))
	assert.Equal(t, token, data[11:43])
	assert.EqualValues(t, len(payload), binary.BigEndian.Uint16(data[43:45]))
	assert.Equal(t, payload, data[45:])
}

func TestDecodeErrorFrame(t *testing.T) {
	frame, err := decodeErrorFrame([]byte{8, 8, 0, 0, 0, 42})
	require.NoError(t, err)
	assert.Equal(t, frameError, frame.Command)
	assert.EqualValues(t, 42, frame.Sequence)
	assert.Equal(t, "invalid token", frame.Reason())

	delivery := frame.deliveryError()
	assert.EqualValues(t, 42, delivery.Sequence)
	assert.Contains(t, delivery.Error(), "invalid token")
}

func TestDecodeErrorFrameReasons(t *testing.T) {
	for status, reason := range map[uint8]string{
		statusNoErrors:           "no errors encountered",
		statusProcessingError:    "processing error",
		statusMissingDeviceToken: "missing device token",
		statusMissingPayload:     "missing payload",
		statusInvalidPayloadSize: "invalid payload size",
		statusShutdown:           "shutdown",
		statusUnknown:            "unknown",
		99:                       "unknown", // outside the defined set
	} {
		frame, err := decodeErrorFrame([]byte{8, status, 0, 0, 0, 1})
		require.NoError(t, err)
		assert.Equal(t, reason, frame.Reason())
	}
}

func TestDecodeErrorFrameBadCommand(t *testing.T) {
	// a wrong command tag still parses, with an unknown reason
	frame, err := decodeErrorFrame([]byte{2, 8, 0, 0, 0, 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, frame.Command)
	assert.Equal(t, "unknown", frame.Reason())
}

func TestDecodeErrorFrameShort(t *testing.T) {
	for _, data := range [][]byte{nil, {}, {8}, {8, 1, 0, 0, 0}} {
		_, err := decodeErrorFrame(data)
		var protoErr *ProtocolError
		require.ErrorAs(t, err, &protoErr)
	}
}
