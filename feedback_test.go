package apns

import (
	"bytes"
	"crypto/tls"
	"encoding/binary"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedback(t *testing.T) {
	tokens := [][]byte{
		bytes.Repeat([]byte{0x01}, 32),
		bytes.Repeat([]byte{0x02}, 32),
	}
	reported := time.Now().Add(-time.Hour).Truncate(time.Second)
	config := &Config{
		Certificate: &tls.Certificate{},
		dial: func(addr string) (net.Conn, error) {
			assert.Equal(t, ServerFeedback, addr)
			client, server := net.Pipe()
			go func() {
				defer server.Close()
				var buf bytes.Buffer
				for _, token := range tokens {
					binary.Write(&buf, binary.BigEndian, uint32(reported.Unix()))
					binary.Write(&buf, binary.BigEndian, uint16(len(token)))
					buf.Write(token)
				}
				buf.WriteTo(server)
			}()
			return client, nil
		},
	}

	responses, err := Feedback(config)
	require.NoError(t, err)
	require.Len(t, responses, 2)
	for i, response := range responses {
		assert.Equal(t, tokens[i], response.Token)
		assert.Equal(t, reported.Unix(), response.Time().Unix())
	}
	assert.Equal(t, "01010101010101010101010101010101"+
		"01010101010101010101010101010101", responses[0].String())
}

func TestFeedbackEmpty(t *testing.T) {
	config := &Config{
		Certificate: &tls.Certificate{},
		Environment: Sandbox,
		dial: func(addr string) (net.Conn, error) {
			assert.Equal(t, ServerFeedbackSandbox, addr)
			client, server := net.Pipe()
			server.Close()
			return client, nil
		},
	}
	responses, err := Feedback(config)
	require.NoError(t, err)
	assert.Empty(t, responses)
}
