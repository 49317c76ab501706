package apns

import (
	"crypto/tls"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(dial func(addr string) (net.Conn, error)) *Config {
	config := &Config{
		Protocol:    Binary,
		Certificate: &tls.Certificate{},
		WriteDelay:  time.Millisecond,
		ReadWait:    20 * time.Millisecond,
		RetryCount:  -1, // без повторных попыток соединения
		RetryDelay:  time.Millisecond,
		dial:        dial,
	}
	config.withDefaults()
	return config
}

func TestConnectRetryBound(t *testing.T) {
	var attempts int
	dialErr := errors.New("connection refused")
	config := testConfig(func(addr string) (net.Conn, error) {
		attempts++
		return nil, dialErr
	})
	config.RetryCount = 2

	c := newConn(config)
	err := c.Connect()
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, 3, attempts, "retry count 2 means 3 attempts")
	assert.Equal(t, 3, connErr.Attempts)
	assert.ErrorIs(t, connErr, dialErr)
	assert.Equal(t, stateFailed, c.state)
}

func TestConnectRetrySucceeds(t *testing.T) {
	var attempts int
	config := testConfig(func(addr string) (net.Conn, error) {
		attempts++
		if attempts < 3 {
			return nil, errors.New("connection refused")
		}
		client, _ := net.Pipe()
		return client, nil
	})
	config.RetryCount = 3

	c := newConn(config)
	require.NoError(t, c.Connect())
	assert.Equal(t, 3, attempts)
	assert.Equal(t, stateConnected, c.state)

	// уже установленное соединение не переустанавливается
	require.NoError(t, c.Connect())
	assert.Equal(t, 3, attempts)
}

func TestConnCloseIdempotent(t *testing.T) {
	config := testConfig(func(addr string) (net.Conn, error) {
		client, _ := net.Pipe()
		return client, nil
	})
	c := newConn(config)
	require.NoError(t, c.Connect())
	c.Close()
	c.Close() // повторное закрытие безопасно
	assert.Equal(t, stateDisconnected, c.state)
	assert.Error(t, c.Write([]byte("x")))
}

func TestConnReadFrameSilence(t *testing.T) {
	config := testConfig(func(addr string) (net.Conn, error) {
		client, _ := net.Pipe()
		return client, nil
	})
	c := newConn(config)
	require.NoError(t, c.Connect())
	defer c.Close()

	start := time.Now()
	data, err := c.readFrame(30 * time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, data, "silence is not an error")
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestConnReadFrameClosed(t *testing.T) {
	var server net.Conn
	config := testConfig(func(addr string) (net.Conn, error) {
		var client net.Conn
		client, server = net.Pipe()
		return client, nil
	})
	c := newConn(config)
	require.NoError(t, c.Connect())
	defer c.Close()
	require.NoError(t, server.Close())

	_, err := c.readFrame(30 * time.Millisecond)
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
}
