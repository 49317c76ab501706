package apns

import (
	"errors"
	"fmt"
)

// Ошибки, возвращаемые при проверке уведомлений перед добавлением в очередь
// на отправку.
var (
	ErrPayloadEmpty        = errors.New("payload is empty")
	ErrBadDeviceToken      = errors.New("bad device token")
	ErrNotificationExpired = errors.New("notification expired")
	ErrReservedKey         = errors.New("aps is a reserved payload key")
	ErrNoAlertToTruncate   = errors.New("payload is too large and has no alert text to truncate")
)

// ErrClientClosed возвращается при попытке отправки через закрытый клиент.
var ErrClientClosed = errors.New("client is closed")

// ConfigError describes an invalid client configuration. It is reported at
// construction time and never retried.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "apns config: " + e.Reason }

// ConnectionError is returned after the connection retry bound is exhausted.
// It carries the number of handshake attempts made and the last failure.
type ConnectionError struct {
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("apns connect: %d attempts failed: %s", e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ProtocolError describes a malformed server frame. It invalidates the
// current session: the connection is discarded and every unconfirmed
// notification is requeued for a fresh one.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string { return "apns protocol: " + e.Reason }

// PayloadSizeError is returned when an encoded payload exceeds the maximum
// allowed size and alert truncation is disabled or exhausted.
type PayloadSizeError struct {
	Size int // actual encoded size in bytes
	Max  int // allowed maximum
}

func (e *PayloadSizeError) Error() string {
	return fmt.Sprintf("payload is too large: %d bytes, maximum is %d", e.Size, e.Max)
}
