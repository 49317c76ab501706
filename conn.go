package apns

import (
	"errors"
	"io"
	"net"
	"time"
)

// Состояния соединения с сервером бинарного протокола.
type connState int

const (
	stateDisconnected connState = iota // соединение не установлено
	stateConnecting                    // идет попытка установки соединения
	stateConnected                     // соединение установлено
	stateFailed                        // попытки соединения исчерпаны
)

// conn управляет жизненным циклом соединения с сервером бинарного протокола:
// установка с ограниченным числом повторов, запись кадров и ожидание ответа
// сервера с ошибкой.
type conn struct {
	config *Config
	log    Logger
	nc     net.Conn
	state  connState
}

func newConn(config *Config) *conn {
	return &conn{
		config: config,
		log:    config.Logger,
	}
}

// Connect устанавливает соединение с сервером, если оно еще не установлено.
// При ошибке установки делается заданное конфигурацией число повторных
// попыток с фиксированной задержкой между ними. Каждая попытка независима:
// задержка не увеличивается. После исчерпания попыток возвращается
// ConnectionError с последней ошибкой.
func (c *conn) Connect() error {
	if c.state == stateConnected {
		return nil
	}
	c.state = stateConnecting
	addr := c.config.gateway()
	attempts := c.config.RetryCount + 1
	var last error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			time.Sleep(c.config.RetryDelay)
		}
		c.log.Infof("connecting to %s (attempt %d of %d)", addr, i+1, attempts)
		nc, err := c.config.Dial(addr)
		if err == nil {
			c.nc = nc
			c.state = stateConnected
			return nil
		}
		c.log.Errorf("connect to %s: %s", addr, err)
		last = err
	}
	c.state = stateFailed
	return &ConnectionError{Attempts: attempts, Err: last}
}

// Close закрывает соединение. Метод можно безопасно вызывать повторно для
// уже закрытого соединения.
func (c *conn) Close() {
	if c.nc != nil {
		c.nc.Close()
		c.nc = nil
	}
	if c.state != stateFailed {
		c.state = stateDisconnected
	}
}

// Write записывает данные в соединение целиком.
func (c *conn) Write(data []byte) error {
	if c.state != stateConnected {
		return &ProtocolError{Reason: "write on closed connection"}
	}
	_, err := c.nc.Write(data)
	return err
}

// readFrame ожидает ответа сервера в течение указанного времени. Молчание
// сервера не является подтверждением доставки, поэтому по истечении времени
// ожидания возвращается nil без ошибки. Полный ответ возвращается как есть.
// Закрытие соединения сервером или неполный ответ являются ошибкой
// протокола: такая сессия недействительна.
func (c *conn) readFrame(wait time.Duration) ([]byte, error) {
	if c.state != stateConnected {
		return nil, &ProtocolError{Reason: "read on closed connection"}
	}
	if err := c.nc.SetReadDeadline(time.Now().Add(wait)); err != nil {
		// установить время ожидания на закрытом соединении нельзя
		return nil, &ProtocolError{Reason: "connection closed by server: " + err.Error()}
	}
	buf := make([]byte, errorFrameLength)
	n, err := io.ReadFull(c.nc, buf)
	if n == errorFrameLength {
		return buf, nil
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() && n == 0 {
		return nil, nil // тишина в пределах времени ожидания
	}
	if n > 0 {
		return buf[:n], nil // неполный ответ разбирает decodeErrorFrame
	}
	return nil, &ProtocolError{Reason: "connection closed by server: " + err.Error()}
}
