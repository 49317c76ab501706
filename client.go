package apns

import (
	"bytes"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/http2"
)

// Client доставляет уведомления на сервис APNS через один из двух
// транспортов. Клиент владеет единственным соединением и не предполагает
// конкурентной отправки: вызовы Send выполняются последовательно.
type Client struct {
	config *Config
	log    Logger
	conn   *conn        // соединение бинарного протокола
	http   *http.Client // транспорт HTTP/2
	host   string       // адрес HTTP/2 сервера
	closed bool
}

// NewClient возвращает инициализированный клиент для отправки уведомлений.
// Конфигурация проверяется сразу: ошибки конфигурации фатальны и не
// повторяются. Подключение к серверу при этом не происходит: оно произойдет
// при первой отправке.
func NewClient(config *Config) (*Client, error) {
	config.withDefaults()
	if err := config.validate(); err != nil {
		return nil, err
	}
	client := &Client{
		config: config,
		log:    config.Logger,
	}
	switch config.Protocol {
	case Binary:
		client.conn = newConn(config)
	case HTTP2:
		transport := &http2.Transport{
			TLSClientConfig: config.tlsConfig(""),
		}
		client.http = &http.Client{
			Transport: transport,
			Timeout:   config.ConnectTimeout,
		}
		client.host = config.host()
	}
	return client, nil
}

// Send отправляет уведомления и возвращает результат для каждого из них,
// с идентификатором уведомления в качестве ключа. Пустой список уведомлений
// не является ошибкой и возвращает пустой результат.
//
// Для бинарного протокола возвращаемая ошибка означает, что соединение
// установить не удалось и часть уведомлений осталась неотправленной: для них
// в результатах нет записей. Все остальные исходы отражены в результатах.
func (client *Client) Send(notifications ...*Notification) (map[string]Result, error) {
	results := make(map[string]Result, len(notifications))
	if client.closed {
		return results, ErrClientClosed
	}
	pending := make([]*Notification, 0, len(notifications))
	for _, ntf := range notifications {
		if ntf.ID == "" {
			ntf.ID = uuid.NewString()
		}
		if ntf.Payload == nil {
			results[ntf.ID] = Result{ID: ntf.ID, Err: ErrPayloadEmpty}
			continue
		}
		pending = append(pending, ntf)
	}
	if client.config.Protocol == HTTP2 {
		client.sendHTTP2(pending, results)
		return results, nil
	}
	return client.sendBinary(pending, results)
}

// Close закрывает соединение с сервером. Метод можно вызывать повторно.
func (client *Client) Close() {
	if client.closed {
		return
	}
	client.closed = true
	if client.conn != nil {
		client.conn.Close()
	}
	if client.http != nil {
		client.http.CloseIdleConnections()
	}
}

// sendBinary отправляет уведомления через бинарный протокол. Отправка идет
// сессиями: после каждого ответа сервера с ошибкой соединение становится
// недействительным, неподтвержденные уведомления возвращаются в очередь и
// отправка продолжается в новой сессии с новой нумерацией. Количество
// сессий подряд, в которых сервер не подтвердил и не отклонил ни одного
// уведомления, ограничено: иначе сервер, отвечающий ошибкой с номером вне
// очереди, зациклил бы отправку.
func (client *Client) sendBinary(pending []*Notification, results map[string]Result) (map[string]Result, error) {
	var stalled int
	for len(pending) > 0 {
		if err := client.conn.Connect(); err != nil {
			return results, err
		}
		resolved := len(results)
		pending = client.session(pending, results)
		if len(results) > resolved {
			stalled = 0
			continue
		}
		stalled++
		if stalled > client.config.RetryCount {
			client.log.Errorf("%d sessions without progress, giving up", stalled)
			err := &ProtocolError{Reason: "no session progress"}
			for _, ntf := range pending {
				results[ntf.ID] = Result{ID: ntf.ID, Err: err}
			}
			return results, nil
		}
	}
	return results, nil
}

// session передает уведомления в рамках одного соединения и возвращает
// список уведомлений для повторной передачи в новой сессии.
func (client *Client) session(pending []*Notification, results map[string]Result) []*Notification {
	queue := newSendQueue()
	var buf bytes.Buffer
	for i, ntf := range pending {
		now := time.Now()
		if ntf.expired(now) {
			// устаревшее уведомление не передается и не тратит соединение
			results[ntf.ID] = Result{ID: ntf.ID, Err: ErrNotificationExpired}
			continue
		}
		payload, err := ntf.Payload.Encode()
		if err != nil {
			// ошибка кодирования не подлежит повторной отправке
			results[ntf.ID] = Result{ID: ntf.ID, Err: err}
			continue
		}
		seq := queue.add(ntf)
		buf.Reset()
		writeFrame(&buf, seq, ntf.expiry(now), ntf.token, payload)
		if err := client.conn.Write(buf.Bytes()); err != nil {
			client.log.Errorf("write [%d]: %s", seq, err)
			client.conn.Close()
			return append(queue.takeAll(), pending[i+1:]...)
		}
		client.log.Infof("sent %s [%d] (%d bytes)", ntf.ID, seq, buf.Len())
		time.Sleep(client.config.WriteDelay)
		if requeue, invalid := client.poll(queue, results); invalid {
			return append(requeue, pending[i+1:]...)
		}
	}
	// сервер молчал до конца очереди: все переданное считается доставленным
	for _, ntf := range queue.confirmAll() {
		results[ntf.ID] = Result{ID: ntf.ID, Delivered: true}
	}
	return nil
}

// poll проверяет, не прислал ли сервер ответ с ошибкой. Возвращает признак
// недействительности сессии и уведомления для повторной передачи. Тишина
// сервера в пределах времени ожидания означает лишь "пока доставлено",
// а не подтверждение.
func (client *Client) poll(queue *sendQueue, results map[string]Result) (requeue []*Notification, invalid bool) {
	data, err := client.conn.readFrame(client.config.ReadWait)
	if err == nil && data == nil {
		return nil, false
	}
	// любой ответ сервера делает соединение недействительным
	client.conn.Close()
	if err == nil {
		var frame *errorFrame
		if frame, err = decodeErrorFrame(data); err == nil {
			confirmed, failed, unknown := queue.resolve(frame.Sequence)
			for _, ntf := range confirmed {
				results[ntf.ID] = Result{ID: ntf.ID, Delivered: true}
			}
			if failed != nil {
				results[failed.ID] = Result{ID: failed.ID, Err: frame.deliveryError()}
			}
			client.log.Errorf("server rejected [%d]: %s; %d confirmed, %d to resend",
				frame.Sequence, frame.Reason(), len(confirmed), len(unknown))
			return unknown, true
		}
	}
	// ошибка протокола: подтвердить доставку нельзя ни для одного элемента
	client.log.Errorf("session invalidated: %s", err)
	return queue.takeAll(), true
}
