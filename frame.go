package apns

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Команды бинарного протокола.
const (
	frameSend  uint8 = 1 // отправка уведомления (расширенный формат)
	frameError uint8 = 8 // ответ сервера с ошибкой
)

// errorFrameLength описывает фиксированный размер ответа сервера с ошибкой.
const errorFrameLength = 6

// Статусы, возвращаемые сервером в ответе с ошибкой.
const (
	statusNoErrors           uint8 = 0
	statusProcessingError    uint8 = 1
	statusMissingDeviceToken uint8 = 2
	statusMissingTopic       uint8 = 3
	statusMissingPayload     uint8 = 4
	statusInvalidTokenSize   uint8 = 5
	statusInvalidTopicSize   uint8 = 6
	statusInvalidPayloadSize uint8 = 7
	statusInvalidToken       uint8 = 8
	statusShutdown           uint8 = 10
	statusUnknown            uint8 = 255
)

// statusReasons описывает расшифровку статусов ответа сервера.
var statusReasons = map[uint8]string{
	statusNoErrors:           "no errors encountered",
	statusProcessingError:    "processing error",
	statusMissingDeviceToken: "missing device token",
	statusMissingTopic:       "missing topic",
	statusMissingPayload:     "missing payload",
	statusInvalidTokenSize:   "invalid token size",
	statusInvalidTopicSize:   "invalid topic size",
	statusInvalidPayloadSize: "invalid payload size",
	statusInvalidToken:       "invalid token",
	statusShutdown:           "shutdown",
	statusUnknown:            "unknown",
}

// writeFrame формирует бинарное представление уведомления в расширенном
// формате: команда, номер, время жизни, токен и payload с их длинами.
func writeFrame(buf *bytes.Buffer, seq, expiry uint32, token, payload []byte) {
	binary.Write(buf, binary.BigEndian, frameSend)
	binary.Write(buf, binary.BigEndian, seq)
	binary.Write(buf, binary.BigEndian, expiry)
	binary.Write(buf, binary.BigEndian, uint16(len(token)))
	buf.Write(token)
	binary.Write(buf, binary.BigEndian, uint16(len(payload)))
	buf.Write(payload)
}

// errorFrame описывает ответ сервера бинарного протокола: номер уведомления,
// которое не удалось доставить, и статус с причиной. Все уведомления,
// отправленные до указанного номера, сервер считает принятыми.
type errorFrame struct {
	Command  uint8  // команда ответа (frameError)
	Status   uint8  // код причины
	Sequence uint32 // номер уведомления с ошибкой
}

// decodeErrorFrame разбирает ответ сервера с ошибкой. Неполный ответ
// является ошибкой протокола и делает сессию недействительной. Неизвестная
// команда или код причины разбираются как обычно: причина в этом случае
// считается неизвестной.
func decodeErrorFrame(data []byte) (*errorFrame, error) {
	if len(data) < errorFrameLength {
		return nil, &ProtocolError{
			Reason: fmt.Sprintf("short error frame: %d bytes", len(data)),
		}
	}
	return &errorFrame{
		Command:  data[0],
		Status:   data[1],
		Sequence: binary.BigEndian.Uint32(data[2:6]),
	}, nil
}

// Reason возвращает расшифровку причины ошибки.
func (f *errorFrame) Reason() string {
	if f.Command != frameError {
		return statusReasons[statusUnknown]
	}
	if reason, ok := statusReasons[f.Status]; ok {
		return reason
	}
	return statusReasons[statusUnknown]
}

// DeliveryError описывает отказ сервера доставить конкретное уведомление.
type DeliveryError struct {
	Status   uint8  // код причины из ответа сервера
	Sequence uint32 // номер уведомления в рамках сессии
	reason   string
}

func (f *errorFrame) deliveryError() *DeliveryError {
	return &DeliveryError{
		Status:   f.Status,
		Sequence: f.Sequence,
		reason:   f.Reason(),
	}
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("apns delivery [%d]: %s", e.Sequence, e.reason)
}
