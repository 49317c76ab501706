package apns

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"time"
)

// Feedback осуществляет соединение с feedback сервером и возвращает список
// токенов устройств, на которые доставка больше невозможна. После чтения
// всего списка соединение автоматически закрывается. Полученные токены
// следует исключить из последующих рассылок.
func Feedback(config *Config) ([]*FeedbackResponse, error) {
	config.withDefaults()
	conn, err := config.Dial(config.feedback())
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var (
		result = make([]*FeedbackResponse, 0)
		header = make([]byte, 6)
	)
	for {
		if _, err = io.ReadFull(conn, header); err != nil {
			if err == io.EOF {
				err = nil
			}
			return result, err
		}
		var (
			tokenSize   = int(binary.BigEndian.Uint16(header[4:6]))
			tokenBuffer = make([]byte, tokenSize)
		)
		if _, err = io.ReadFull(conn, tokenBuffer); err != nil {
			if err == io.EOF {
				err = nil
			}
			return result, err
		}
		result = append(result, &FeedbackResponse{
			timestamp: binary.BigEndian.Uint32(header[0:4]),
			Token:     tokenBuffer,
		})
	}
}

// FeedbackResponse описывает формат элемента ответа от feedback сервера.
type FeedbackResponse struct {
	timestamp uint32
	Token     []byte
}

// String возвращает строковое представление токена.
func (fr *FeedbackResponse) String() string { return hex.EncodeToString(fr.Token) }

// Time возвращает время, когда сервис установил, что доставка на данный
// токен больше невозможна.
func (fr *FeedbackResponse) Time() time.Time { return time.Unix(int64(fr.timestamp), 0) }
