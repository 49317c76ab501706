package apns

import (
	"encoding/hex"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Типы push-уведомлений, передаваемые в заголовке apns-push-type.
const (
	PushTypeAlert      = "alert"
	PushTypeBackground = "background"
	PushTypeVoIP       = "voip"
)

// tokenFormat описывает допустимый формат токена устройства: строка
// в шестнадцатеричном представлении длиной не менее 64 символов. Нечетная
// длина не проходит декодирование: токен передается целыми байтами.
var tokenFormat = regexp.MustCompile(`^[0-9a-fA-F]{64,}$`)

// Notification описывает уведомление для отправки на одно устройство.
// Для рассылки одного и того же содержимого на несколько устройств
// создавайте отдельные уведомления с общим Payload.
type Notification struct {
	ID         string        // уникальный идентификатор (UUID)
	Payload    *Payload      // содержимое уведомления
	Expiration time.Duration // время жизни с момента отправки
	Priority   uint8         // приоритет: PriorityLow или PriorityHigh
	Topic      string        // topic приложения (bundle id)
	CollapseID string        // идентификатор для замещения уведомлений
	PushType   string        // тип уведомления для заголовка apns-push-type

	token     []byte    // токен устройства в бинарном виде
	expiresAt time.Time // абсолютное время жизни, вычисляется при отправке
}

// NewNotification возвращает новое уведомление для устройства с указанным
// токеном. Если токен не соответствует формату, возвращается
// ErrBadDeviceToken. Идентификатор уведомления генерируется автоматически и
// может быть заменен до отправки.
func NewNotification(token string, payload *Payload) (*Notification, error) {
	if !tokenFormat.MatchString(token) {
		return nil, ErrBadDeviceToken
	}
	binToken, err := hex.DecodeString(token)
	if err != nil {
		return nil, ErrBadDeviceToken
	}
	return &Notification{
		ID:      uuid.NewString(),
		Payload: payload,
		token:   binToken,
	}, nil
}

// Token возвращает строковое представление токена устройства.
func (ntf *Notification) Token() string { return hex.EncodeToString(ntf.token) }

// expiry возвращает время, до которого уведомление актуально, в формате
// unix-времени. Абсолютное время вычисляется один раз, при первой отправке,
// и не сдвигается при повторной постановке в очередь. Нулевое значение
// означает, что сервер не должен хранить уведомление для повторной доставки.
func (ntf *Notification) expiry(now time.Time) uint32 {
	if ntf.Expiration <= 0 {
		return 0
	}
	if ntf.expiresAt.IsZero() {
		ntf.expiresAt = now.Add(ntf.Expiration)
	}
	return uint32(ntf.expiresAt.Unix())
}

// expired возвращает true, если время жизни уведомления уже истекло.
func (ntf *Notification) expired(now time.Time) bool {
	return !ntf.expiresAt.IsZero() && ntf.expiresAt.Before(now)
}

// priority возвращает приоритет уведомления, если он корректно установлен.
func (ntf *Notification) priority() uint8 {
	if ntf.Priority == PriorityLow || ntf.Priority == PriorityHigh {
		return ntf.Priority
	}
	return 0
}
