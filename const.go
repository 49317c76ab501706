package apns

import "time"

// Адреса APNS серверов для бинарного протокола и feedback сервиса.
const (
	ServerBinary          = "gateway.push.apple.com:2195"
	ServerBinarySandbox   = "gateway.sandbox.push.apple.com:2195"
	ServerFeedback        = "feedback.push.apple.com:2196"
	ServerFeedbackSandbox = "feedback.sandbox.push.apple.com:2196"
)

// Адреса APNS серверов для HTTP/2 протокола.
const (
	ServerHTTP2        = "https://api.push.apple.com"
	ServerHTTP2Sandbox = "https://api.development.push.apple.com"
)

// Используемые по умолчанию времена задержек и ожиданий.
const (
	// DefaultConnectTimeout указывает время ожидания установки соединения.
	DefaultConnectTimeout = 30 * time.Second
	// DefaultWriteDelay описывает паузу после записи каждого уведомления.
	DefaultWriteDelay = 10 * time.Millisecond
	// DefaultReadWait описывает время ожидания error frame после отправки.
	DefaultReadWait = 50 * time.Millisecond
	// DefaultRetryDelay описывает задержку между попытками соединения.
	DefaultRetryDelay = time.Second
	// DefaultRetryCount описывает количество повторных попыток соединения
	// после первой неудачной.
	DefaultRetryCount = 3
)

// MaxPayloadSize описывает максимально допустимую длину для payload
// уведомления в байтах.
const MaxPayloadSize = 4096

// Приоритеты отправки уведомлений.
const (
	PriorityLow  uint8 = 5  // доставка с учетом энергосбережения устройства
	PriorityHigh uint8 = 10 // немедленная доставка
)
