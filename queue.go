package apns

// queueEntry описывает переданное в рамках сессии уведомление с назначенным
// ему номером. Судьба уведомления неизвестна до тех пор, пока сервер либо не
// пришлет ответ с ошибкой, либо сессия не завершится без ошибок.
type queueEntry struct {
	seq uint32
	ntf *Notification
}

// sendQueue хранит отправленные, но еще не подтвержденные уведомления
// текущей сессии в порядке их номеров. Нумерация начинается заново для
// каждой сессии: после переподключения уведомления получают новые номера.
type sendQueue struct {
	entries []*queueEntry
	lastSeq uint32
}

func newSendQueue() *sendQueue {
	return &sendQueue{entries: make([]*queueEntry, 0, 64)}
}

// add назначает уведомлению следующий номер и запоминает его как
// отправленное без подтверждения.
func (q *sendQueue) add(ntf *Notification) uint32 {
	q.lastSeq++
	q.entries = append(q.entries, &queueEntry{seq: q.lastSeq, ntf: ntf})
	return q.lastSeq
}

// resolve разбирает очередь по номеру уведомления с ошибкой: все элементы
// до него доставлены (протокол гарантирует доставку по порядку до первой
// ошибки), сам элемент отклонен, а все элементы после него были отправлены
// до того, как сервер сообщил об ошибке, и их судьба неизвестна - они
// подлежат повторной отправке в новой сессии.
func (q *sendQueue) resolve(seq uint32) (confirmed []*Notification, failed *Notification, unknown []*Notification) {
	for _, entry := range q.entries {
		switch {
		case entry.seq < seq:
			confirmed = append(confirmed, entry.ntf)
		case entry.seq == seq:
			failed = entry.ntf
		default:
			unknown = append(unknown, entry.ntf)
		}
	}
	q.entries = q.entries[:0]
	return confirmed, failed, unknown
}

// takeAll возвращает все неподтвержденные уведомления и очищает очередь.
// Используется, когда сессия завершилась ошибкой протокола и подтвердить
// доставку нельзя ни для одного элемента.
func (q *sendQueue) takeAll() []*Notification {
	unconfirmed := make([]*Notification, len(q.entries))
	for i, entry := range q.entries {
		unconfirmed[i] = entry.ntf
	}
	q.entries = q.entries[:0]
	return unconfirmed
}

// confirmAll возвращает все уведомления очереди как доставленные. Вызывается
// при нормальном завершении сессии: сервер не прислал ни одного ответа с
// ошибкой, значит все переданные уведомления считаются принятыми.
func (q *sendQueue) confirmAll() []*Notification {
	return q.takeAll()
}
