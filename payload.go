package apns

import (
	"bytes"
	"encoding/json"
)

// apsKey is the top-level key reserved by Apple for the notification
// presentation fields. User data may not use it.
const apsKey = "aps"

// Payload describes the content of a notification. Zero-valued fields are
// left out of the encoded form; Badge is only included when set explicitly
// with SetBadge, since zero is a meaningful value that clears the badge on
// the device.
type Payload struct {
	Alert            string // alert text
	Title            string // optional alert title
	Sound            string // sound file name
	Category         string // notification category for actionable buttons
	ThreadID         string // identifier for grouping notifications
	ContentAvailable bool   // wake up the application in background
	MutableContent   bool   // allow the service extension to modify content

	// AutoAdjust enables shrinking of the alert text, one code point at a
	// time, until an oversized payload fits into MaxPayloadSize.
	AutoAdjust bool

	badge    int
	hasBadge bool
	custom   map[string]interface{}
}

// SetBadge sets the badge number displayed on the application icon. Zero
// removes the badge.
func (p *Payload) SetBadge(badge int) {
	p.badge = badge
	p.hasBadge = true
}

// Set adds a custom user key to the payload. The aps key is reserved and is
// rejected here, at set time, so that encoding never has to check for it.
func (p *Payload) Set(key string, value interface{}) error {
	if key == apsKey {
		return ErrReservedKey
	}
	if p.custom == nil {
		p.custom = make(map[string]interface{})
	}
	p.custom[key] = value
	return nil
}

// Get returns a previously set custom user key.
func (p *Payload) Get(key string) (interface{}, bool) {
	value, ok := p.custom[key]
	return value, ok
}

// aps returns the reserved dictionary with the given alert text. The empty
// dictionary is valid: a content-available push carries no visible fields at
// all, but the aps key itself must still encode as an object.
func (p *Payload) aps(alert string) map[string]interface{} {
	aps := make(map[string]interface{})
	switch {
	case alert != "" && p.Title != "":
		aps["alert"] = map[string]string{"title": p.Title, "body": alert}
	case alert != "":
		aps["alert"] = alert
	}
	if p.hasBadge {
		aps["badge"] = p.badge
	}
	if p.Sound != "" {
		aps["sound"] = p.Sound
	}
	if p.Category != "" {
		aps["category"] = p.Category
	}
	if p.ThreadID != "" {
		aps["thread-id"] = p.ThreadID
	}
	if p.ContentAvailable {
		aps["content-available"] = 1
	}
	if p.MutableContent {
		aps["mutable-content"] = 1
	}
	return aps
}

// encode serializes the payload with the given alert text into compact JSON
// without escaping Unicode characters.
func (p *Payload) encode(alert string) ([]byte, error) {
	obj := make(map[string]interface{}, len(p.custom)+1)
	for key, value := range p.custom {
		obj[key] = value
	}
	obj[apsKey] = p.aps(alert)
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(obj); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Encode returns the serialized payload. If the result exceeds
// MaxPayloadSize and AutoAdjust is enabled, the alert text is shrunk one
// code point at a time until the payload fits; no other field is ever
// touched. With AutoAdjust disabled, or with no alert text left to shrink,
// a PayloadSizeError is returned.
func (p *Payload) Encode() ([]byte, error) {
	data, err := p.encode(p.Alert)
	if err != nil {
		return nil, err
	}
	if len(data) <= MaxPayloadSize {
		return data, nil
	}
	if !p.AutoAdjust {
		return nil, &PayloadSizeError{Size: len(data), Max: MaxPayloadSize}
	}
	if p.Alert == "" {
		return nil, ErrNoAlertToTruncate
	}
	// shrink by runes, not bytes, so the truncated text stays valid UTF-8
	alert := []rune(p.Alert)
	for len(alert) > 0 {
		alert = alert[:len(alert)-1]
		data, err = p.encode(string(alert))
		if err != nil {
			return nil, err
		}
		if len(data) <= MaxPayloadSize {
			return data, nil
		}
	}
	return nil, &PayloadSizeError{Size: len(data), Max: MaxPayloadSize}
}
