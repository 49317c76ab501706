package apns

import (
	"bytes"
	"net/http"
	"strconv"
	"time"
)

// sendHTTP2 delivers notifications over the provider API. Every notification
// is an independent request with its own synchronous response, so a failure
// affects no other notification and no queue reconciliation is needed.
func (client *Client) sendHTTP2(pending []*Notification, results map[string]Result) {
	for _, ntf := range pending {
		now := time.Now()
		if ntf.expired(now) {
			results[ntf.ID] = Result{ID: ntf.ID, Err: ErrNotificationExpired}
			continue
		}
		payload, err := ntf.Payload.Encode()
		if err != nil {
			results[ntf.ID] = Result{ID: ntf.ID, Err: err}
			continue
		}
		if err := client.push(ntf, payload, now); err != nil {
			client.log.Errorf("push %s: %s", ntf.ID, err)
			results[ntf.ID] = Result{ID: ntf.ID, Err: err}
			continue
		}
		client.log.Infof("pushed %s (%d bytes)", ntf.ID, len(payload))
		results[ntf.ID] = Result{ID: ntf.ID, Delivered: true}
	}
}

// push sends a single notification request and reads its response.
func (client *Client) push(ntf *Notification, payload []byte, now time.Time) error {
	req, err := http.NewRequest(http.MethodPost,
		client.host+"/3/device/"+ntf.Token(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("apns-id", ntf.ID)
	if expiry := ntf.expiry(now); expiry > 0 {
		req.Header.Set("apns-expiration", strconv.FormatUint(uint64(expiry), 10))
	}
	if priority := ntf.priority(); priority > 0 {
		req.Header.Set("apns-priority", strconv.Itoa(int(priority)))
	}
	if ntf.Topic != "" {
		req.Header.Set("apns-topic", ntf.Topic)
	}
	if ntf.PushType != "" {
		req.Header.Set("apns-push-type", ntf.PushType)
	}
	if ntf.CollapseID != "" {
		req.Header.Set("apns-collapse-id", ntf.CollapseID)
	}
	if pt := client.config.ProviderToken; pt != nil {
		bearer, err := pt.Bearer()
		if err != nil {
			return err
		}
		req.Header.Set("authorization", "bearer "+bearer)
	}
	resp, err := client.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	return decodeError(resp.StatusCode, resp.Body)
}
