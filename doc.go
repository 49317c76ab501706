// Package apns implements a delivery engine for the Apple Push Notification
// service.
//
// The service accepts notifications over two transports. The legacy binary
// protocol keeps a persistent TLS stream open and never confirms delivery:
// the server stays silent while everything is fine and reports a single
// 6-byte error frame when a notification is rejected, implicitly confirming
// everything sent before it. The modern HTTP/2 provider API acknowledges
// every request individually.
//
// The Client hides the difference behind one Send call. On the binary
// transport it numbers every transmitted notification, polls the stream for
// error frames and reconciles the send queue after a failure: notifications
// before the failed sequence are confirmed, the failed one is reported with
// its decoded reason, and everything after it is retransmitted on a fresh
// connection, since its fate is unknowable. On the HTTP/2 transport every
// notification maps directly to one request and one response.
//
// Authentication uses either a provider certificate (.p12 or PEM) or a
// provider token signed with an ES256 key obtained from the developer
// account.
package apns
