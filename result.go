package apns

// Result describes the outcome of delivering a single notification.
//
// On the binary transport a delivered result means "presumed delivered": the
// protocol never confirms success directly, the client derives it from the
// server's silence or from the ordering guarantee of an error frame.
type Result struct {
	ID        string // notification identifier
	Delivered bool   // true when the notification is considered delivered
	Err       error  // rejection or validation failure, nil on success
}
