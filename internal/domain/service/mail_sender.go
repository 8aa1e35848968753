package service

import "context"

// MailSender is the external notification boundary. Delivery is best-effort:
// callers on a request path invoke it out of band and only log failures.
type MailSender interface {
	// Send delivers one mail. body is plain text; htmlBody may be empty,
	// in which case a minimal HTML rendering of body is used.
	Send(ctx context.Context, to, subject, body, htmlBody string) error
}
