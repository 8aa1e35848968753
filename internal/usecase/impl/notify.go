package impl

import (
	"context"
	"log/slog"
	"time"

	"storefront/internal/domain/service"
)

const mailSendTimeout = 10 * time.Second

// notifyAsync delivers one mail out of band. Mail is best-effort everywhere
// in this application: failures are logged and never surfaced to the caller,
// and the send outlives the originating request.
func notifyAsync(ctx context.Context, logger *slog.Logger, sender service.MailSender, to, subject, body, htmlBody string) {
	go func() {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mailSendTimeout)
		defer cancel()

		if err := sender.Send(sendCtx, to, subject, body, htmlBody); err != nil {
			logger.Error("Failed to send mail",
				slog.String("subject", subject),
				slog.Any("error", err))
		}
	}()
}
