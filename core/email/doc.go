// Package email defines the contract between the application and mail
// relays, plus a development sender that writes messages to disk.
//
// Messages are plain text. A sender only needs to implement EmailSender:
//
//	type EmailSender interface {
//		SendEmail(ctx context.Context, params SendEmailParams) error
//	}
//
// Senders that keep an authenticated connection open for a whole batch also
// implement SessionOpener. Callers open one Session, send every message
// through it and close it on every exit path:
//
//	if opener, ok := sender.(email.SessionOpener); ok {
//		sess, err := opener.OpenSession(ctx)
//		if err != nil {
//			return err
//		}
//		defer sess.Close()
//		for _, p := range batch {
//			_ = sess.SendEmail(ctx, p)
//		}
//	}
//
// # Development Mode
//
//	sender := email.NewDevSender("./dev_emails")
//	err := sender.SendEmail(ctx, email.SendEmailParams{
//		SendTo:   "support@example.com",
//		Subject:  "Where is my order ORD/123/2025?",
//		BodyText: "Hello, ...",
//	})
//	// ./dev_emails/2025_01_15_143052_001_where_is_my_order_ord1232025.txt
//	// ./dev_emails/2025_01_15_143052_001_where_is_my_order_ord1232025.json
//
// # Error Handling
//
//	switch {
//	case errors.Is(err, email.ErrInvalidParams):
//		// the message itself is unusable
//	case errors.Is(err, email.ErrFailedToSendEmail):
//		// relay or network failure
//	}
package email
