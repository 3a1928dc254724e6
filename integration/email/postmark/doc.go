// Package postmark implements email.EmailSender on top of Postmark's
// transactional API. It is the alternative relay for environments where
// SMTP submission is blocked.
//
//	sender, err := postmark.New(postmark.Config{
//		ServerToken: "server-token",
//		SenderEmail: "team@example.com",
//	})
//	if err != nil {
//		// Handle configuration error
//	}
//
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//		SendTo:   "support@example.com",
//		Subject:  "Question about my order",
//		BodyText: "Hello, ...",
//	})
//
// API-level failures (non-zero Postmark error codes) are returned wrapped in
// email.ErrFailedToSendEmail together with the code and message.
package postmark
