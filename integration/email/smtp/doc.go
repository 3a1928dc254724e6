// Package smtp provides an SMTP implementation of email.EmailSender and
// email.SessionOpener.
//
// The default configuration targets a submission relay with implicit TLS
// (port 465) and authenticates with the mail account address and its
// credential. Messages are plain text: From, To, Subject (RFC 2047 encoded),
// Date, Message-ID and a quoted-printable UTF-8 body.
//
// Basic usage:
//
//	client, err := smtp.New(smtp.Config{
//		Host:     "smtp.gmail.com",
//		Port:     465,
//		Username: "team@example.com",
//		Password: "app-password",
//		TLSMode:  smtp.TLSModeImplicit,
//	})
//	if err != nil {
//		// Handle configuration error
//	}
//
//	err = client.SendEmail(ctx, email.SendEmailParams{
//		SendTo:   "support@example.com",
//		Subject:  "Question about order ORD/123/2025",
//		BodyText: "Hello, ...",
//	})
//
// # Sessions
//
// SendEmail opens and closes a connection per message. For a batch, open
// one session and reuse it:
//
//	sess, err := client.OpenSession(ctx)
//	if err != nil {
//		return err
//	}
//	defer sess.Close()
//
//	for _, p := range batch {
//		if err := sess.SendEmail(ctx, p); err != nil {
//			// the session stays usable; record the failure and continue
//		}
//	}
//
// A rejected message is followed by RSET. A broken connection is dropped
// and redialed transparently on the next send.
//
// # TLS Modes
//
//   - "tls": implicit TLS (port 465), the default
//   - "starttls": plain connection upgraded with STARTTLS (port 587)
//   - "plain": no encryption; net/smtp only allows PLAIN auth over it for localhost
package smtp
