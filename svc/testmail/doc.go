// Package testmail generates batches of realistic customer emails with a
// language model and delivers them to a mailbox under test.
//
// A run goes through fixed stages: the locale picks a prompt template from
// the Registry, BuildPrompt fills it from a GenerationRequest, the Generator
// is called once, Normalize strips a code fence from the reply, and
// ValidateBatch keeps the well-formed {subject, body} objects. The survivors
// are handed to a Dispatcher, which sends them one by one over a single
// relay session when the sender supports it.
//
// Whole-run failures surface as typed errors matched with errors.Is against
// the package sentinels; Kind maps them to short labels for logs, metrics
// and HTTP error codes. Failures of individual emails never abort a run and
// are listed in the DispatchReport instead.
//
//	svc, err := testmail.NewService(testmail.MustDefaultRegistry(), gen, sender,
//		testmail.WithLogger(log),
//		testmail.WithProvider("google"),
//	)
//	if err != nil {
//		return err
//	}
//	report, err := svc.Run(ctx, req, nil)
//
// Handler exposes the same pipeline over HTTP: GET /locales and a form-based
// POST /runs that accepts uploaded policy documents.
package testmail
