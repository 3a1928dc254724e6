package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailprobe/core/logger"
	"github.com/dmitrymomot/mailprobe/pkg/policy"
	"github.com/dmitrymomot/mailprobe/svc/testmail"
)

type sendFlags struct {
	store       string
	recipient   string
	order       string
	locale      string
	count       int
	policies    []string
	requireBody bool
	showReply   bool
}

func newSendCmd(a *app) *cobra.Command {
	var f sendFlags

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Run one generation and deliver the emails",
		Example: `  mailprobe send --store SuperStore --recipient support@example.com --order "#12345" \
    --locale Polski --count 3 --policy returns.txt --policy s3://policies/shipping.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.requireBody {
				a.cfg.RequireBody = true
			}
			return a.runSend(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.store, "store", "", "store name used in the prompt")
	fl.StringVar(&f.recipient, "recipient", "", "mailbox that receives the generated emails")
	fl.StringVar(&f.order, "order", "", "order number the emails refer to")
	fl.StringVar(&f.locale, "locale", "", "locale name or language tag (default English)")
	fl.IntVar(&f.count, "count", testmail.DefaultEmailCount, "number of emails to ask for")
	fl.StringArrayVar(&f.policies, "policy", nil, "policy document path or s3://bucket/key, repeatable")
	fl.BoolVar(&f.requireBody, "require-body", false, "drop generated emails with an empty body")
	fl.BoolVar(&f.showReply, "show-reply", false, "print the normalized model reply")

	return cmd
}

func (a *app) runSend(cmd *cobra.Command, f sendFlags) error {
	ctx := cmd.Context()

	svc, err := a.newService(ctx, nil)
	if err != nil {
		return err
	}

	loader, err := a.newPolicyLoader(ctx, f.policies)
	if err != nil {
		return err
	}
	docs, skipped, err := loader.Load(ctx, f.policies...)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, s := range skipped {
		a.log.WarnContext(ctx, "policy document skipped",
			logger.Action("send"),
			logger.Key("document", s.Name),
			logger.Key("reason", s.Reason),
		)
		fmt.Fprintf(out, "skipped %s: %s\n", s.Name, s.Reason)
	}

	req := testmail.GenerationRequest{
		StoreName:   f.store,
		Recipient:   f.recipient,
		OrderNumber: f.order,
		Locale:      f.locale,
		NumEmails:   f.count,
		PolicyText:  policy.Join(docs),
	}
	report, err := svc.Run(ctx, req, func(p testmail.Progress) {
		printProgress(out, p)
	})
	if err != nil {
		if raw, ok := testmail.RawResponse(err); ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "model reply:\n%s\n", raw)
		}
		return err
	}

	if f.showReply {
		fmt.Fprintf(out, "model reply:\n%s\n", report.Response)
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(out, "dropped item %d: %s\n", w.Index, w.Reason)
	}
	if report.LocaleFallback && f.locale != "" {
		fmt.Fprintf(out, "locale %q is not supported, used %s\n", f.locale, report.Locale.Name)
	}
	fmt.Fprintln(out, report.Summary)
	return nil
}

func printProgress(w io.Writer, p testmail.Progress) {
	status := "sent"
	if !p.Result.Sent {
		status = "failed: " + p.Result.Error
	}
	fmt.Fprintf(w, "[%d/%d] %s (%s)\n", p.Done, p.Total, p.Result.Email.Subject, status)
}
