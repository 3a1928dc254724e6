// Package policy loads store-policy documents and joins them into the single
// text block placed in generation prompts.
//
// Every document is followed by Delimiter, so two files "A" and "B" become
// "A\n\n---\n\nB\n\n---\n\n". Files that are not UTF-8 text are skipped and
// reported instead of failing the whole load:
//
//	loader := policy.NewLoader(policy.WithObjectReader(s3Reader))
//	docs, skipped, err := loader.Load(ctx, "returns.txt", "s3://policies/shipping.md")
//	if err != nil {
//		return err
//	}
//	for _, s := range skipped {
//		log.Warn("policy skipped", "name", s.Name, "reason", s.Reason)
//	}
//	text := policy.Join(docs)
package policy
