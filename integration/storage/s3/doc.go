// Package s3 reads policy documents stored in Amazon S3 or an S3-compatible
// service.
//
// Documents are addressed as s3://bucket/key:
//
//	reader, err := s3.New(ctx, s3.Config{Region: "eu-central-1"})
//	if err != nil {
//		// Handle configuration error
//	}
//	data, err := reader.Read(ctx, "s3://policies/returns.txt")
//	switch {
//	case errors.Is(err, s3.ErrObjectNotFound):
//		// Wrong key
//	case errors.Is(err, s3.ErrAccessDenied):
//		// Credentials lack s3:GetObject
//	}
//
// MinIO and similar services need Endpoint and ForcePathStyle. Objects larger
// than Config.MaxObjectSize (5 MiB by default) are rejected rather than
// silently truncated.
package s3
