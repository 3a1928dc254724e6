package s3

// Config contains connection settings for the object store holding policy
// documents. Static credentials are optional; without them the default AWS
// credential chain is used.
type Config struct {
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	Endpoint       string `env:"S3_ENDPOINT"`                             // For S3-compatible services like MinIO
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"` // Required for MinIO
	MaxObjectSize  int64  `env:"S3_MAX_OBJECT_SIZE" envDefault:"5242880"`
}
