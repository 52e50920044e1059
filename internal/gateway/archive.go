package gateway

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3Putter is the slice of the S3 API the archiver needs.
type s3Putter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver stores raw webhook payloads in S3 for dispute handling. Archival
// is best-effort and runs after the webhook has been verified; a failed
// upload is logged and the delivery still processes.
type Archiver struct {
	client s3Putter
	bucket string
	prefix string
	logger *slog.Logger
	now    func() time.Time
}

// NewArchiver constructs an S3 payload archiver. An empty bucket disables it.
func NewArchiver(client s3Putter, bucket, prefix string, logger *slog.Logger) *Archiver {
	return &Archiver{client: client, bucket: bucket, prefix: prefix, logger: logger, now: time.Now}
}

// Store uploads the raw payload keyed by session ID and receipt time.
func (a *Archiver) Store(ctx context.Context, sessionID string, payload []byte) {
	if a == nil || a.bucket == "" || a.client == nil {
		return
	}
	key := fmt.Sprintf("%s%s/%s.json", a.prefix, sessionID, a.now().UTC().Format(time.RFC3339))
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		a.logger.WarnContext(ctx, "webhook payload archive failed", "session_id", sessionID, "error", err)
	}
}
