package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/wellvitas/booking-platform/pkg/logging"
)

// S3API is the subset of the S3 client used by Archiver.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver writes accepted bookings as JSON objects to S3, one per
// booking, keyed by taster date. The archive is the clinic's audit copy;
// the database remains the operational source.
type Archiver struct {
	bucket   string
	s3Client S3API
	logger   *logging.Logger
}

// NewArchiver creates an Archiver. If bucket is empty, all operations are no-ops.
func NewArchiver(s3Client S3API, bucket string, logger *logging.Logger) *Archiver {
	if logger == nil {
		logger = logging.Default()
	}
	return &Archiver{bucket: bucket, s3Client: s3Client, logger: logger}
}

// Enabled returns true if archival is configured (bucket is set).
func (a *Archiver) Enabled() bool {
	return a != nil && a.bucket != "" && a.s3Client != nil
}

// Archive writes one booking record to S3.
func (a *Archiver) Archive(ctx context.Context, booking *Booking) error {
	if !a.Enabled() {
		return nil
	}

	data, err := json.Marshal(booking)
	if err != nil {
		return fmt.Errorf("booking: marshal archive record: %w", err)
	}

	s3Key := fmt.Sprintf("bookings/v1/by-taster-date/%s/%s.json", booking.TasterDate, booking.ID)
	_, err = a.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(s3Key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("booking: s3 put %s: %w", s3Key, err)
	}

	a.logger.Info("archived booking to S3", "booking_id", booking.ID, "s3_key", s3Key)
	return nil
}
