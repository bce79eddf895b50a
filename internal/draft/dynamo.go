package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/wellvitas/booking-platform/internal/wizard"
	"github.com/wellvitas/booking-platform/pkg/logging"
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(context.Context, *dynamodb.DeleteItemInput, ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// draftRecord is the persisted shape of a draft. ExpiresAt feeds the
// table's TTL attribute so abandoned drafts age out server-side.
type draftRecord struct {
	SessionID string          `dynamodbav:"sessionId"`
	Draft     wizard.Snapshot `dynamodbav:"draft"`
	UpdatedAt string          `dynamodbav:"updatedAt"`
	ExpiresAt int64           `dynamodbav:"expiresAt,omitempty"`
}

// DynamoStore persists drafts to a DynamoDB table keyed by session ID.
type DynamoStore struct {
	client    dynamoAPI
	tableName string
	ttl       time.Duration
	logger    *logging.Logger
	clock     func() time.Time
}

// NewDynamoStore builds a store backed by the provided DynamoDB client.
func NewDynamoStore(client dynamoAPI, tableName string, ttl time.Duration, logger *logging.Logger) *DynamoStore {
	if client == nil {
		panic("draft: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("draft: table name cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		ttl:       ttl,
		logger:    logger,
		clock:     time.Now,
	}
}

func (s *DynamoStore) Save(ctx context.Context, sessionID string, snap wizard.Snapshot) error {
	if sessionID == "" {
		return errors.New("draft: session ID required")
	}
	now := s.clock().UTC()
	record := draftRecord{
		SessionID: sessionID,
		Draft:     snap,
		UpdatedAt: now.Format(time.RFC3339Nano),
	}
	if s.ttl > 0 {
		record.ExpiresAt = now.Add(s.ttl).Unix()
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("draft: failed to marshal draft: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("draft: failed to persist draft: %w", err)
	}
	return nil
}

func (s *DynamoStore) Load(ctx context.Context, sessionID string) (*wizard.Snapshot, error) {
	if sessionID == "" {
		return nil, errors.New("draft: session ID required")
	}
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"sessionId": &types.AttributeValueMemberS{Value: sessionID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("draft: failed to fetch draft: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var record draftRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		// A corrupt draft is treated as absent; the wizard restarts empty.
		s.logger.Debug("discarding undecodable draft", "session", sessionID, "error", err)
		return nil, nil
	}
	if record.ExpiresAt > 0 && s.clock().Unix() > record.ExpiresAt {
		// TTL deletion in DynamoDB is eventual; stale reads stay hidden.
		return nil, nil
	}
	return &record.Draft, nil
}

func (s *DynamoStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("draft: session ID required")
	}
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"sessionId": &types.AttributeValueMemberS{Value: sessionID},
		},
	})
	if err != nil {
		return fmt.Errorf("draft: failed to delete draft: %w", err)
	}
	return nil
}

var _ wizard.DraftStore = (*DynamoStore)(nil)
