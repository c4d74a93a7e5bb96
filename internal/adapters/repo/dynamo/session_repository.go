package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/clipdeck/internal/core/domain"
)

type sessionItem struct {
	PK        string `dynamodbav:"pk"`
	SK        string `dynamodbav:"sk"`
	ID        string `dynamodbav:"id"`
	UserID    string `dynamodbav:"userId"`
	ExpiresAt string `dynamodbav:"expiresAt"`
	CreatedAt string `dynamodbav:"createdAt"`
	TTL       int64  `dynamodbav:"ttl"`
}

func sessionKey(id string) (string, string) {
	return "SESSION#" + id, "SESSION#" + id
}

type SessionRepository struct {
	store *Store
}

func NewSessionRepository(store *Store) *SessionRepository {
	return &SessionRepository{store: store}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	pk, sk := sessionKey(session.ID)
	item, err := attributevalue.MarshalMap(sessionItem{
		PK:        pk,
		SK:        sk,
		ID:        session.ID,
		UserID:    session.UserID,
		ExpiresAt: formatTime(session.ExpiresAt),
		CreatedAt: formatTime(session.CreatedAt),
		// the table's TTL attribute reaps rows the app never touches again
		TTL: session.ExpiresAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshaling session item: %w", err)
	}

	_, err = r.store.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.store.table),
		Item:      item,
	})
	return err
}

func (r *SessionRepository) Find(ctx context.Context, id string) (*domain.Session, error) {
	pk, sk := sessionKey(id)
	out, err := r.store.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.store.table),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: pk},
			"sk": &types.AttributeValueMemberS{Value: sk},
		},
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, nil
	}

	var record sessionItem
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshaling session item: %w", err)
	}
	return &domain.Session{
		ID:        record.ID,
		UserID:    record.UserID,
		ExpiresAt: parseTime(record.ExpiresAt),
		CreatedAt: parseTime(record.CreatedAt),
	}, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	pk, sk := sessionKey(id)
	_, err := r.store.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.store.table),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: pk},
			"sk": &types.AttributeValueMemberS{Value: sk},
		},
	})
	return err
}
