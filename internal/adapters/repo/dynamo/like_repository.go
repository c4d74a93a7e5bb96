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

type likeItem struct {
	PK        string `dynamodbav:"pk"`
	SK        string `dynamodbav:"sk"`
	ID        string `dynamodbav:"id"`
	UserID    string `dynamodbav:"userId"`
	VideoID   string `dynamodbav:"videoId"`
	CreatedAt string `dynamodbav:"createdAt"`
}

func likeKey(userID, videoID string) (string, string) {
	return "LIKE#" + userID, "VIDEO#" + videoID
}

type LikeRepository struct {
	store *Store
}

func NewLikeRepository(store *Store) *LikeRepository {
	return &LikeRepository{store: store}
}

// Create uses a conditional put so the (user, video) pair stays unique, the
// same job the relational unique index does.
func (r *LikeRepository) Create(ctx context.Context, like *domain.Like) error {
	pk, sk := likeKey(like.UserID, like.VideoID)
	item, err := attributevalue.MarshalMap(likeItem{
		PK:        pk,
		SK:        sk,
		ID:        like.ID,
		UserID:    like.UserID,
		VideoID:   like.VideoID,
		CreatedAt: formatTime(like.CreatedAt),
	})
	if err != nil {
		return fmt.Errorf("marshaling like item: %w", err)
	}

	_, err = r.store.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.store.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(pk)"),
	})
	return err
}

func (r *LikeRepository) Delete(ctx context.Context, userID, videoID string) error {
	pk, sk := likeKey(userID, videoID)
	_, err := r.store.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.store.table),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: pk},
			"sk": &types.AttributeValueMemberS{Value: sk},
		},
	})
	return err
}

func (r *LikeRepository) Find(ctx context.Context, userID, videoID string) (*domain.Like, error) {
	pk, sk := likeKey(userID, videoID)
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

	var record likeItem
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshaling like item: %w", err)
	}
	return &domain.Like{
		ID:        record.ID,
		UserID:    record.UserID,
		VideoID:   record.VideoID,
		CreatedAt: parseTime(record.CreatedAt),
	}, nil
}

// ListVideoIDs checks each candidate with a point read; feed pages cap at 50
// ids so the fan-out is bounded.
func (r *LikeRepository) ListVideoIDs(ctx context.Context, userID string, videoIDs []string) ([]string, error) {
	var liked []string
	for _, videoID := range videoIDs {
		like, err := r.Find(ctx, userID, videoID)
		if err != nil {
			return nil, err
		}
		if like != nil {
			liked = append(liked, videoID)
		}
	}
	return liked, nil
}
