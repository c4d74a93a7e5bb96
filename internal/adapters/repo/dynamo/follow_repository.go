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

type followItem struct {
	PK         string `dynamodbav:"pk"`
	SK         string `dynamodbav:"sk"`
	ID         string `dynamodbav:"id"`
	FollowerID string `dynamodbav:"followerId"`
	FolloweeID string `dynamodbav:"followeeId"`
	CreatedAt  string `dynamodbav:"createdAt"`
}

// Follow edges are stored twice, once per direction, so both follower and
// followee counts are partition queries.
func followKeys(followerID, followeeID string) [][2]string {
	return [][2]string{
		{"FOLLOWING#" + followerID, "USER#" + followeeID},
		{"FOLLOWERS#" + followeeID, "USER#" + followerID},
	}
}

type FollowRepository struct {
	store *Store
}

func NewFollowRepository(store *Store) *FollowRepository {
	return &FollowRepository{store: store}
}

func (r *FollowRepository) Create(ctx context.Context, follow *domain.Follow) error {
	for _, key := range followKeys(follow.FollowerID, follow.FolloweeID) {
		item, err := attributevalue.MarshalMap(followItem{
			PK:         key[0],
			SK:         key[1],
			ID:         follow.ID,
			FollowerID: follow.FollowerID,
			FolloweeID: follow.FolloweeID,
			CreatedAt:  formatTime(follow.CreatedAt),
		})
		if err != nil {
			return fmt.Errorf("marshaling follow item: %w", err)
		}
		_, err = r.store.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(r.store.table),
			Item:      item,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followeeID string) error {
	for _, key := range followKeys(followerID, followeeID) {
		_, err := r.store.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.store.table),
			Key: map[string]types.AttributeValue{
				"pk": &types.AttributeValueMemberS{Value: key[0]},
				"sk": &types.AttributeValueMemberS{Value: key[1]},
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *FollowRepository) Find(ctx context.Context, followerID, followeeID string) (*domain.Follow, error) {
	key := followKeys(followerID, followeeID)[0]
	out, err := r.store.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.store.table),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: key[0]},
			"sk": &types.AttributeValueMemberS{Value: key[1]},
		},
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, nil
	}

	var record followItem
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshaling follow item: %w", err)
	}
	return &domain.Follow{
		ID:         record.ID,
		FollowerID: record.FollowerID,
		FolloweeID: record.FolloweeID,
		CreatedAt:  parseTime(record.CreatedAt),
	}, nil
}

func (r *FollowRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return r.countPartition(ctx, "FOLLOWERS#"+userID)
}

func (r *FollowRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	return r.countPartition(ctx, "FOLLOWING#"+userID)
}

func (r *FollowRepository) countPartition(ctx context.Context, pk string) (int64, error) {
	paginator := dynamodb.NewQueryPaginator(r.store.client, &dynamodb.QueryInput{
		TableName:                aws.String(r.store.table),
		KeyConditionExpression:   aws.String("#pk = :pk"),
		ExpressionAttributeNames: map[string]string{"#pk": "pk"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: pk},
		},
		Select: types.SelectCount,
	})

	var count int64
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, err
		}
		count += int64(out.Count)
	}
	return count, nil
}
