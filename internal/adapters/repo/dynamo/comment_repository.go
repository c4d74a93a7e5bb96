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

type commentItem struct {
	PK        string `dynamodbav:"pk"`
	SK        string `dynamodbav:"sk"`
	ID        string `dynamodbav:"id"`
	UserID    string `dynamodbav:"userId"`
	VideoID   string `dynamodbav:"videoId"`
	Body      string `dynamodbav:"body"`
	CreatedAt string `dynamodbav:"createdAt"`
}

type CommentRepository struct {
	store *Store
}

func NewCommentRepository(store *Store) *CommentRepository {
	return &CommentRepository{store: store}
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	// the timestamped sort key makes a partition query come back oldest first
	item, err := attributevalue.MarshalMap(commentItem{
		PK:        "COMMENTS#" + comment.VideoID,
		SK:        formatTime(comment.CreatedAt) + "#" + comment.ID,
		ID:        comment.ID,
		UserID:    comment.UserID,
		VideoID:   comment.VideoID,
		Body:      comment.Body,
		CreatedAt: formatTime(comment.CreatedAt),
	})
	if err != nil {
		return fmt.Errorf("marshaling comment item: %w", err)
	}

	_, err = r.store.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.store.table),
		Item:      item,
	})
	return err
}

func (r *CommentRepository) ListByVideo(ctx context.Context, videoID string, limit, offset int) ([]*domain.Comment, error) {
	paginator := dynamodb.NewQueryPaginator(r.store.client, &dynamodb.QueryInput{
		TableName:                aws.String(r.store.table),
		KeyConditionExpression:   aws.String("#pk = :pk"),
		ExpressionAttributeNames: map[string]string{"#pk": "pk"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: "COMMENTS#" + videoID},
		},
		ScanIndexForward: aws.Bool(true),
	})

	var comments []*domain.Comment
	needed := offset + limit
	for paginator.HasMorePages() && len(comments) < needed {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, item := range out.Items {
			var record commentItem
			if err := attributevalue.UnmarshalMap(item, &record); err != nil {
				return nil, fmt.Errorf("unmarshaling comment item: %w", err)
			}
			comments = append(comments, &domain.Comment{
				ID:        record.ID,
				UserID:    record.UserID,
				VideoID:   record.VideoID,
				Body:      record.Body,
				CreatedAt: parseTime(record.CreatedAt),
			})
		}
	}

	if offset >= len(comments) {
		return nil, nil
	}
	comments = comments[offset:]
	if limit < len(comments) {
		comments = comments[:limit]
	}
	return comments, nil
}
