package dynamo

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/clipdeck/internal/core/domain"
)

type videoItem struct {
	PK              string  `dynamodbav:"pk"`
	SK              string  `dynamodbav:"sk"`
	ID              string  `dynamodbav:"id"`
	UserID          string  `dynamodbav:"userId"`
	Title           string  `dynamodbav:"title"`
	Description     string  `dynamodbav:"description"`
	StorageKey      string  `dynamodbav:"storageKey"`
	ContentType     string  `dynamodbav:"contentType"`
	SizeBytes       int64   `dynamodbav:"sizeBytes"`
	DurationSeconds float64 `dynamodbav:"durationSeconds"`
	Transcript      string  `dynamodbav:"transcript"`
	ViewCount       int64   `dynamodbav:"viewCount"`
	LikeCount       int64   `dynamodbav:"likeCount"`
	CommentCount    int64   `dynamodbav:"commentCount"`
	ShareCount      int64   `dynamodbav:"shareCount"`
	Public          bool    `dynamodbav:"public"`
	CreatedAt       string  `dynamodbav:"createdAt"`
	UpdatedAt       string  `dynamodbav:"updatedAt"`
}

func videoKey(id string) (string, string) {
	return "VIDEO#" + id, "VIDEO#" + id
}

type VideoRepository struct {
	store *Store
}

func NewVideoRepository(store *Store) *VideoRepository {
	return &VideoRepository{store: store}
}

func (r *VideoRepository) Create(ctx context.Context, video *domain.Video) error {
	pk, sk := videoKey(video.ID)
	item, err := attributevalue.MarshalMap(videoItem{
		PK:              pk,
		SK:              sk,
		ID:              video.ID,
		UserID:          video.UserID,
		Title:           video.Title,
		Description:     video.Description,
		StorageKey:      video.StorageKey,
		ContentType:     video.ContentType,
		SizeBytes:       video.SizeBytes,
		DurationSeconds: video.DurationSeconds,
		Transcript:      video.Transcript,
		ViewCount:       video.ViewCount,
		LikeCount:       video.LikeCount,
		CommentCount:    video.CommentCount,
		ShareCount:      video.ShareCount,
		Public:          video.Public,
		CreatedAt:       formatTime(video.CreatedAt),
		UpdatedAt:       formatTime(video.UpdatedAt),
	})
	if err != nil {
		return fmt.Errorf("marshaling video item: %w", err)
	}

	_, err = r.store.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.store.table),
		Item:      item,
	})
	return err
}

func (r *VideoRepository) FindByID(ctx context.Context, id string) (*domain.Video, error) {
	pk, sk := videoKey(id)
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
	return unmarshalVideo(out.Item)
}

func (r *VideoRepository) ListPublic(ctx context.Context, limit, offset int) ([]*domain.Video, error) {
	videos, err := r.scan(ctx,
		"begins_with(#pk, :prefix) AND #public = :public",
		map[string]string{"#pk": "pk", "#public": "public"},
		map[string]types.AttributeValue{
			":prefix": &types.AttributeValueMemberS{Value: "VIDEO#"},
			":public": &types.AttributeValueMemberBOOL{Value: true},
		})
	if err != nil {
		return nil, err
	}
	return page(videos, limit, offset), nil
}

func (r *VideoRepository) ListByUser(ctx context.Context, userID string, includePrivate bool, limit, offset int) ([]*domain.Video, error) {
	filter := "begins_with(#pk, :prefix) AND #userId = :userId"
	names := map[string]string{"#pk": "pk", "#userId": "userId"}
	values := map[string]types.AttributeValue{
		":prefix": &types.AttributeValueMemberS{Value: "VIDEO#"},
		":userId": &types.AttributeValueMemberS{Value: userID},
	}
	if !includePrivate {
		filter += " AND #public = :public"
		names["#public"] = "public"
		values[":public"] = &types.AttributeValueMemberBOOL{Value: true}
	}

	videos, err := r.scan(ctx, filter, names, values)
	if err != nil {
		return nil, err
	}
	return page(videos, limit, offset), nil
}

func (r *VideoRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	videos, err := r.scan(ctx,
		"begins_with(#pk, :prefix) AND #userId = :userId",
		map[string]string{"#pk": "pk", "#userId": "userId"},
		map[string]types.AttributeValue{
			":prefix": &types.AttributeValueMemberS{Value: "VIDEO#"},
			":userId": &types.AttributeValueMemberS{Value: userID},
		})
	if err != nil {
		return 0, err
	}
	return int64(len(videos)), nil
}

func (r *VideoRepository) IncrementViewCount(ctx context.Context, id string) error {
	return r.add(ctx, id, "viewCount", 1)
}

func (r *VideoRepository) IncrementShareCount(ctx context.Context, id string) error {
	return r.add(ctx, id, "shareCount", 1)
}

func (r *VideoRepository) IncrementCommentCount(ctx context.Context, id string) error {
	return r.add(ctx, id, "commentCount", 1)
}

func (r *VideoRepository) AdjustLikeCount(ctx context.Context, id string, delta int64) error {
	return r.add(ctx, id, "likeCount", delta)
}

// add is a single-item ADD update, the document-store twin of the SQL
// `SET n = n + 1` statement.
func (r *VideoRepository) add(ctx context.Context, id, attribute string, delta int64) error {
	pk, sk := videoKey(id)
	_, err := r.store.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.store.table),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: pk},
			"sk": &types.AttributeValueMemberS{Value: sk},
		},
		UpdateExpression:         aws.String("ADD #counter :delta"),
		ConditionExpression:      aws.String("attribute_exists(pk)"),
		ExpressionAttributeNames: map[string]string{"#counter": attribute},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":delta": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", delta)},
		},
	})
	return err
}

// scan walks the video partition; listings are sorted and sliced client
// side. Fine at the scale a single-table deployment of this app runs at.
func (r *VideoRepository) scan(ctx context.Context, filter string, names map[string]string, values map[string]types.AttributeValue) ([]*domain.Video, error) {
	paginator := dynamodb.NewScanPaginator(r.store.client, &dynamodb.ScanInput{
		TableName:                 aws.String(r.store.table),
		FilterExpression:          aws.String(filter),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})

	var videos []*domain.Video
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, item := range out.Items {
			video, err := unmarshalVideo(item)
			if err != nil {
				return nil, err
			}
			videos = append(videos, video)
		}
	}

	sort.Slice(videos, func(i, j int) bool {
		if videos[i].CreatedAt.Equal(videos[j].CreatedAt) {
			return videos[i].ID > videos[j].ID
		}
		return videos[i].CreatedAt.After(videos[j].CreatedAt)
	})
	return videos, nil
}

func page(videos []*domain.Video, limit, offset int) []*domain.Video {
	if offset >= len(videos) {
		return nil
	}
	videos = videos[offset:]
	if limit < len(videos) {
		videos = videos[:limit]
	}
	return videos
}

func unmarshalVideo(item map[string]types.AttributeValue) (*domain.Video, error) {
	var record videoItem
	if err := attributevalue.UnmarshalMap(item, &record); err != nil {
		return nil, fmt.Errorf("unmarshaling video item: %w", err)
	}
	return &domain.Video{
		ID:              record.ID,
		UserID:          record.UserID,
		Title:           record.Title,
		Description:     record.Description,
		StorageKey:      record.StorageKey,
		ContentType:     record.ContentType,
		SizeBytes:       record.SizeBytes,
		DurationSeconds: record.DurationSeconds,
		Transcript:      record.Transcript,
		ViewCount:       record.ViewCount,
		LikeCount:       record.LikeCount,
		CommentCount:    record.CommentCount,
		ShareCount:      record.ShareCount,
		Public:          record.Public,
		CreatedAt:       parseTime(record.CreatedAt),
		UpdatedAt:       parseTime(record.UpdatedAt),
	}, nil
}
