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

type userItem struct {
	PK              string `dynamodbav:"pk"`
	SK              string `dynamodbav:"sk"`
	ID              string `dynamodbav:"id"`
	Email           string `dynamodbav:"email"`
	Name            string `dynamodbav:"name"`
	ProfileImageURL string `dynamodbav:"profileImageUrl"`
	Provider        string `dynamodbav:"provider"`
	CreatedAt       string `dynamodbav:"createdAt"`
	UpdatedAt       string `dynamodbav:"updatedAt"`
}

func userKey(id string) (string, string) {
	return "USER#" + id, "USER#" + id
}

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.put(ctx, user)
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	return r.put(ctx, user)
}

func (r *UserRepository) put(ctx context.Context, user *domain.User) error {
	pk, sk := userKey(user.ID)
	item, err := attributevalue.MarshalMap(userItem{
		PK:              pk,
		SK:              sk,
		ID:              user.ID,
		Email:           user.Email,
		Name:            user.Name,
		ProfileImageURL: user.ProfileImageURL,
		Provider:        user.Provider,
		CreatedAt:       formatTime(user.CreatedAt),
		UpdatedAt:       formatTime(user.UpdatedAt),
	})
	if err != nil {
		return fmt.Errorf("marshaling user item: %w", err)
	}

	_, err = r.store.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.store.table),
		Item:      item,
	})
	return err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	pk, sk := userKey(id)
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
	return unmarshalUser(out.Item)
}

// FindByEmail scans the user partition. Login is rare next to feed reads, so
// the table gets by without an email index.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	paginator := dynamodb.NewScanPaginator(r.store.client, &dynamodb.ScanInput{
		TableName:        aws.String(r.store.table),
		FilterExpression: aws.String("begins_with(#pk, :prefix) AND #email = :email"),
		ExpressionAttributeNames: map[string]string{
			"#pk":    "pk",
			"#email": "email",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":prefix": &types.AttributeValueMemberS{Value: "USER#"},
			":email":  &types.AttributeValueMemberS{Value: email},
		},
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		if len(page.Items) > 0 {
			return unmarshalUser(page.Items[0])
		}
	}
	return nil, nil
}

func unmarshalUser(item map[string]types.AttributeValue) (*domain.User, error) {
	var record userItem
	if err := attributevalue.UnmarshalMap(item, &record); err != nil {
		return nil, fmt.Errorf("unmarshaling user item: %w", err)
	}
	return &domain.User{
		ID:              record.ID,
		Email:           record.Email,
		Name:            record.Name,
		ProfileImageURL: record.ProfileImageURL,
		Provider:        record.Provider,
		CreatedAt:       parseTime(record.CreatedAt),
		UpdatedAt:       parseTime(record.UpdatedAt),
	}, nil
}
