package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"

	"github.com/authcore/authcore/internal/models"
)

// AccountRepository implements AccountStore on a DynamoDB single-table
// layout. The account item lives under ACCOUNT#<id>; a companion item under
// EMAIL#<email> pins the address to exactly one account.
type AccountRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *logrus.Logger
}

func NewAccountRepository(client *dynamodb.Client, tableName string, logger *logrus.Logger) *AccountRepository {
	return &AccountRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	item, err := attributevalue.MarshalMap(account)
	if err != nil {
		r.logger.WithError(err).Error("Failed to marshal account for DynamoDB")
		return fmt.Errorf("failed to marshal account: %w", err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: account.GetPK()}
	item["SK"] = &types.AttributeValueMemberS{Value: account.GetSK()}

	emailItem := map[string]types.AttributeValue{
		"PK":         &types.AttributeValueMemberS{Value: models.EmailPK(account.Email)},
		"SK":         &types.AttributeValueMemberS{Value: "METADATA"},
		"account_id": &types.AttributeValueMemberS{Value: account.ID},
	}

	// Both puts are conditional so a concurrent registration of the same
	// email cancels the whole transaction.
	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(r.tableName),
					Item:                emailItem,
					ConditionExpression: aws.String("attribute_not_exists(PK)"),
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(r.tableName),
					Item:                item,
					ConditionExpression: aws.String("attribute_not_exists(PK)"),
				},
			},
		},
	})

	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			for _, reason := range canceled.CancellationReasons {
				if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
					return ErrEmailExists
				}
			}
		}
		r.logger.WithError(err).Error("Failed to create account in DynamoDB")
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	account := &models.Account{ID: id}

	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: account.GetPK()},
			"SK": &types.AttributeValueMemberS{Value: account.GetSK()},
		},
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to get account from DynamoDB")
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	var stored models.Account
	if err := attributevalue.UnmarshalMap(result.Item, &stored); err != nil {
		r.logger.WithError(err).Error("Failed to unmarshal account from DynamoDB")
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return &stored, nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: models.EmailPK(email)},
			"SK": &types.AttributeValueMemberS{Value: "METADATA"},
		},
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to get email item from DynamoDB")
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	idAttr, ok := result.Item["account_id"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, fmt.Errorf("email item for %q has no account_id", email)
	}

	return r.GetByID(ctx, idAttr.Value)
}

func (r *AccountRepository) Save(ctx context.Context, account *models.Account) error {
	account.UpdatedAt = time.Now()

	item, err := attributevalue.MarshalMap(account)
	if err != nil {
		r.logger.WithError(err).Error("Failed to marshal account for DynamoDB")
		return fmt.Errorf("failed to marshal account: %w", err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: account.GetPK()}
	item["SK"] = &types.AttributeValueMemberS{Value: account.GetSK()}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to save account in DynamoDB")
		return fmt.Errorf("failed to save account: %w", err)
	}

	return nil
}
