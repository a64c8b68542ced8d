package cache

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"
)

// DynamoDBClient is the subset of the DynamoDB API the store uses.
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// dynamoRecord is one cached payload with its expiry stored alongside.
type dynamoRecord struct {
	CacheKey  string `dynamodbav:"cacheKey"`
	Payload   []byte `dynamodbav:"payload"`
	ExpiresAt int64  `dynamodbav:"expiresAt"`
	UpdatedAt int64  `dynamodbav:"updatedAt"`
}

// DynamoStore is the durable secondary tier.
type DynamoStore struct {
	client DynamoDBClient
	table  string
}

// NewDynamoClient creates a new DynamoDB client based on environment
func NewDynamoClient(ctx context.Context) (*dynamodb.Client, error) {
	if endpoint := os.Getenv("DYNAMODB_ENDPOINT"); endpoint != "" {
		// Local development configuration
		log.Debug().Str("endpoint", endpoint).Msg("Using local DynamoDB endpoint")
		cfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion("local"),
			awsconfig.WithClientLogMode(aws.LogRetries),
		)
		if err != nil {
			return nil, err
		}

		return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		}), nil
	}

	// Production configuration
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(cfg), nil
}

func NewDynamoStore(client DynamoDBClient, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table}
}

func (s *DynamoStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"cacheKey": &types.AttributeValueMemberS{Value: key},
		},
	}

	result, err := s.client.GetItem(ctx, input)
	if err != nil {
		return nil, false, fmt.Errorf("dynamo get: %w", err)
	}
	if result.Item == nil {
		return nil, false, nil
	}

	var record dynamoRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, false, fmt.Errorf("unmarshaling cache record: %w", err)
	}

	// Expired entries are dropped lazily on read
	if time.Now().Unix() >= record.ExpiresAt {
		log.Debug().Str("key", key).Msg("Cache entry expired")
		return nil, false, nil
	}

	return record.Payload, true, nil
}

func (s *DynamoStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := time.Now()
	record := dynamoRecord{
		CacheKey:  key,
		Payload:   value,
		ExpiresAt: now.Add(ttl).Unix(),
		UpdatedAt: now.Unix(),
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshaling cache record: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("dynamo put: %w", err)
	}
	return nil
}

func (s *DynamoStore) Delete(ctx context.Context, key string) error {
	if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"cacheKey": &types.AttributeValueMemberS{Value: key},
		},
	}); err != nil {
		return fmt.Errorf("dynamo delete: %w", err)
	}
	return nil
}

func (s *DynamoStore) Purge(ctx context.Context, match string) error {
	input := &dynamodb.ScanInput{
		TableName:            aws.String(s.table),
		FilterExpression:     aws.String("contains(cacheKey, :m)"),
		ProjectionExpression: aws.String("cacheKey"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":m": &types.AttributeValueMemberS{Value: match},
		},
	}

	for {
		result, err := s.client.Scan(ctx, input)
		if err != nil {
			return fmt.Errorf("dynamo scan: %w", err)
		}

		for _, item := range result.Items {
			var record dynamoRecord
			if err := attributevalue.UnmarshalMap(item, &record); err != nil {
				continue
			}
			if err := s.Delete(ctx, record.CacheKey); err != nil {
				return err
			}
		}

		if result.LastEvaluatedKey == nil {
			return nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}
