package database

import (
	"context"
	"errors"
	"fmt"
	"log"

	appconfig "restaurant_payments/internal/infrastructure/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Invoice table GSIs.
const (
	InvoicesTransactionRefIndex = "transaction_ref-index"
	InvoicesStatusIndex         = "status-index"
)

// ConnectDynamoDB creates a DynamoDB client from the store settings.
//
// Local DynamoDB (store.dynamodb.endpoint, e.g. http://dynamodb:8000) does not
// validate credentials, but the AWS SDK requires them, so static ones are used.
func ConnectDynamoDB(ctx context.Context, cfg appconfig.DynamoDBConfig) (*dynamodb.Client, error) {
	awsCfg, err := NewDynamoDBConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create dynamodb config: %w", err)
	}
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

func NewDynamoDBConfig(ctx context.Context, cfg appconfig.DynamoDBConfig) (aws.Config, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")

	return config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(creds),
	)
}

// EnsureDynamoTables creates the orders and invoices tables when missing.
//
// orders:   PK id
// invoices: PK id, GSI transaction_ref-index (transaction_ref), GSI status-index (status, created_at)
func EnsureDynamoTables(ctx context.Context, ddb *dynamodb.Client, cfg appconfig.DynamoDBConfig) error {
	tables := []*dynamodb.CreateTableInput{
		{
			TableName:   aws.String(cfg.OrdersTable),
			BillingMode: types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
			},
		},
		{
			TableName:   aws.String(cfg.InvoicesTable),
			BillingMode: types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
				{AttributeName: aws.String("transaction_ref"), AttributeType: types.ScalarAttributeTypeS},
				{AttributeName: aws.String("status"), AttributeType: types.ScalarAttributeTypeS},
				{AttributeName: aws.String("created_at"), AttributeType: types.ScalarAttributeTypeS},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
			},
			GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
				{
					IndexName: aws.String(InvoicesTransactionRefIndex),
					KeySchema: []types.KeySchemaElement{
						{AttributeName: aws.String("transaction_ref"), KeyType: types.KeyTypeHash},
					},
					Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
				},
				{
					IndexName: aws.String(InvoicesStatusIndex),
					KeySchema: []types.KeySchemaElement{
						{AttributeName: aws.String("status"), KeyType: types.KeyTypeHash},
						{AttributeName: aws.String("created_at"), KeyType: types.KeyTypeRange},
					},
					Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
				},
			},
		},
	}

	for _, in := range tables {
		_, err := ddb.CreateTable(ctx, in)
		if err != nil {
			var inUse *types.ResourceInUseException
			if errors.As(err, &inUse) {
				log.Printf("[payment][repository] table exists table=%s", aws.ToString(in.TableName))
				continue
			}
			return fmt.Errorf("create table %s: %w", aws.ToString(in.TableName), err)
		}
		log.Printf("[payment][repository] table created table=%s", aws.ToString(in.TableName))
	}
	return nil
}
