package repository

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"restaurant_payments/internal/domain/entities"
	appconfig "restaurant_payments/internal/infrastructure/config"
	"restaurant_payments/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

type orderItem struct {
	ID              string `dynamodbav:"id"`
	UserID          string `dynamodbav:"user_id"`
	TotalAmount     string `dynamodbav:"total_amount"`
	Status          string `dynamodbav:"status"`
	ActiveInvoiceID string `dynamodbav:"active_invoice_id,omitempty"`
	CreatedAt       string `dynamodbav:"created_at"`
	UpdatedAt       string `dynamodbav:"updated_at"`
	// lease attributes, only present while a reservation holds the order
	LockOwner     string `dynamodbav:"lock_owner,omitempty"`
	LockExpiresAt int64  `dynamodbav:"lock_expires_at,omitempty"`
}

// OrderDynamoRepository persists Order entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
type OrderDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IOrderRepository = (*OrderDynamoRepository)(nil)

func NewOrderDynamoRepository(ddb *dynamodb.Client, cfg appconfig.DynamoDBConfig) *OrderDynamoRepository {
	return &OrderDynamoRepository{ddb: ddb, tableName: cfg.OrdersTable}
}

func (r *OrderDynamoRepository) Create(ctx context.Context, o entities.Order) (entities.Order, error) {
	av, err := attributevalue.MarshalMap(toOrderItem(o))
	if err != nil {
		return entities.Order{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Order{}, err
	}
	return o, nil
}

func (r *OrderDynamoRepository) GetByID(ctx context.Context, id string) (entities.Order, error) {
	return getOrder(ctx, r.ddb, r.tableName, id)
}

func getOrder(ctx context.Context, ddb *dynamodb.Client, table, id string) (entities.Order, error) {
	out, err := ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key: map[string]types.AttributeValue{
			"id": strValue(id),
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Order{}, err
	}
	if len(out.Item) == 0 {
		return entities.Order{}, nil
	}

	var it orderItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Order{}, err
	}
	return fromOrderItem(it), nil
}

// orderLease is a conditional-write lock on one order item.
type orderLease struct {
	ddb      *dynamodb.Client
	table    string
	orderID  string
	owner    string
	ttl      time.Duration
	attempts int
	poll     time.Duration
}

func newOrderLease(ddb *dynamodb.Client, cfg appconfig.DynamoDBConfig, orderID string) *orderLease {
	l := &orderLease{
		ddb:      ddb,
		table:    cfg.OrdersTable,
		orderID:  orderID,
		owner:    uuid.NewString(),
		ttl:      cfg.LockTTL,
		attempts: cfg.LockAttempts,
		poll:     cfg.LockPoll,
	}
	if l.ttl <= 0 {
		l.ttl = 10 * time.Second
	}
	if l.attempts <= 0 {
		l.attempts = 20
	}
	if l.poll <= 0 {
		l.poll = 50 * time.Millisecond
	}
	return l
}

// acquire takes the lease and returns the locked order. A missing order is
// returned as a zero Order with found=false and no lease held.
func (l *orderLease) acquire(ctx context.Context) (order entities.Order, found bool, err error) {
	for attempt := 1; attempt <= l.attempts; attempt++ {
		now := time.Now()
		out, err := l.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName: aws.String(l.table),
			Key: map[string]types.AttributeValue{
				"id": strValue(l.orderID),
			},
			ConditionExpression: aws.String("attribute_exists(#id) AND (attribute_not_exists(#owner) OR #expires < :now)"),
			UpdateExpression:    aws.String("SET #owner = :owner, #expires = :expires"),
			ExpressionAttributeNames: map[string]string{
				"#id":      "id",
				"#owner":   "lock_owner",
				"#expires": "lock_expires_at",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":owner":   strValue(l.owner),
				":now":     &types.AttributeValueMemberN{Value: strconv.FormatInt(now.UnixMilli(), 10)},
				":expires": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Add(l.ttl).UnixMilli(), 10)},
			},
			ReturnValues: types.ReturnValueAllNew,
		})
		if err == nil {
			var it orderItem
			if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
				l.release(ctx)
				return entities.Order{}, false, err
			}
			return fromOrderItem(it), true, nil
		}

		var cfe *types.ConditionalCheckFailedException
		if !errors.As(err, &cfe) {
			return entities.Order{}, false, err
		}
		existing, gerr := getOrder(ctx, l.ddb, l.table, l.orderID)
		if gerr != nil {
			return entities.Order{}, false, gerr
		}
		if existing.ID == "" {
			return entities.Order{}, false, nil
		}

		select {
		case <-time.After(l.poll):
		case <-ctx.Done():
			return entities.Order{}, false, ctx.Err()
		}
	}
	log.Printf("[payment][repository] order lock not acquired order_id=%s attempts=%d", l.orderID, l.attempts)
	return entities.Order{}, false, interfaces.ErrOrderLocked
}

// release drops the lease if this owner still holds it.
func (l *orderLease) release(ctx context.Context) {
	_, err := l.ddb.UpdateItem(context.WithoutCancel(ctx), &dynamodb.UpdateItemInput{
		TableName: aws.String(l.table),
		Key: map[string]types.AttributeValue{
			"id": strValue(l.orderID),
		},
		ConditionExpression: aws.String("#owner = :owner"),
		UpdateExpression:    aws.String("REMOVE #owner, #expires"),
		ExpressionAttributeNames: map[string]string{
			"#owner":   "lock_owner",
			"#expires": "lock_expires_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": strValue(l.owner),
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if !errors.As(err, &cfe) {
			log.Printf("[payment][repository] order lock release failed order_id=%s err=%v", l.orderID, err)
		}
	}
}

// holdCondition guards a transactional order update on the lease still being held.
func (l *orderLease) holdCondition() (string, map[string]string, map[string]types.AttributeValue) {
	return "#owner = :owner",
		map[string]string{"#owner": "lock_owner"},
		map[string]types.AttributeValue{":owner": strValue(l.owner)}
}

func toOrderItem(o entities.Order) orderItem {
	return orderItem{
		ID:              o.ID,
		UserID:          o.UserID,
		TotalAmount:     decimalToString(o.TotalAmount),
		Status:          string(o.Status),
		ActiveInvoiceID: o.ActiveInvoiceID,
		CreatedAt:       formatTime(o.CreatedAt),
		UpdatedAt:       formatTime(o.UpdatedAt),
	}
}

func fromOrderItem(it orderItem) entities.Order {
	return entities.Order{
		ID:              it.ID,
		UserID:          it.UserID,
		TotalAmount:     parseDecimal(it.TotalAmount),
		Status:          entities.OrderStatus(it.Status),
		ActiveInvoiceID: it.ActiveInvoiceID,
		CreatedAt:       parseTime(it.CreatedAt),
		UpdatedAt:       parseTime(it.UpdatedAt),
	}
}

func itemKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"id": strValue(id)}
}
