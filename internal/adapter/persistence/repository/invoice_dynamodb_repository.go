package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"restaurant_payments/internal/domain/entities"
	appconfig "restaurant_payments/internal/infrastructure/config"
	"restaurant_payments/internal/infrastructure/database"
	"restaurant_payments/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type invoiceItem struct {
	ID                  string      `dynamodbav:"id"`
	OrderID             string      `dynamodbav:"order_id"`
	PricingPolicy       int         `dynamodbav:"pricing_policy"`
	BaseAmount          string      `dynamodbav:"base_amount"`
	TaxAmount           string      `dynamodbav:"tax_amount"`
	ServiceChargeAmount string      `dynamodbav:"service_charge_amount"`
	FinalAmount         string      `dynamodbav:"final_amount"`
	Currency            string      `dynamodbav:"currency"`
	Gateway             string      `dynamodbav:"gateway"`
	TransactionRef      string      `dynamodbav:"transaction_ref,omitempty"`
	Status              string      `dynamodbav:"status"`
	AuditTrail          []auditItem `dynamodbav:"audit_trail"`
	CreatedAt           string      `dynamodbav:"created_at"`
	UpdatedAt           string      `dynamodbav:"updated_at"`
}

// InvoiceDynamoRepository persists invoices and performs the invoice+order
// state changes with TransactWriteItems.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: transaction_ref-index (PK: transaction_ref)
//   - GSI: status-index (PK: status, SK: created_at)
//
// transaction_ref is omitted until the gateway answers, so invoices without a
// reference stay out of the sparse transaction_ref index.
type InvoiceDynamoRepository struct {
	ddb         *dynamodb.Client
	cfg         appconfig.DynamoDBConfig
	tableName   string
	ordersTable string
}

var _ interfaces.IInvoiceRepository = (*InvoiceDynamoRepository)(nil)

func NewInvoiceDynamoRepository(ddb *dynamodb.Client, cfg appconfig.DynamoDBConfig) *InvoiceDynamoRepository {
	return &InvoiceDynamoRepository{
		ddb:         ddb,
		cfg:         cfg,
		tableName:   cfg.InvoicesTable,
		ordersTable: cfg.OrdersTable,
	}
}

func (r *InvoiceDynamoRepository) ReserveInvoice(ctx context.Context, orderID string, build interfaces.InvoiceBuilder) (entities.Invoice, entities.Order, error) {
	lease := newOrderLease(r.ddb, r.cfg, orderID)
	order, found, err := lease.acquire(ctx)
	if err != nil {
		return entities.Invoice{}, entities.Order{}, err
	}
	if !found {
		inv, err := build(entities.Order{})
		if err == nil {
			err = fmt.Errorf("order %s disappeared while reserving invoice %s", orderID, inv.ID)
		}
		return entities.Invoice{}, entities.Order{}, err
	}
	defer lease.release(ctx)

	inv, err := build(order)
	if err != nil {
		return entities.Invoice{}, entities.Order{}, err
	}

	now := time.Now().UTC()
	inv.CreatedAt, inv.UpdatedAt = now, now
	invAV, err := attributevalue.MarshalMap(toInvoiceItem(inv))
	if err != nil {
		return entities.Invoice{}, entities.Order{}, err
	}

	holdExpr, holdNames, holdValues := lease.holdCondition()
	items := []types.TransactWriteItem{
		{Put: &types.Put{
			TableName:                aws.String(r.tableName),
			Item:                     invAV,
			ConditionExpression:      aws.String("attribute_not_exists(#id)"),
			ExpressionAttributeNames: map[string]string{"#id": "id"},
		}},
		{Update: &types.Update{
			TableName:           aws.String(r.ordersTable),
			Key:                 itemKey(orderID),
			ConditionExpression: aws.String(holdExpr + " AND #status = :pending"),
			UpdateExpression:    aws.String("SET #active = :inv, #updated_at = :now"),
			ExpressionAttributeNames: mergeNames(holdNames, map[string]string{
				"#status":     "status",
				"#active":     "active_invoice_id",
				"#updated_at": "updated_at",
			}),
			ExpressionAttributeValues: mergeValues(holdValues, map[string]types.AttributeValue{
				":pending": strValue(string(entities.OrderStatusPending)),
				":inv":     strValue(inv.ID),
				":now":     strValue(formatTime(now)),
			}),
		}},
	}

	superseded := ""
	if prevID := order.ActiveInvoiceID; prevID != "" && prevID != inv.ID {
		prev, err := r.GetByID(ctx, prevID)
		if err != nil {
			return entities.Invoice{}, entities.Order{}, err
		}
		if prev.ID != "" && prev.Status == entities.InvoiceStatusPending {
			rec := entities.NewAuditRecord(entities.AuditSuperseded, jsonPayload(map[string]string{"superseded_by": inv.ID}))
			upd, err := r.statusUpdate(prev.ID, entities.InvoiceStatusPending, entities.InvoiceStatusCancelled, rec, now)
			if err != nil {
				return entities.Invoice{}, entities.Order{}, err
			}
			items = append(items, types.TransactWriteItem{Update: upd})
			superseded = prev.ID
		}
	}

	if _, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		if conditionFailed(err) {
			log.Printf("[payment][repository] reserve invoice lost race order_id=%s err=%v", orderID, err)
			// the previous invoice may have completed after it was read
			current, gerr := getOrder(ctx, r.ddb, r.ordersTable, orderID)
			if gerr == nil && current.Status == entities.OrderStatusPaid {
				return entities.Invoice{}, entities.Order{}, entities.ErrAlreadyPaid
			}
			return entities.Invoice{}, entities.Order{}, interfaces.ErrConcurrentUpdate
		}
		return entities.Invoice{}, entities.Order{}, err
	}
	if superseded != "" {
		log.Printf("[payment][repository] invoice superseded invoice_id=%s by=%s", superseded, inv.ID)
	}

	order.ActiveInvoiceID = inv.ID
	order.UpdatedAt = now
	return inv, order, nil
}

func (r *InvoiceDynamoRepository) AttachTransaction(ctx context.Context, invoiceID, transactionRef string, rec entities.AuditRecord) (entities.Invoice, error) {
	inv, err := r.GetByID(ctx, invoiceID)
	if err != nil {
		return entities.Invoice{}, err
	}
	if inv.ID == "" {
		return entities.Invoice{}, entities.ErrInvoiceNotFound
	}
	recAV, err := auditListValue(rec)
	if err != nil {
		return entities.Invoice{}, err
	}

	now := time.Now().UTC()
	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Update: &types.Update{
				TableName:           aws.String(r.tableName),
				Key:                 itemKey(invoiceID),
				ConditionExpression: aws.String("attribute_exists(#id) AND attribute_not_exists(#ref) AND #status = :pending"),
				UpdateExpression:    aws.String("SET #ref = :ref, #updated_at = :now, #audit = list_append(if_not_exists(#audit, :empty), :rec)"),
				ExpressionAttributeNames: map[string]string{
					"#id":         "id",
					"#ref":        "transaction_ref",
					"#status":     "status",
					"#updated_at": "updated_at",
					"#audit":      "audit_trail",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":ref":     strValue(transactionRef),
					":pending": strValue(string(entities.InvoiceStatusPending)),
					":now":     strValue(formatTime(now)),
					":empty":   emptyList(),
					":rec":     recAV,
				},
			}},
			// the order must still point at this invoice
			{ConditionCheck: &types.ConditionCheck{
				TableName:           aws.String(r.ordersTable),
				Key:                 itemKey(inv.OrderID),
				ConditionExpression: aws.String("#status = :pending AND #active = :inv"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
					"#active": "active_invoice_id",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":pending": strValue(string(entities.OrderStatusPending)),
					":inv":     strValue(invoiceID),
				},
			}},
		},
	})
	if err != nil {
		if conditionFailed(err) {
			log.Printf("[payment][repository] attach refused invoice_id=%s status=%s", invoiceID, inv.Status)
			existing, gerr := r.GetByID(ctx, invoiceID)
			if gerr != nil {
				return entities.Invoice{}, gerr
			}
			return existing, interfaces.ErrConcurrentUpdate
		}
		return entities.Invoice{}, err
	}

	inv.TransactionRef = transactionRef
	inv.UpdatedAt = now
	inv.AuditTrail = append(inv.AuditTrail, rec)
	return inv, nil
}

func (r *InvoiceDynamoRepository) GetByID(ctx context.Context, id string) (entities.Invoice, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            itemKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Invoice{}, err
	}
	if len(out.Item) == 0 {
		return entities.Invoice{}, nil
	}
	return unmarshalInvoice(out.Item)
}

// GetByTransactionRef resolves the reference through the GSI, then re-reads
// the item consistently.
func (r *InvoiceDynamoRepository) GetByTransactionRef(ctx context.Context, transactionRef string) (entities.Invoice, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(database.InvoicesTransactionRefIndex),
		KeyConditionExpression: aws.String("#ref = :ref"),
		ExpressionAttributeNames: map[string]string{
			"#ref": "transaction_ref",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ref": strValue(transactionRef),
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return entities.Invoice{}, err
	}
	if len(out.Items) == 0 {
		return entities.Invoice{}, nil
	}
	var it invoiceItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &it); err != nil {
		return entities.Invoice{}, err
	}
	return r.GetByID(ctx, it.ID)
}

func (r *InvoiceDynamoRepository) ListPending(ctx context.Context, olderThan time.Time, limit int) ([]entities.Invoice, error) {
	if limit <= 0 {
		limit = 100
	}
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(database.InvoicesStatusIndex),
		KeyConditionExpression: aws.String("#status = :pending AND #created_at < :before"),
		FilterExpression:       aws.String("attribute_exists(#ref)"),
		ExpressionAttributeNames: map[string]string{
			"#status":     "status",
			"#created_at": "created_at",
			"#ref":        "transaction_ref",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending": strValue(string(entities.InvoiceStatusPending)),
			":before":  strValue(formatTime(olderThan)),
		},
	}

	out := make([]entities.Invoice, 0, limit)
	p := dynamodb.NewQueryPaginator(r.ddb, input)
	for p.HasMorePages() && len(out) < limit {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			inv, err := unmarshalInvoice(raw)
			if err != nil {
				return nil, err
			}
			out = append(out, inv)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *InvoiceDynamoRepository) AppendAudit(ctx context.Context, invoiceID string, rec entities.AuditRecord) error {
	recAV, err := auditListValue(rec)
	if err != nil {
		return err
	}
	_, err = r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 itemKey(invoiceID),
		ConditionExpression: aws.String("attribute_exists(#id)"),
		UpdateExpression:    aws.String("SET #audit = list_append(if_not_exists(#audit, :empty), :rec), #updated_at = :now"),
		ExpressionAttributeNames: map[string]string{
			"#id":         "id",
			"#audit":      "audit_trail",
			"#updated_at": "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":empty": emptyList(),
			":rec":   recAV,
			":now":   strValue(formatTime(time.Now())),
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.ErrInvoiceNotFound
		}
		return err
	}
	return nil
}

func (r *InvoiceDynamoRepository) TransitionStatus(ctx context.Context, inv entities.Invoice, next entities.InvoiceStatus, rec entities.AuditRecord) (bool, error) {
	now := time.Now().UTC()
	invUpdate, err := r.statusUpdate(inv.ID, inv.Status, next, rec, now)
	if err != nil {
		return false, err
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Update: invUpdate},
			{Update: &types.Update{
				TableName:           aws.String(r.ordersTable),
				Key:                 itemKey(inv.OrderID),
				ConditionExpression: aws.String("#status = :pending AND #active = :inv"),
				UpdateExpression:    aws.String("SET #status = :next, #updated_at = :now"),
				ExpressionAttributeNames: map[string]string{
					"#status":     "status",
					"#active":     "active_invoice_id",
					"#updated_at": "updated_at",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":pending": strValue(string(entities.OrderStatusPending)),
					":inv":     strValue(inv.ID),
					":next":    strValue(string(next.OrderStatus())),
					":now":     strValue(formatTime(now)),
				},
			}},
		},
	})
	if err != nil {
		if conditionFailed(err) {
			log.Printf("[payment][repository] transition not applied invoice_id=%s from=%s to=%s", inv.ID, inv.Status, next)
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// statusUpdate is the conditional invoice status change with its audit append.
func (r *InvoiceDynamoRepository) statusUpdate(id string, from, to entities.InvoiceStatus, rec entities.AuditRecord, now time.Time) (*types.Update, error) {
	recAV, err := auditListValue(rec)
	if err != nil {
		return nil, err
	}
	return &types.Update{
		TableName:           aws.String(r.tableName),
		Key:                 itemKey(id),
		ConditionExpression: aws.String("#status = :from"),
		UpdateExpression:    aws.String("SET #status = :to, #updated_at = :now, #audit = list_append(if_not_exists(#audit, :empty), :rec)"),
		ExpressionAttributeNames: map[string]string{
			"#status":     "status",
			"#updated_at": "updated_at",
			"#audit":      "audit_trail",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":from":  strValue(string(from)),
			":to":    strValue(string(to)),
			":now":   strValue(formatTime(now)),
			":empty": emptyList(),
			":rec":   recAV,
		},
	}, nil
}

func unmarshalInvoice(av map[string]types.AttributeValue) (entities.Invoice, error) {
	var it invoiceItem
	if err := attributevalue.UnmarshalMap(av, &it); err != nil {
		return entities.Invoice{}, err
	}
	return fromInvoiceItem(it), nil
}

func toInvoiceItem(inv entities.Invoice) invoiceItem {
	trail := make([]auditItem, 0, len(inv.AuditTrail))
	for _, rec := range inv.AuditTrail {
		trail = append(trail, toAuditItem(rec))
	}
	return invoiceItem{
		ID:                  inv.ID,
		OrderID:             inv.OrderID,
		PricingPolicy:       int(inv.PricingPolicy),
		BaseAmount:          decimalToString(inv.BaseAmount),
		TaxAmount:           decimalToString(inv.TaxAmount),
		ServiceChargeAmount: decimalToString(inv.ServiceChargeAmount),
		FinalAmount:         decimalToString(inv.FinalAmount),
		Currency:            inv.Currency,
		Gateway:             inv.Gateway,
		TransactionRef:      inv.TransactionRef,
		Status:              string(inv.Status),
		AuditTrail:          trail,
		CreatedAt:           formatTime(inv.CreatedAt),
		UpdatedAt:           formatTime(inv.UpdatedAt),
	}
}

func fromInvoiceItem(it invoiceItem) entities.Invoice {
	trail := make([]entities.AuditRecord, 0, len(it.AuditTrail))
	for _, a := range it.AuditTrail {
		trail = append(trail, fromAuditItem(a))
	}
	return entities.Invoice{
		ID:                  it.ID,
		OrderID:             it.OrderID,
		PricingPolicy:       entities.PricingPolicy(it.PricingPolicy),
		BaseAmount:          parseDecimal(it.BaseAmount),
		TaxAmount:           parseDecimal(it.TaxAmount),
		ServiceChargeAmount: parseDecimal(it.ServiceChargeAmount),
		FinalAmount:         parseDecimal(it.FinalAmount),
		Currency:            it.Currency,
		Gateway:             it.Gateway,
		TransactionRef:      it.TransactionRef,
		Status:              entities.InvoiceStatus(it.Status),
		AuditTrail:          trail,
		CreatedAt:           parseTime(it.CreatedAt),
		UpdatedAt:           parseTime(it.UpdatedAt),
	}
}

func mergeValues(a, b map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
