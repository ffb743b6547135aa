package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"restaurant_payments/internal/domain/entities"
	appconfig "restaurant_payments/internal/infrastructure/config"
	"restaurant_payments/internal/infrastructure/database"
	"restaurant_payments/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ddbErrorPrefix = "com.amazonaws.dynamodb.v20120810#"

type ddbReply struct {
	status int
	body   string
}

type ddbRequest struct {
	op   string
	body map[string]any
}

// fakeDynamo answers DynamoDB JSON calls from per-operation reply queues and
// records every request it sees.
type fakeDynamo struct {
	t       *testing.T
	mu      sync.Mutex
	replies map[string][]ddbReply
	calls   []ddbRequest
}

func (f *fakeDynamo) reply(op string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[op] = append(f.replies[op], ddbReply{status: status, body: body})
}

func (f *fakeDynamo) ok(op, body string) { f.reply(op, http.StatusOK, body) }

func (f *fakeDynamo) conditionFailed(op string) {
	f.reply(op, http.StatusBadRequest, `{"__type":"`+ddbErrorPrefix+`ConditionalCheckFailedException","message":"The conditional request failed"}`)
}

func (f *fakeDynamo) cancelled(reasons ...string) {
	parts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		parts = append(parts, fmt.Sprintf(`{"Code":%q}`, r))
	}
	f.reply("TransactWriteItems", http.StatusBadRequest,
		`{"__type":"`+ddbErrorPrefix+`TransactionCanceledException","Message":"Transaction cancelled","CancellationReasons":[`+strings.Join(parts, ",")+`]}`)
}

func (f *fakeDynamo) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target := r.Header.Get("X-Amz-Target")
	op := target[strings.LastIndex(target, ".")+1:]

	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	_ = json.Unmarshal(raw, &body)

	f.mu.Lock()
	f.calls = append(f.calls, ddbRequest{op: op, body: body})
	queue := f.replies[op]
	var rep ddbReply
	if len(queue) > 0 {
		rep, f.replies[op] = queue[0], queue[1:]
	}
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/x-amz-json-1.0")
	if rep.status == 0 {
		f.t.Errorf("unexpected %s call", op)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"__type":"` + ddbErrorPrefix + `ValidationException","message":"unexpected call"}`))
		return
	}
	w.WriteHeader(rep.status)
	_, _ = w.Write([]byte(rep.body))
}

// requests returns the recorded calls of one operation in order.
func (f *fakeDynamo) requests(op string) []ddbRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ddbRequest
	for _, c := range f.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeDynamo) drained() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.replies {
		if len(q) > 0 {
			return false
		}
	}
	return true
}

func newFakeDynamo(t *testing.T) (*fakeDynamo, *dynamodb.Client, appconfig.DynamoDBConfig) {
	t.Helper()
	f := &fakeDynamo{t: t, replies: map[string][]ddbReply{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	cfg := appconfig.DynamoDBConfig{
		Region:          "us-east-1",
		Endpoint:        srv.URL,
		AccessKeyID:     "local",
		SecretAccessKey: "local",
		OrdersTable:     "orders",
		InvoicesTable:   "invoices",
		LockTTL:         time.Second,
		LockAttempts:    3,
		LockPoll:        time.Millisecond,
	}
	client, err := database.ConnectDynamoDB(context.Background(), cfg)
	require.NoError(t, err)
	return f, client, cfg
}

// dig walks decoded JSON by map keys and slice indexes.
func dig(v any, path ...any) any {
	for _, p := range path {
		switch k := p.(type) {
		case string:
			m, _ := v.(map[string]any)
			v = m[k]
		case int:
			s, _ := v.([]any)
			if k >= len(s) {
				return nil
			}
			v = s[k]
		}
	}
	return v
}

func digString(v any, path ...any) string {
	s, _ := dig(v, path...).(string)
	return s
}

func orderJSON(status, active string) string {
	fields := []string{
		`"id":{"S":"order-1"}`,
		`"user_id":{"S":"user-1"}`,
		`"total_amount":{"S":"100.00"}`,
		`"status":{"S":"` + status + `"}`,
		`"created_at":{"S":"2026-01-01T00:00:00Z"}`,
		`"updated_at":{"S":"2026-01-01T00:00:00Z"}`,
	}
	if active != "" {
		fields = append(fields, `"active_invoice_id":{"S":"`+active+`"}`)
	}
	return "{" + strings.Join(fields, ",") + "}"
}

func invoiceJSON(id, status, ref string) string {
	fields := []string{
		`"id":{"S":"` + id + `"}`,
		`"order_id":{"S":"order-1"}`,
		`"pricing_policy":{"N":"1"}`,
		`"base_amount":{"S":"100.00"}`,
		`"tax_amount":{"S":"14.00"}`,
		`"service_charge_amount":{"S":"0.00"}`,
		`"final_amount":{"S":"114.00"}`,
		`"currency":{"S":"USD"}`,
		`"gateway":{"S":"stripe"}`,
		`"status":{"S":"` + status + `"}`,
		`"audit_trail":{"L":[{"M":{"at":{"S":"2026-01-01T00:00:00Z"},"event":{"S":"invoice_created"}}}]}`,
		`"created_at":{"S":"2026-01-01T00:00:00Z"}`,
		`"updated_at":{"S":"2026-01-01T00:00:00Z"}`,
	}
	if ref != "" {
		fields = append(fields, `"transaction_ref":{"S":"`+ref+`"}`)
	}
	return "{" + strings.Join(fields, ",") + "}"
}

func TestOrderLease_AcquireAndRelease(t *testing.T) {
	f, client, cfg := newFakeDynamo(t)
	ctx := context.Background()

	// held by someone else on the first attempt
	f.conditionFailed("UpdateItem")
	f.ok("GetItem", `{"Item":`+orderJSON("pending", "")+`}`)
	f.ok("UpdateItem", `{"Attributes":`+orderJSON("pending", "inv-1")+`}`)
	f.ok("UpdateItem", `{}`)

	lease := newOrderLease(client, cfg, "order-1")
	order, found, err := lease.acquire(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, "inv-1", order.ActiveInvoiceID)

	lease.release(ctx)

	updates := f.requests("UpdateItem")
	require.Len(t, updates, 3)
	for _, acquire := range updates[:2] {
		assert.Equal(t, "orders", digString(acquire.body, "TableName"))
		assert.Equal(t, "attribute_exists(#id) AND (attribute_not_exists(#owner) OR #expires < :now)", digString(acquire.body, "ConditionExpression"))
		assert.Equal(t, lease.owner, digString(acquire.body, "ExpressionAttributeValues", ":owner", "S"))
	}
	release := updates[2]
	assert.Equal(t, "REMOVE #owner, #expires", digString(release.body, "UpdateExpression"))
	assert.Equal(t, "#owner = :owner", digString(release.body, "ConditionExpression"))
	assert.Equal(t, lease.owner, digString(release.body, "ExpressionAttributeValues", ":owner", "S"))
	assert.True(t, f.drained())
}

func TestOrderLease_AcquireGivesUp(t *testing.T) {
	f, client, cfg := newFakeDynamo(t)
	for i := 0; i < cfg.LockAttempts; i++ {
		f.conditionFailed("UpdateItem")
		f.ok("GetItem", `{"Item":`+orderJSON("pending", "")+`}`)
	}

	_, found, err := newOrderLease(client, cfg, "order-1").acquire(context.Background())
	assert.ErrorIs(t, err, interfaces.ErrOrderLocked)
	assert.False(t, found)
	assert.Len(t, f.requests("UpdateItem"), cfg.LockAttempts)
}

func TestOrderLease_MissingOrder(t *testing.T) {
	f, client, cfg := newFakeDynamo(t)
	f.conditionFailed("UpdateItem")
	f.ok("GetItem", `{}`)

	_, found, err := newOrderLease(client, cfg, "order-1").acquire(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvoiceDynamoRepository_ReserveInvoiceSupersedes(t *testing.T) {
	f, client, cfg := newFakeDynamo(t)
	repo := NewInvoiceDynamoRepository(client, cfg)

	f.ok("UpdateItem", `{"Attributes":`+orderJSON("pending", "inv-1")+`}`)
	f.ok("GetItem", `{"Item":`+invoiceJSON("inv-1", "pending", "pi_1")+`}`)
	f.ok("TransactWriteItems", `{}`)
	f.ok("UpdateItem", `{}`)

	inv, order, err := repo.ReserveInvoice(context.Background(), "order-1", invoiceFor("inv-2"))
	require.NoError(t, err)
	assert.Equal(t, "inv-2", inv.ID)
	assert.Equal(t, "inv-2", order.ActiveInvoiceID)

	txs := f.requests("TransactWriteItems")
	require.Len(t, txs, 1)
	items := dig(txs[0].body, "TransactItems").([]any)
	require.Len(t, items, 3)

	assert.Equal(t, "invoices", digString(items[0], "Put", "TableName"))
	assert.Equal(t, "attribute_not_exists(#id)", digString(items[0], "Put", "ConditionExpression"))
	assert.Equal(t, "inv-2", digString(items[0], "Put", "Item", "id", "S"))

	assert.Equal(t, "orders", digString(items[1], "Update", "TableName"))
	assert.Equal(t, "#owner = :owner AND #status = :pending", digString(items[1], "Update", "ConditionExpression"))
	assert.Equal(t, "inv-2", digString(items[1], "Update", "ExpressionAttributeValues", ":inv", "S"))

	prev := items[2]
	assert.Equal(t, "inv-1", digString(prev, "Update", "Key", "id", "S"))
	assert.Equal(t, "#status = :from", digString(prev, "Update", "ConditionExpression"))
	assert.Equal(t, "cancelled", digString(prev, "Update", "ExpressionAttributeValues", ":to", "S"))
	assert.Contains(t, digString(prev, "Update", "UpdateExpression"), "list_append(if_not_exists(#audit, :empty), :rec)")
	assert.Equal(t, entities.AuditSuperseded, digString(prev, "Update", "ExpressionAttributeValues", ":rec", "L", 0, "M", "event", "S"))

	// lease released after the write
	assert.Len(t, f.requests("UpdateItem"), 2)
	assert.True(t, f.drained())
}

func TestInvoiceDynamoRepository_ReserveInvoiceLostRace(t *testing.T) {
	tests := []struct {
		name    string
		current string
		wantErr error
	}{
		{name: "previous invoice completed meanwhile", current: "paid", wantErr: entities.ErrAlreadyPaid},
		{name: "order changed otherwise", current: "pending", wantErr: interfaces.ErrConcurrentUpdate},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, client, cfg := newFakeDynamo(t)
			repo := NewInvoiceDynamoRepository(client, cfg)

			f.ok("UpdateItem", `{"Attributes":`+orderJSON("pending", "inv-1")+`}`)
			f.ok("GetItem", `{"Item":`+invoiceJSON("inv-1", "pending", "pi_1")+`}`)
			f.cancelled("None", "ConditionalCheckFailed", "ConditionalCheckFailed")
			f.ok("GetItem", `{"Item":`+orderJSON(tc.current, "inv-1")+`}`)
			f.ok("UpdateItem", `{}`)

			_, _, err := repo.ReserveInvoice(context.Background(), "order-1", invoiceFor("inv-2"))
			assert.ErrorIs(t, err, tc.wantErr)
			assert.True(t, f.drained())
		})
	}
}

func TestInvoiceDynamoRepository_AttachTransaction(t *testing.T) {
	t.Run("pending active invoice", func(t *testing.T) {
		f, client, cfg := newFakeDynamo(t)
		repo := NewInvoiceDynamoRepository(client, cfg)
		f.ok("GetItem", `{"Item":`+invoiceJSON("inv-1", "pending", "")+`}`)
		f.ok("TransactWriteItems", `{}`)

		inv, err := repo.AttachTransaction(context.Background(), "inv-1", "pi_123", entities.NewAuditRecord(entities.AuditIntentCreated, []byte(`{"ref":"pi_123"}`)))
		require.NoError(t, err)
		assert.Equal(t, "pi_123", inv.TransactionRef)
		assert.Equal(t, entities.InvoiceStatusPending, inv.Status)
		require.Len(t, inv.AuditTrail, 2)
		assert.Equal(t, entities.AuditIntentCreated, inv.AuditTrail[1].Event)

		items := dig(f.requests("TransactWriteItems")[0].body, "TransactItems").([]any)
		require.Len(t, items, 2)
		assert.Equal(t, "attribute_exists(#id) AND attribute_not_exists(#ref) AND #status = :pending", digString(items[0], "Update", "ConditionExpression"))
		assert.Equal(t, "pi_123", digString(items[0], "Update", "ExpressionAttributeValues", ":ref", "S"))
		assert.Equal(t, "orders", digString(items[1], "ConditionCheck", "TableName"))
		assert.Equal(t, "order-1", digString(items[1], "ConditionCheck", "Key", "id", "S"))
		assert.Equal(t, "#status = :pending AND #active = :inv", digString(items[1], "ConditionCheck", "ConditionExpression"))
		assert.Equal(t, "inv-1", digString(items[1], "ConditionCheck", "ExpressionAttributeValues", ":inv", "S"))
	})

	t.Run("superseded invoice is refused", func(t *testing.T) {
		f, client, cfg := newFakeDynamo(t)
		repo := NewInvoiceDynamoRepository(client, cfg)
		f.ok("GetItem", `{"Item":`+invoiceJSON("inv-1", "pending", "")+`}`)
		f.cancelled("ConditionalCheckFailed", "ConditionalCheckFailed")
		f.ok("GetItem", `{"Item":`+invoiceJSON("inv-1", "cancelled", "")+`}`)

		got, err := repo.AttachTransaction(context.Background(), "inv-1", "pi_late", entities.NewAuditRecord(entities.AuditIntentCreated, nil))
		assert.ErrorIs(t, err, interfaces.ErrConcurrentUpdate)
		assert.Equal(t, entities.InvoiceStatusCancelled, got.Status)
		assert.Empty(t, got.TransactionRef)
	})

	t.Run("unknown invoice", func(t *testing.T) {
		f, client, cfg := newFakeDynamo(t)
		repo := NewInvoiceDynamoRepository(client, cfg)
		f.ok("GetItem", `{}`)

		_, err := repo.AttachTransaction(context.Background(), "ghost", "pi_1", entities.NewAuditRecord(entities.AuditIntentCreated, nil))
		assert.ErrorIs(t, err, entities.ErrInvoiceNotFound)
		assert.Empty(t, f.requests("TransactWriteItems"))
	})
}

func TestInvoiceDynamoRepository_AppendAudit(t *testing.T) {
	f, client, cfg := newFakeDynamo(t)
	repo := NewInvoiceDynamoRepository(client, cfg)
	f.ok("UpdateItem", `{}`)
	f.conditionFailed("UpdateItem")

	require.NoError(t, repo.AppendAudit(context.Background(), "inv-1", entities.NewAuditRecord(entities.AuditVerificationPull, []byte(`{"status":"pending"}`))))
	err := repo.AppendAudit(context.Background(), "ghost", entities.NewAuditRecord(entities.AuditVerificationPull, nil))
	assert.ErrorIs(t, err, entities.ErrInvoiceNotFound)

	req := f.requests("UpdateItem")[0]
	assert.Equal(t, "SET #audit = list_append(if_not_exists(#audit, :empty), :rec), #updated_at = :now", digString(req.body, "UpdateExpression"))
	assert.Equal(t, "attribute_exists(#id)", digString(req.body, "ConditionExpression"))
	assert.Equal(t, entities.AuditVerificationPull, digString(req.body, "ExpressionAttributeValues", ":rec", "L", 0, "M", "event", "S"))
	assert.JSONEq(t, `{"status":"pending"}`, digString(req.body, "ExpressionAttributeValues", ":rec", "L", 0, "M", "payload", "S"))
	assert.Equal(t, []any{}, dig(req.body, "ExpressionAttributeValues", ":empty", "L"))
}

func TestInvoiceDynamoRepository_TransitionStatus(t *testing.T) {
	inv := entities.Invoice{ID: "inv-1", OrderID: "order-1", Status: entities.InvoiceStatusPending}
	rec := entities.NewAuditRecord(entities.AuditStatusTransition, nil)

	t.Run("applied", func(t *testing.T) {
		f, client, cfg := newFakeDynamo(t)
		f.ok("TransactWriteItems", `{}`)

		applied, err := NewInvoiceDynamoRepository(client, cfg).TransitionStatus(context.Background(), inv, entities.InvoiceStatusCompleted, rec)
		require.NoError(t, err)
		assert.True(t, applied)

		items := dig(f.requests("TransactWriteItems")[0].body, "TransactItems").([]any)
		require.Len(t, items, 2)
		assert.Equal(t, "#status = :from", digString(items[0], "Update", "ConditionExpression"))
		assert.Equal(t, "pending", digString(items[0], "Update", "ExpressionAttributeValues", ":from", "S"))
		assert.Equal(t, "completed", digString(items[0], "Update", "ExpressionAttributeValues", ":to", "S"))
		assert.Equal(t, "#status = :pending AND #active = :inv", digString(items[1], "Update", "ConditionExpression"))
		assert.Equal(t, "paid", digString(items[1], "Update", "ExpressionAttributeValues", ":next", "S"))
	})

	t.Run("lost condition is not applied", func(t *testing.T) {
		f, client, cfg := newFakeDynamo(t)
		f.cancelled("ConditionalCheckFailed", "None")

		applied, err := NewInvoiceDynamoRepository(client, cfg).TransitionStatus(context.Background(), inv, entities.InvoiceStatusFailed, rec)
		require.NoError(t, err)
		assert.False(t, applied)
	})

	t.Run("other cancellation is an error", func(t *testing.T) {
		f, client, cfg := newFakeDynamo(t)
		f.cancelled("ValidationError", "None")

		_, err := NewInvoiceDynamoRepository(client, cfg).TransitionStatus(context.Background(), inv, entities.InvoiceStatusFailed, rec)
		assert.Error(t, err)
	})
}
