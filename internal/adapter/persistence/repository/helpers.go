package repository

import (
	"encoding/json"
	"errors"
	"time"

	"restaurant_payments/internal/domain/entities"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// errNotApplied rolls back a transaction whose compare-and-set lost.
var errNotApplied = errors.New("conditional write not applied")

type auditItem struct {
	At      string `dynamodbav:"at"`
	Event   string `dynamodbav:"event"`
	Payload string `dynamodbav:"payload,omitempty"`
}

func toAuditItem(rec entities.AuditRecord) auditItem {
	return auditItem{At: formatTime(rec.At), Event: rec.Event, Payload: string(rec.Payload)}
}

func fromAuditItem(it auditItem) entities.AuditRecord {
	rec := entities.AuditRecord{At: parseTime(it.At), Event: it.Event}
	if it.Payload != "" {
		rec.Payload = json.RawMessage(it.Payload)
	}
	return rec
}

// auditListValue is the one-element list appended with list_append.
func auditListValue(rec entities.AuditRecord) (types.AttributeValue, error) {
	av, err := attributevalue.MarshalMap(toAuditItem(rec))
	if err != nil {
		return nil, err
	}
	return &types.AttributeValueMemberL{Value: []types.AttributeValue{&types.AttributeValueMemberM{Value: av}}}, nil
}

func jsonPayload(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

func emptyList() types.AttributeValue {
	return &types.AttributeValueMemberL{Value: []types.AttributeValue{}}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func decimalToString(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func strValue(s string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: s}
}

func mergeNames(a, b map[string]string) map[string]string {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(map[string]string, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// conditionFailed reports whether a transaction was cancelled only by
// failed conditions or concurrent transactions, as opposed to a real fault.
func conditionFailed(err error) bool {
	var cfe *types.ConditionalCheckFailedException
	if errors.As(err, &cfe) {
		return true
	}
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return false
	}
	for _, r := range tce.CancellationReasons {
		if r.Code == nil {
			continue
		}
		switch *r.Code {
		case "None", "ConditionalCheckFailed", "TransactionConflict":
		default:
			return false
		}
	}
	return true
}
