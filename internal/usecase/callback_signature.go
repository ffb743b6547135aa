package usecase

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"

	"restaurant_payments/internal/domain/entities"
)

// SignCallback signs the success/cancel redirect URL handed to a gateway.
func SignCallback(key, gateway, invoiceID string, kind entities.CallbackKind) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(gateway + ":" + invoiceID + ":" + string(kind)))
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifyCallbackSignature(key, gateway, invoiceID string, kind entities.CallbackKind, sig string) bool {
	if key == "" || invoiceID == "" || sig == "" {
		return false
	}
	want := SignCallback(key, gateway, invoiceID, kind)
	return hmac.Equal([]byte(want), []byte(sig))
}

// callbackURL builds {base}/v1/payments/{gateway}/success|cancel?invoice_id=&sig=.
func callbackURL(base, key, gateway, invoiceID string, kind entities.CallbackKind) string {
	segment := "success"
	if kind == entities.CallbackCancel {
		segment = "cancel"
	}
	q := url.Values{}
	q.Set("invoice_id", invoiceID)
	q.Set("sig", SignCallback(key, gateway, invoiceID, kind))
	return fmt.Sprintf("%s/v1/payments/%s/%s?%s", base, url.PathEscape(gateway), segment, q.Encode())
}
