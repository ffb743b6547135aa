package middleware

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"restaurant_payments/pkg"

	"github.com/gin-gonic/gin"
	"github.com/xeipuuv/gojsonschema"
)

// IntentRequestSchema describes the POST /payments/{gateway}/intent body.
const IntentRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["order_id", "pricing_policy"],
  "properties": {
    "order_id": { "type": "string", "minLength": 1, "maxLength": 64 },
    "pricing_policy": { "type": "integer" },
    "gateway_data": {
      "type": "object",
      "properties": {
        "customer": {
          "type": "object",
          "properties": {
            "first_name": { "type": "string", "maxLength": 100 },
            "last_name": { "type": "string", "maxLength": 100 },
            "email": { "type": "string", "format": "email" },
            "phone": { "type": "string", "maxLength": 20 }
          },
          "additionalProperties": false
        },
        "method": { "type": "string", "enum": ["card", "instapay"] },
        "currency": { "type": "string", "pattern": "^[A-Za-z]{3}$" },
        "description": { "type": "string", "maxLength": 255 }
      },
      "additionalProperties": false
    }
  },
  "additionalProperties": false
}`

// ValidateJSON rejects bodies that do not match schema. The body is restored
// for the handler's own binding.
func ValidateJSON(schema string) gin.HandlerFunc {
	loader := gojsonschema.NewStringLoader(schema)
	compiled, err := gojsonschema.NewSchema(loader)
	if err != nil {
		panic(fmt.Sprintf("invalid request schema: %v", err))
	}
	return func(c *gin.Context) {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			abortInvalid(c, "unreadable body")
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))

		result, err := compiled.Validate(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			abortInvalid(c, err.Error())
			return
		}
		if !result.Valid() {
			var sb strings.Builder
			for i, e := range result.Errors() {
				if i > 0 {
					sb.WriteString("; ")
				}
				sb.WriteString(e.String())
			}
			abortInvalid(c, sb.String())
			return
		}
		c.Next()
	}
}

func abortInvalid(c *gin.Context, reason string) {
	log.Printf("[payment][handler] invalid body path=%s reason=%s", c.FullPath(), reason)
	appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request: "+reason, http.StatusBadRequest)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
}
