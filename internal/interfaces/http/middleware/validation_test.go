package middleware

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
)

type shipmentRequest struct {
	Carrier string `json:"carrier" binding:"required,max=10"`
	Email   string `json:"contact_email" binding:"omitempty,email"`
	Status  string `json:"status" binding:"omitempty,oneof=PENDING SHIPPED"`
	Weight  int    `json:"weight" binding:"gte=0"`
}

func validate(t *testing.T, v any) error {
	t.Helper()
	SetupValidator()
	return binding.Validator.ValidateStruct(v)
}

func detailByField(details []dto.ValidationDetail) map[string]string {
	out := make(map[string]string, len(details))
	for _, d := range details {
		out[d.Field] = d.Message
	}
	return out
}

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	assert.NotNil(t, v)
}

func TestValidationDetails(t *testing.T) {
	t.Run("reports JSON field names with readable messages", func(t *testing.T) {
		err := validate(t, &shipmentRequest{
			Email:  "not-an-email",
			Status: "LOST",
			Weight: -1,
		})
		require.Error(t, err)

		details, ok := ValidationDetails(err)
		require.True(t, ok)

		byField := detailByField(details)
		assert.Equal(t, "This field is required.", byField["carrier"])
		assert.Equal(t, "Enter a valid email address.", byField["contact_email"])
		assert.Equal(t, "Must be one of: PENDING SHIPPED.", byField["status"])
		assert.Equal(t, "Ensure this value is greater than or equal to 0.", byField["weight"])
	})

	t.Run("string length messages", func(t *testing.T) {
		err := validate(t, &shipmentRequest{Carrier: strings.Repeat("c", 11)})
		require.Error(t, err)

		details, ok := ValidationDetails(err)
		require.True(t, ok)
		assert.Equal(t, "Ensure this field has no more than 10 characters.", detailByField(details)["carrier"])
	})

	t.Run("type mismatch in body", func(t *testing.T) {
		var req shipmentRequest
		err := json.Unmarshal([]byte(`{"carrier":"DHL","weight":"heavy"}`), &req)
		require.Error(t, err)

		details, ok := ValidationDetails(err)
		require.True(t, ok)
		require.Len(t, details, 1)
		assert.Equal(t, "weight", details[0].Field)
		assert.Equal(t, "Incorrect type. Expected int.", details[0].Message)
	})

	t.Run("malformed body is not a field error", func(t *testing.T) {
		var req shipmentRequest
		err := json.Unmarshal([]byte(`{"carrier":`), &req)
		require.Error(t, err)

		details, ok := ValidationDetails(err)
		assert.False(t, ok)
		assert.Nil(t, details)
	})
}
