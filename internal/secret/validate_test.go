package secret

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgvault/orgvault/internal/common"
)

func validWebLogin() WebLogin {
	return WebLogin{URL: "https://example.com/login", Username: "alice", Password: "pw123"}
}

func validCreditCard() CreditCard {
	return CreditCard{CardNumber: "4111111111111111", ExpirationDate: "04/27", CVV: "123"}
}

func validSecureNote() SecureNote {
	return SecureNote{Content: "remember the milk"}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *common.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	m := make(map[string]string, len(verr.Fields))
	for _, f := range verr.Fields {
		m[f.Field] = f.Message
	}
	return m
}

func TestValidate_AcceptsConformingVariants(t *testing.T) {
	assert.NoError(t, Validate(validWebLogin()))
	assert.NoError(t, Validate(validCreditCard()))
	assert.NoError(t, Validate(validSecureNote()))
}

func TestValidate_WebLogin(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*WebLogin)
		field   string
		message string
	}{
		{"missing url", func(v *WebLogin) { v.URL = "" }, "url", "Invalid URL"},
		{"malformed url", func(v *WebLogin) { v.URL = "not a url" }, "url", "Invalid URL"},
		{"missing username", func(v *WebLogin) { v.Username = "" }, "username", "Username is required"},
		{"missing password", func(v *WebLogin) { v.Password = "" }, "password", "Password is required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := validWebLogin()
			tc.mutate(&v)
			fields := fieldsOf(t, Validate(v))
			assert.Equal(t, tc.message, fields[tc.field])
		})
	}
}

func TestValidate_CreditCard(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreditCard)
		field  string
	}{
		{"card number too short", func(v *CreditCard) { v.CardNumber = "411111111111" }, "cardNumber"},
		{"card number too long", func(v *CreditCard) { v.CardNumber = "41111111111111111111" }, "cardNumber"},
		{"card number with letters", func(v *CreditCard) { v.CardNumber = "4111x11111111111" }, "cardNumber"},
		{"missing card number", func(v *CreditCard) { v.CardNumber = "" }, "cardNumber"},
		{"month 00", func(v *CreditCard) { v.ExpirationDate = "00/25" }, "expirationDate"},
		{"month 13", func(v *CreditCard) { v.ExpirationDate = "13/25" }, "expirationDate"},
		{"four digit year", func(v *CreditCard) { v.ExpirationDate = "04/2027" }, "expirationDate"},
		{"wrong separator", func(v *CreditCard) { v.ExpirationDate = "04-27" }, "expirationDate"},
		{"cvv too short", func(v *CreditCard) { v.CVV = "12" }, "cvv"},
		{"cvv too long", func(v *CreditCard) { v.CVV = "12345" }, "cvv"},
		{"cvv with letters", func(v *CreditCard) { v.CVV = "12a" }, "cvv"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := validCreditCard()
			tc.mutate(&v)
			fields := fieldsOf(t, Validate(v))
			assert.Contains(t, fields, tc.field)
		})
	}
}

func TestValidate_SecureNote(t *testing.T) {
	fields := fieldsOf(t, Validate(SecureNote{}))
	assert.Equal(t, "Content is required", fields["content"])
}

func TestValidate_ReportsEveryFailingField(t *testing.T) {
	fields := fieldsOf(t, Validate(WebLogin{}))
	assert.Len(t, fields, 3)
	assert.Contains(t, fields, "url")
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "password")
}

func TestValidate_NilVariant(t *testing.T) {
	assert.ErrorIs(t, Validate(nil), common.ErrUnsupportedType)
}

type bogusVariant struct{}

func (bogusVariant) Kind() Kind { return Kind("bogus") }

func TestValidate_UnknownVariant(t *testing.T) {
	assert.ErrorIs(t, Validate(bogusVariant{}), common.ErrUnsupportedType)
}
