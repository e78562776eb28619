// Package secret defines the tagged union of supported secret shapes, the
// field-level validation rules for each shape, and the envelope codec that
// turns a variant into the canonical byte form stored encrypted at rest.
package secret

// Kind discriminates the supported secret shapes. The values are the wire
// tags stored inside every encoded envelope and in the record metadata.
type Kind string

const (
	KindWebLogin   Kind = "web"
	KindCreditCard Kind = "credit_card"
	KindSecureNote Kind = "secure_note"
)

// IsValid reports whether k is one of the supported kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindWebLogin, KindCreditCard, KindSecureNote:
		return true
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}

// Variant is one of the mutually exclusive secret shapes. Implementations
// are plain value types; two variants are equal iff all their fields match.
type Variant interface {
	Kind() Kind
}

// WebLogin holds credentials for a web site.
type WebLogin struct {
	URL      string `json:"url" validate:"required,url"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (WebLogin) Kind() Kind { return KindWebLogin }

// CreditCard holds payment card details.
type CreditCard struct {
	CardNumber     string `json:"cardNumber" validate:"required,cardnumber"`
	ExpirationDate string `json:"expirationDate" validate:"required,expdate"`
	CVV            string `json:"cvv" validate:"required,cvv"`
}

func (CreditCard) Kind() Kind { return KindCreditCard }

// SecureNote holds free-form confidential text.
type SecureNote struct {
	Content string `json:"content" validate:"required"`
}

func (SecureNote) Kind() Kind { return KindSecureNote }
