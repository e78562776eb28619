package secret

import (
	"encoding/json"
	"fmt"

	"github.com/orgvault/orgvault/internal/common"
)

// The envelope is a single JSON object carrying the discriminant tag next to
// the variant's own fields, e.g.:
//
//	{"type":"web","url":"https://x","username":"u","password":"p"}
//
// Field order is irrelevant on decode.

type webLoginEnvelope struct {
	Type Kind `json:"type"`
	WebLogin
}

type creditCardEnvelope struct {
	Type Kind `json:"type"`
	CreditCard
}

type secureNoteEnvelope struct {
	Type Kind `json:"type"`
	SecureNote
}

// Encode serializes a variant to its canonical envelope form.
func Encode(v Variant) ([]byte, error) {
	switch t := v.(type) {
	case WebLogin:
		return json.Marshal(webLoginEnvelope{Type: t.Kind(), WebLogin: t})
	case CreditCard:
		return json.Marshal(creditCardEnvelope{Type: t.Kind(), CreditCard: t})
	case SecureNote:
		return json.Marshal(secureNoteEnvelope{Type: t.Kind(), SecureNote: t})
	default:
		return nil, fmt.Errorf("%w: %T", common.ErrUnsupportedType, v)
	}
}

// Decode reconstructs the variant encoded in data. An empty or malformed
// buffer yields common.ErrDecode; a recognized envelope with an unknown tag
// yields common.ErrUnsupportedType.
func Decode(data []byte) (Variant, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", common.ErrDecode)
	}

	var head struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecode, err)
	}

	switch head.Type {
	case KindWebLogin:
		var v WebLogin
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrDecode, err)
		}
		return v, nil
	case KindCreditCard:
		var v CreditCard
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrDecode, err)
		}
		return v, nil
	case KindSecureNote:
		var v SecureNote
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrDecode, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedType, head.Type)
	}
}
