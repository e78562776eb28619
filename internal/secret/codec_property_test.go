package secret

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genWebLogin generates fully-conforming web login variants.
func genWebLogin() gopter.Gen {
	return gopter.CombineGens(
		gen.Identifier(),
		gen.Identifier(),
		gen.AnyString().SuchThat(func(s string) bool { return len(s) > 0 }),
	).Map(func(vals []interface{}) WebLogin {
		return WebLogin{
			URL:      "https://" + vals[0].(string) + ".example.com/login",
			Username: vals[1].(string),
			Password: vals[2].(string),
		}
	})
}

// genCreditCard generates fully-conforming credit card variants.
func genCreditCard() gopter.Gen {
	return gopter.CombineGens(
		gen.RegexMatch(`[0-9]{13,19}`),
		gen.IntRange(1, 12),
		gen.IntRange(0, 99),
		gen.RegexMatch(`[0-9]{3,4}`),
	).Map(func(vals []interface{}) CreditCard {
		month := vals[1].(int)
		year := vals[2].(int)
		return CreditCard{
			CardNumber:     vals[0].(string),
			ExpirationDate: twoDigits(month) + "/" + twoDigits(year),
			CVV:            vals[3].(string),
		}
	})
}

// genSecureNote generates fully-conforming secure note variants.
func genSecureNote() gopter.Gen {
	return gen.AnyString().
		SuchThat(func(s string) bool { return len(s) > 0 }).
		Map(func(s string) SecureNote { return SecureNote{Content: s} })
}

func twoDigits(n int) string {
	return string([]byte{byte('0' + n/10), byte('0' + n%10)})
}

func TestCodecRoundTripProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	roundTrips := func(v Variant) bool {
		data, err := Encode(v)
		if err != nil {
			return false
		}
		got, err := Decode(data)
		if err != nil {
			return false
		}
		return got == v
	}

	properties.Property("web login round-trips", prop.ForAll(
		func(v WebLogin) bool { return roundTrips(v) },
		genWebLogin(),
	))

	properties.Property("credit card round-trips", prop.ForAll(
		func(v CreditCard) bool { return roundTrips(v) },
		genCreditCard(),
	))

	properties.Property("secure note round-trips", prop.ForAll(
		func(v SecureNote) bool { return roundTrips(v) },
		genSecureNote(),
	))

	properties.TestingRun(t)
}

func TestValidationAcceptanceProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("generated credit cards validate", prop.ForAll(
		func(v CreditCard) bool { return Validate(v) == nil },
		genCreditCard(),
	))

	properties.Property("generated secure notes validate", prop.ForAll(
		func(v SecureNote) bool { return Validate(v) == nil },
		genSecureNote(),
	))

	properties.TestingRun(t)
}
