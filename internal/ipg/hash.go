package ipg

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	errors "github.com/frahmantamala/ipg-checkout/internal"
)

// TimestampLayout is the txndatetime format, YYYY:MM:DD-HH:MM:SS.
const TimestampLayout = "2006:01:02-15:04:05"

// HashAlgorithm is announced to the gateway in the hash_algorithm field.
const HashAlgorithm = "SHA256"

// LoadLocation resolves the merchant timezone. There is no fallback zone:
// a timestamp in the wrong zone yields a hash the gateway cannot verify.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return nil, errors.ErrInvalidTimezone.WithDetails("timezone is empty")
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.ErrInvalidTimezone.WithCause(err)
	}
	return loc, nil
}

func FormatTimestamp(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(TimestampLayout)
}

// CreateHash computes the request signature:
// sha256(hex(storeID + timestamp + amount + currency + sharedSecret)).
// The digest is taken over the hex text, not the raw bytes.
func CreateHash(storeID, timestamp, amount, currency, sharedSecret string) string {
	plain := storeID + timestamp + amount + currency + sharedSecret
	ascii := hex.EncodeToString([]byte(plain))
	sum := sha256.Sum256([]byte(ascii))
	return hex.EncodeToString(sum[:])
}
