package utils

import (
	"fmt"
	"math/rand"
	"time"
)

const tokenCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateRandomToken returns a short random suffix used in locally
// generated aggregate ids and payment references.
func GenerateRandomToken(length int) string {
	token := make([]byte, length)
	for i := range token {
		token[i] = tokenCharset[rand.Intn(len(tokenCharset))]
	}
	return string(token)
}

// GenerateLocalID builds ids of the form "<kind>_<millis>_<suffix>" for
// aggregates created client-side before any persistence round trip.
func GenerateLocalID(kind string) string {
	return fmt.Sprintf("%s_%d_%s", kind, time.Now().UnixMilli(), GenerateRandomToken(9))
}

// GeneratePaymentReference returns a reference suitable for handing to the
// payment gateway and later matching back against a pending donation.
func GeneratePaymentReference() string {
	return fmt.Sprintf("PAY_%d_%s", time.Now().UnixMilli(), GenerateRandomToken(9))
}
