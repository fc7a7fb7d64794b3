package utils

import (
	"encoding/hex"
	"strings"
	"testing"

	"tabo/src/booking"
	"tabo/src/types"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCategories(t *testing.T) {
	ticket := DefaultCategories(types.LISTING_TICKET)
	assert.Len(t, ticket, 3)
	assert.Equal(t, "Adult", ticket[0].Label)
	assert.Equal(t, 1, ticket[0].Min)
	assert.False(t, ticket[2].ConsumesInventory, "lap infants take no seat")

	visa := DefaultCategories(types.LISTING_VISA)
	assert.Len(t, visa, 1)
	assert.Equal(t, "Applicant", visa[0].Label)
	assert.True(t, visa[0].ConsumesInventory)
}

func TestDefaultRules(t *testing.T) {
	plain := DefaultRules(types.LISTING_TICKET, false)
	assert.Len(t, plain, 2)

	withPassport := DefaultRules(types.LISTING_TICKET, true)
	assert.Len(t, withPassport, 4)
	assert.Equal(t, "passport_expiry", withPassport[3].Field)
	assert.Equal(t, booking.FieldDate, withPassport[3].Kind)
	assert.Equal(t, 6, withPassport[3].MinValidityMonths)

	visa := DefaultRules(types.LISTING_VISA, false)
	assert.Len(t, visa, 4)
}

func TestNewBookingReference(t *testing.T) {
	ref := NewBookingReference()
	assert.True(t, strings.HasPrefix(ref, "TB-"))
	assert.Len(t, ref, 13)
	assert.Equal(t, strings.ToUpper(ref), ref)

	other := NewBookingReference()
	assert.NotEqual(t, ref, other)
}

func TestDraftKey(t *testing.T) {
	assert.Equal(t, "draft:abc-123", DraftKey("abc-123"))
}

func TestEncryptDecryptMessage(t *testing.T) {
	key, err := hex.DecodeString("6368616e676520746869732070617373776f726420746f206120736563726574")
	assert.NoError(t, err)

	message := `{"bookingId":11,"reference":"TB-0123456789"}`
	sealed, err := EncryptMessage(key, message)
	assert.NoError(t, err)
	assert.NotEqual(t, message, sealed)

	opened, err := DecryptMessage(key, sealed)
	assert.NoError(t, err)
	assert.Equal(t, message, *opened)
}

func TestDecryptMessageWrongKey(t *testing.T) {
	key, _ := hex.DecodeString("6368616e676520746869732070617373776f726420746f206120736563726574")
	sealed, err := EncryptMessage(key, "hello")
	assert.NoError(t, err)

	wrong, _ := hex.DecodeString("0000000000000000000000000000000000000000000000000000000000000000")
	_, err = DecryptMessage(wrong, sealed)
	assert.Error(t, err)
}
