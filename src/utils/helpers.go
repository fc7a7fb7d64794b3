package utils

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"tabo/src/booking"
	"tabo/src/config"
	"tabo/src/db"
	"tabo/src/lib"
	"tabo/src/models"
	"tabo/src/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const DraftTTL = 1 * time.Hour

var ErrInventoryChanged = errors.New("inventory changed since the dialog was opened")
var ErrListingNotOpen = errors.New("listing is not open for booking")

func IsProd() bool {
	return os.Getenv("API_ENV") == "production"
}

// DefaultCategories is the category set a listing gets when the creator
// does not spell one out: the classic Adult/Child/Infant split for seat
// blocks, a single Applicant pool for visa quotas. Lap infants ride free
// and take no seat.
func DefaultCategories(kind types.ListingKind) []booking.Category {
	if kind == types.LISTING_VISA {
		return []booking.Category{
			{Label: "Applicant", Min: 1, ConsumesInventory: true, DefaultTitle: "Mr"},
		}
	}
	return []booking.Category{
		{Label: "Adult", Min: 1, ConsumesInventory: true, DefaultTitle: "Mr"},
		{Label: "Child", Min: 0, ConsumesInventory: true, DefaultTitle: "Miss"},
		{Label: "Infant", Min: 0, ConsumesInventory: false, DefaultTitle: "Inf"},
	}
}

// DefaultRules expands listing-level flags into the declarative required
// field set the assembler interprets.
func DefaultRules(kind types.ListingKind, requirePassport bool) []booking.FieldRule {
	rules := []booking.FieldRule{
		{Field: "first_name"},
		{Field: "last_name"},
	}
	if kind == types.LISTING_VISA || requirePassport {
		rules = append(rules,
			booking.FieldRule{Field: "passport_no"},
			booking.FieldRule{Field: "passport_expiry", Kind: booking.FieldDate, MinValidityMonths: 6},
		)
	}
	return rules
}

func CreateNewListing(ctx *gin.Context, params *types.CreateListingRequestBody) (uint, error) {
	agencyId := ctx.GetUint("agency")
	cats := params.Categories
	if len(cats) == 0 {
		cats = DefaultCategories(params.Kind)
	}
	rules := params.Rules
	if len(rules) == 0 {
		rules = DefaultRules(params.Kind, params.RequirePassport)
	}
	status := types.LISTING_DRAFT
	if params.Publish {
		status = types.LISTING_OPEN
	}
	var departsAt *time.Time
	if params.DepartsAt != nil {
		t, err := time.Parse(config.TIME_PARSE_FORMAT, *params.DepartsAt)
		if err != nil {
			return 0, err
		}
		departsAt = &t
	}
	catSet := types.CategorySet(cats)
	ruleSet := types.RuleSet(rules)
	listing := models.Listing{
		Kind:        params.Kind,
		Title:       params.Title,
		Slug:        slug.Make(params.Title),
		Origin:      params.Origin,
		Destination: params.Destination,
		Country:     params.Country,
		Airline:     params.Airline,
		DepartsAt:   departsAt,
		UnitPrice:   params.UnitPrice,
		Currency:    params.Currency,
		SeatsTotal:  params.Seats,
		Status:      status,
		Categories:  &catSet,
		Rules:       &ruleSet,
		AgencyID:    agencyId,
	}
	database := db.GetDb()
	err := database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&listing).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("error creating Listing: %s\n", err.Error())
		return 0, err
	}
	return listing.ID, nil
}

func GetListing(id uint) (*models.Listing, error) {
	var listing models.Listing
	database := db.GetDb()
	err := database.
		Model(&models.Listing{}).
		Where(&models.Listing{ID: id}).
		First(&listing).
		Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetListingSeats recounts the listing's live inventory: committed is the
// sum of seats held by pending and confirmed bookings, free is whatever the
// block has left, clamped at zero.
func GetListingSeats(id uint) (free uint, committed uint, err error) {
	database := db.GetDb()
	var listing models.Listing
	err = database.
		Model(&models.Listing{}).
		Where(&models.Listing{ID: id}).
		First(&listing).
		Error
	if err != nil {
		return
	}
	var taken int64
	err = database.
		Model(&models.Booking{}).
		Select("COALESCE(SUM(seats_taken), 0)").
		Where("listing_id = ?", id).
		Where("status IN ?", []types.BookingStatus{types.BOOKING_PENDING, types.BOOKING_CONFIRMED}).
		Scan(&taken).
		Error
	if err != nil {
		return
	}
	committed = uint(taken)
	if committed < listing.SeatsTotal {
		free = listing.SeatsTotal - committed
	}
	return
}

func PublishListing(id uint) error {
	database := db.GetDb()
	return database.
		Model(&models.Listing{}).
		Where(&models.Listing{ID: id, Status: types.LISTING_DRAFT}).
		Update("status", types.LISTING_OPEN).
		Error
}

func CloseListing(id uint) error {
	database := db.GetDb()
	return database.
		Model(&models.Listing{}).
		Where("id = ?", id).
		Update("status", types.LISTING_CLOSED).
		Error
}

func DraftKey(id string) string {
	return fmt.Sprintf("draft:%s", id)
}

func SaveDraft(ctx context.Context, d *booking.Draft) error {
	rd := lib.GetRedisClient()
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return rd.Set(ctx, DraftKey(d.ID), string(b), DraftTTL).Err()
}

func LoadDraft(ctx context.Context, id string) (*booking.Draft, error) {
	rd := lib.GetRedisClient()
	val, err := rd.Get(ctx, DraftKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("draft %s not found", id)
		}
		return nil, err
	}
	var d booking.Draft
	if err := json.Unmarshal([]byte(val), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func DeleteDraft(ctx context.Context, id string) error {
	rd := lib.GetRedisClient()
	return rd.Del(ctx, DraftKey(id)).Err()
}

func NewBookingReference() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("TB-%s", strings.ToUpper(raw[:10]))
}

// SubmitBooking commits an assembled payload: inside one transaction the
// listing's live committed seats are recounted and the booking is rejected
// if another buyer consumed the block since the dialog was opened. On
// success it persists the booking, its passengers in dialog order, and a
// pending transaction.
func SubmitBooking(ctx *gin.Context, d *booking.Draft, payload *booking.Payload) (*models.Booking, error) {
	userId := ctx.GetUint("id")
	agencyId := ctx.GetUint("agency")
	tenantId, _ := uuid.Parse(ctx.GetString("tenant_id"))

	database := db.GetDb()
	var created models.Booking
	err := database.Transaction(func(tx *gorm.DB) error {
		var listing models.Listing
		if err := tx.
			Model(&models.Listing{}).
			Where(&models.Listing{ID: payload.ListingID}).
			First(&listing).
			Error; err != nil {
			return err
		}
		if listing.Status != types.LISTING_OPEN {
			return ErrListingNotOpen
		}
		var taken int64
		if err := tx.
			Model(&models.Booking{}).
			Select("COALESCE(SUM(seats_taken), 0)").
			Where("listing_id = ?", listing.ID).
			Where("status IN ?", []types.BookingStatus{types.BOOKING_PENDING, types.BOOKING_CONFIRMED}).
			Scan(&taken).
			Error; err != nil {
			return err
		}
		free := int(listing.SeatsTotal) - int(taken)
		if payload.SeatsTaken > free {
			log.Printf("Listing [%d] has %d seats free, %d wanted\n", listing.ID, free, payload.SeatsTaken)
			return ErrInventoryChanged
		}

		txn := models.Transaction{
			ID:       uuid.New(),
			Currency: listing.Currency,
			Amount:   payload.Final,
			Status:   types.TRANSACTION_PENDING,
			AgencyID: agencyId,
		}
		breakdown := types.BreakdownSet(payload.Breakdown)
		amounts := d.Amounts()
		created = models.Booking{
			Reference:     NewBookingReference(),
			ListingID:     listing.ID,
			Status:        types.BOOKING_PENDING,
			SeatsTaken:    uint(payload.SeatsTaken),
			Breakdown:     &breakdown,
			UnitPrice:     d.UnitPrice,
			TotalAmount:   amounts.Total,
			Discount:      d.Discount,
			FinalAmount:   amounts.Final,
			Currency:      listing.Currency,
			UserID:        userId,
			AgencyID:      agencyId,
			TenantID:      &tenantId,
			TransactionID: &txn.ID,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("error in Booking transaction: %s", err.Error())
		}
		txn.BookingID = created.ID
		txn.ReferenceID = created.Reference
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}
		for i, a := range payload.Applicants {
			fields := types.JSONB{}
			for k, v := range a.Fields {
				fields[k] = v
			}
			passenger := models.Passenger{
				BookingID: created.ID,
				Category:  a.Category,
				Position:  uint(i),
				Fields:    fields,
				TenantID:  &tenantId,
			}
			if err := tx.Create(&passenger).Error; err != nil {
				log.Printf("error in Passenger transaction: %s\n", err.Error())
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("SubmitBooking failed: %s\n", err.Error())
		return nil, err
	}
	return &created, nil
}

// ExpireStaleBookings moves pending bookings past their hold window to
// expired, releasing their seats back to the pool. Runs on the scheduler.
func ExpireStaleBookings() {
	database := db.GetDb()
	cutoff := time.Now().Add(-DraftTTL)
	err := database.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.
			Model(&models.Booking{}).
			Where("status = ?", types.BOOKING_PENDING).
			Where("created_at < ?", cutoff).
			Pluck("id", &ids).
			Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.
			Model(&models.Booking{}).
			Where("id IN ?", ids).
			Update("status", types.BOOKING_EXPIRED).
			Error; err != nil {
			return err
		}
		if err := tx.
			Model(&models.Transaction{}).
			Where("booking_id IN ?", ids).
			Where("status = ?", types.TRANSACTION_PENDING).
			Update("status", types.TRANSACTION_EXPIRED).
			Error; err != nil {
			return err
		}
		log.Printf("Expired %d stale pending bookings\n", len(ids))
		return nil
	})
	if err != nil {
		log.Printf("Error expiring stale bookings: %s\n", err.Error())
	}
}

func EncryptMessage(key []byte, message string) (string, error) {
	plaintext := []byte(message)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	cipherText := gcm.Seal(nonce, nonce, plaintext, nil)
	encodedString := hex.EncodeToString(cipherText)

	return encodedString, nil
}

func DecryptMessage(key []byte, message string) (*string, error) {
	cipherText, err := hex.DecodeString(message)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	decryptedData, err := gcm.Open(nil, cipherText[:gcm.NonceSize()], cipherText[gcm.NonceSize():], nil)
	if err != nil {
		return nil, err
	}
	decodedString := string(decryptedData)

	return &decodedString, nil
}

func SendBookingConfirmation(b *models.Booking, to string) {
	if to == "" {
		return
	}
	body := fmt.Sprintf(
		"Your booking %s is in.\n\nSeats: %d\nTotal: %s %s\nPayable: %s %s\n\nThe selling agency will confirm or decline shortly.",
		b.Reference, b.SeatsTaken, b.Currency, b.TotalAmount.StringFixed(2), b.Currency, b.FinalAmount.StringFixed(2),
	)
	input := &lib.SendMailInput{
		From:     os.Getenv("MAIL_FROM"),
		FromName: "Bookings",
		To:       []string{to},
		Subject:  fmt.Sprintf("Booking %s received", b.Reference),
		Body:     body,
	}
	if err := lib.SendMail(input); err != nil {
		log.Printf("Error sending confirmation for Booking [%d]: %s\n", b.ID, err.Error())
	}
}
