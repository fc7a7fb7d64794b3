package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"tabo/src/booking"
	"tabo/src/db"
	"tabo/src/models"
	"tabo/src/types"
	"tabo/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/yeqown/go-qrcode"
	"gorm.io/gorm"
)

func draftState(d *booking.Draft) gin.H {
	amounts := d.Amounts()
	return gin.H{
		"id":         d.ID,
		"listing_id": d.ListingID,
		"unit_price": d.UnitPrice,
		"available":  d.Available,
		"counts":     d.Counts,
		"applicants": d.Applicants.Flatten(),
		"discount":   d.Discount,
		"amounts":    amounts,
	}
}

// draftHandlers hosts the booking-dialog lifecycle. Every draft lives in
// Redis under a TTL and belongs to the dialog that opened it; closing the
// dialog, for any reason, discards it.
func draftHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/drafts", func(ctx *gin.Context) {
			var body types.OpenDraftRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			listing, err := utils.GetListing(body.ListingID)
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			if listing.Status != types.LISTING_OPEN {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "listing is not open for booking"})
				return
			}
			free, _, err := utils.GetListingSeats(listing.ID)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			cats := utils.DefaultCategories(listing.Kind)
			if listing.Categories != nil && len(*listing.Categories) > 0 {
				cats = *listing.Categories
			}
			rules := utils.DefaultRules(listing.Kind, false)
			if listing.Rules != nil && len(*listing.Rules) > 0 {
				rules = *listing.Rules
			}
			// a dialog opens with every category at its minimum, so the
			// block must have at least that many seats left
			if int(free) < booking.MinimumConsuming(cats) {
				ctx.JSON(http.StatusConflict, gin.H{"error": "listing is sold out"})
				return
			}
			d := booking.NewDraft(listing.ID, listing.UnitPrice, int(free), cats, rules)
			if err := utils.SaveDraft(ctx.Request.Context(), d); err != nil {
				log.Printf("Error storing draft: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": draftState(d)})
		}).
		GET("/drafts/:id", func(ctx *gin.Context) {
			var params types.DraftURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			d, err := utils.LoadDraft(ctx.Request.Context(), params.ID)
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": draftState(d)})
		}).
		PATCH("/drafts/:id/quantity", func(ctx *gin.Context) {
			var params types.DraftURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.QuantityDeltaRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			d, err := utils.LoadDraft(ctx.Request.Context(), params.ID)
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			res := d.ApplyQuantityDelta(body.Category, *body.Delta)
			if res.Applied {
				if err := utils.SaveDraft(ctx.Request.Context(), d); err != nil {
					log.Printf("Error storing draft: %s\n", err.Error())
					ctx.Status(http.StatusInternalServerError)
					return
				}
			}
			ctx.JSON(http.StatusOK, gin.H{
				"applied": res.Applied,
				"reason":  res.Reason,
				"data":    draftState(d),
			})
		}).
		PATCH("/drafts/:id/applicants/:index", func(ctx *gin.Context) {
			var params types.DraftApplicantURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.ApplicantFieldRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			d, err := utils.LoadDraft(ctx.Request.Context(), params.ID)
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			if err := d.SetApplicantField(*params.Index, body.Field, body.Value); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := utils.SaveDraft(ctx.Request.Context(), d); err != nil {
				log.Printf("Error storing draft: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": draftState(d)})
		}).
		PATCH("/drafts/:id/discount", func(ctx *gin.Context) {
			var params types.DraftURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.DiscountRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			d, err := utils.LoadDraft(ctx.Request.Context(), params.ID)
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			if err := d.SetDiscount(body.Discount); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := utils.SaveDraft(ctx.Request.Context(), d); err != nil {
				log.Printf("Error storing draft: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": draftState(d)})
		}).
		DELETE("/drafts/:id", func(ctx *gin.Context) {
			var params types.DraftURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := utils.DeleteDraft(ctx.Request.Context(), params.ID); err != nil {
				log.Printf("Error discarding draft: %s\n", err.Error())
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/drafts/:id/submit", func(ctx *gin.Context) {
			var params types.DraftURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			d, err := utils.LoadDraft(ctx.Request.Context(), params.ID)
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			if err := d.BeginSubmit(); err != nil {
				ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			if err := utils.SaveDraft(ctx.Request.Context(), d); err != nil {
				log.Printf("Error storing draft: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			payload, err := d.Assemble(time.Now())
			if err != nil {
				d.EndSubmit()
				if saveErr := utils.SaveDraft(ctx.Request.Context(), d); saveErr != nil {
					log.Printf("Error storing draft: %s\n", saveErr.Error())
				}
				var verr *booking.ValidationError
				if errors.As(err, &verr) {
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{
						"error":      "validation failed",
						"violations": verr.Violations,
					})
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			created, err := utils.SubmitBooking(ctx, d, payload)
			if err != nil {
				d.EndSubmit()
				if saveErr := utils.SaveDraft(ctx.Request.Context(), d); saveErr != nil {
					log.Printf("Error storing draft: %s\n", saveErr.Error())
				}
				if errors.Is(err, utils.ErrInventoryChanged) || errors.Is(err, utils.ErrListingNotOpen) {
					ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := utils.DeleteDraft(ctx.Request.Context(), d.ID); err != nil {
				log.Printf("Error discarding draft after submit: %s\n", err.Error())
			}
			email := ctx.GetString("email")
			go utils.SendBookingConfirmation(created, email)
			ctx.JSON(http.StatusCreated, gin.H{
				"id":        created.ID,
				"reference": created.Reference,
			})
		})
	return g
}

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/bookings", func(ctx *gin.Context) {
			agencyId := ctx.GetUint("agency")
			scope := ctx.DefaultQuery("scope", "purchases")
			database := db.GetDb()
			var bookings []models.Booking
			q := database.Model(&models.Booking{}).Preload("Listing")
			if scope == "sales" {
				q = q.
					Joins("JOIN listings ON listings.id = bookings.listing_id").
					Where("listings.agency_id = ?", agencyId)
			} else {
				q = q.Where(&models.Booking{AgencyID: agencyId})
			}
			if err := q.
				Order("created_at DESC").
				Limit(100).
				Find(&bookings).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			agencyId := ctx.GetUint("agency")
			database := db.GetDb()
			var b models.Booking
			if err := database.
				Model(&models.Booking{}).
				Where(&models.Booking{ID: params.ID}).
				Preload("Listing").
				Preload("User").
				Preload("Passengers").
				First(&b).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			if !bookingVisibleTo(&b, agencyId) {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": b})
		}).
		GET("/bookings/:id/passengers", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			agencyId := ctx.GetUint("agency")
			database := db.GetDb()
			var b models.Booking
			if err := database.
				Model(&models.Booking{}).
				Where(&models.Booking{ID: params.ID}).
				Preload("Listing").
				First(&b).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			if !bookingVisibleTo(&b, agencyId) {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
				return
			}
			var passengers []models.Passenger
			if err := database.
				Where(&models.Passenger{BookingID: params.ID}).
				Order("position ASC").
				Find(&passengers).
				Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": passengers})
		}).
		PUT("/bookings/:id/confirm", func(ctx *gin.Context) {
			updateBookingStatus(ctx, types.BOOKING_CONFIRMED)
		}).
		PUT("/bookings/:id/reject", func(ctx *gin.Context) {
			updateBookingStatus(ctx, types.BOOKING_REJECTED)
		}).
		PUT("/bookings/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			agencyId := ctx.GetUint("agency")
			database := db.GetDb()
			err := database.Transaction(func(tx *gorm.DB) error {
				var b models.Booking
				if err := tx.
					Model(&models.Booking{}).
					Where("id = ?", params.ID).
					First(&b).
					Error; err != nil {
					return err
				}
				if b.AgencyID != agencyId {
					return errors.New("only the purchasing agency may cancel a booking")
				}
				if b.Status != types.BOOKING_PENDING {
					return fmt.Errorf("booking [%d] is %s, only pending bookings can be canceled", b.ID, b.Status)
				}
				if err := tx.
					Model(&models.Booking{}).
					Where(&models.Booking{ID: params.ID}).
					Update("status", types.BOOKING_CANCELED).
					Error; err != nil {
					return err
				}
				if b.TransactionID == nil {
					err := fmt.Errorf("no transaction found for Booking [%d]", params.ID)
					log.Println(err)
					return err
				}
				if err := tx.
					Model(&models.Transaction{}).
					Where("id = ?", *b.TransactionID).
					Update("status", types.TRANSACTION_CANCELED).
					Error; err != nil {
					return err
				}
				return nil
			})
			if err != nil {
				log.Printf("Could not complete request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/bookings/:id/voucher", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			agencyId := ctx.GetUint("agency")
			database := db.GetDb()
			var b models.Booking
			if err := database.
				Model(&models.Booking{}).
				Where(&models.Booking{ID: params.ID, Status: types.BOOKING_CONFIRMED}).
				Preload("Listing").
				First(&b).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "no confirmed booking found"})
				return
			}
			if !bookingVisibleTo(&b, agencyId) {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "no confirmed booking found"})
				return
			}

			rawData := map[string]any{
				"bookingId": b.ID,
				"reference": b.Reference,
			}
			rawBytes, _ := json.Marshal(rawData)

			keyEnv := os.Getenv("API_VOUCHER_SECRET")
			key, err := hex.DecodeString(keyEnv)
			if err != nil {
				log.Printf("Could not read key from string: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			sealed, err := utils.EncryptMessage(key, string(rawBytes))
			if err != nil {
				log.Printf("Error encrypting voucher: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			qrc, err := qrcode.New(sealed)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tempdir := os.Getenv("TEMP_DIR")
			if tempdir == "" {
				tempdir = os.TempDir()
			}
			filepath := path.Join(tempdir, fmt.Sprintf("voucher_%s.jpeg", b.Reference))
			if err := qrc.Save(filepath); err != nil {
				log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			ctx.FileAttachment(filepath, "voucher.jpeg")
		})
	return g
}

// bookingVisibleTo limits booking reads to the two trading parties: the
// buying agency and the listing's selling agency.
func bookingVisibleTo(b *models.Booking, agencyId uint) bool {
	if b.AgencyID == agencyId {
		return true
	}
	return b.Listing != nil && b.Listing.AgencyID == agencyId
}

// updateBookingStatus is the selling agency's confirm/reject decision on a
// pending booking. Rejection releases the held seats simply by leaving the
// pending/confirmed set, nothing else to unwind.
func updateBookingStatus(ctx *gin.Context, target types.BookingStatus) {
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	agencyId := ctx.GetUint("agency")
	database := db.GetDb()
	err := database.Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := tx.
			Model(&models.Booking{}).
			Where("id = ?", params.ID).
			Preload("Listing").
			First(&b).
			Error; err != nil {
			return err
		}
		if b.Listing == nil || b.Listing.AgencyID != agencyId {
			return errors.New("only the selling agency may decide on a booking")
		}
		if b.Status != types.BOOKING_PENDING {
			return fmt.Errorf("booking [%d] is %s, only pending bookings can be decided", b.ID, b.Status)
		}
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: params.ID}).
			Update("status", target).
			Error; err != nil {
			return err
		}
		if b.TransactionID != nil {
			txnStatus := types.TRANSACTION_PAID
			if target == types.BOOKING_REJECTED {
				txnStatus = types.TRANSACTION_CANCELED
			}
			if err := tx.
				Model(&models.Transaction{}).
				Where("id = ?", *b.TransactionID).
				Update("status", txnStatus).
				Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Could not complete request: %s\n", err.Error())
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.Status(http.StatusNoContent)
}
