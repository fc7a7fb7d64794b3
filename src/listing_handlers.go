package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"tabo/src/db"
	"tabo/src/models"
	"tabo/src/types"
	"tabo/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func listingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/listings", func(ctx *gin.Context) {
			agencyId := ctx.GetUint("agency")
			var listings []models.Listing
			database := db.GetDb()
			if err := database.
				Where(&models.Listing{AgencyID: agencyId}).
				Order("created_at desc").
				Find(&listings).Error; err != nil {
				log.Printf("Error retrieving Listings: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": listings})
		}).
		GET("/listings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			agencyId := ctx.GetUint("agency")
			var listing models.Listing
			database := db.GetDb()
			if err := database.
				Where(&models.Listing{ID: params.ID, AgencyID: agencyId}).
				First(&listing).
				Error; err != nil {
				log.Printf("Error retrieving Listing: %s\n", err.Error())
				ctx.Status(http.StatusNotFound)
				return
			}
			free, committed, _ := utils.GetListingSeats(listing.ID)
			listing.Stats = &models.ListingStats{
				Free:      free,
				Committed: committed,
			}
			ctx.JSON(http.StatusOK, gin.H{"data": listing})
		}).
		GET("/listings/:id/availability", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			free, committed, err := utils.GetListingSeats(params.ID)
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"id": params.ID, "free": free, "committed": committed})
		}).
		POST("/listings", func(ctx *gin.Context) {
			var body types.CreateListingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			id, err := utils.CreateNewListing(ctx.Copy(), &body)
			if err != nil {
				log.Printf("error creating listing: %s", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": id})
		}).
		PATCH("/listings/:id/publish", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			agencyId := ctx.GetUint("agency")
			var listing models.Listing
			database := db.GetDb()
			if err := database.
				Where(&models.Listing{ID: params.ID, AgencyID: agencyId}).
				First(&listing).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.Status(http.StatusBadRequest)
				return
			}
			if listing.Status != types.LISTING_DRAFT {
				err := errors.New("only draft listings can be published")
				log.Printf("Error publishing listing: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := utils.PublishListing(params.ID); err != nil {
				log.Printf("error publishing listing: %s", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": listing})
		}).
		PATCH("/listings/:id/close", func(ctx *gin.Context) {
			closeListing(ctx)
		}).
		DELETE("/listings/:id", func(ctx *gin.Context) {
			closeListing(ctx)
		}).
		GET("/marketplace", func(ctx *gin.Context) {
			var filters types.MarketplaceQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			agencyId := ctx.GetUint("agency")
			database := db.GetDb()
			q := database.
				Model(&models.Listing{}).
				Where("status = ?", types.LISTING_OPEN).
				Where("agency_id <> ?", agencyId).
				Preload("Agency")
			if filters.Kind != "" {
				q = q.Where("kind = ?", filters.Kind)
			}
			if filters.Destination != "" {
				q = q.Where("destination = ? OR country = ?", filters.Destination, filters.Destination)
			}
			if filters.DepartsOn != "" {
				day, err := time.Parse("2006-01-02", filters.DepartsOn)
				if err == nil {
					q = q.Where("departs_at >= ? AND departs_at < ?", day, day.AddDate(0, 0, 1))
				}
			}
			var listings []models.Listing
			if err := q.
				Order("departs_at ASC").
				Limit(100).
				Find(&listings).
				Error; err != nil {
				log.Printf("Error retrieving marketplace listings: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": listings, "count": len(listings)})
		})
	return g
}

func closeListing(ctx *gin.Context) {
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	agencyId := ctx.GetUint("agency")
	var listing models.Listing
	database := db.GetDb()
	database.
		Model(&models.Listing{}).
		Where(&models.Listing{ID: params.ID, AgencyID: agencyId}).
		Find(&listing)
	if listing.ID < 1 {
		err := errors.New("Listing not found")
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err := utils.CloseListing(params.ID); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": listing})
}
