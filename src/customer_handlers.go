package main

import (
	"log"
	"net/http"

	"tabo/src/db"
	"tabo/src/models"
	"tabo/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func customerHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/customers", func(ctx *gin.Context) {
			agencyId := ctx.GetUint("agency")
			var customers []models.Customer
			database := db.GetDb()
			if err := database.
				Where(&models.Customer{AgencyID: agencyId}).
				Order("created_at desc").
				Limit(200).
				Find(&customers).
				Error; err != nil {
				log.Printf("Error retrieving Customers: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": customers, "count": len(customers)})
		}).
		GET("/customers/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			agencyId := ctx.GetUint("agency")
			var customer models.Customer
			database := db.GetDb()
			if err := database.
				Where(&models.Customer{ID: params.ID, AgencyID: agencyId}).
				First(&customer).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": customer})
		}).
		POST("/customers", func(ctx *gin.Context) {
			var body types.CreateCustomerRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			agencyId := ctx.GetUint("agency")
			customer := models.Customer{
				FullName:   body.FullName,
				Email:      body.Email,
				Phone:      body.Phone,
				PassportNo: body.PassportNo,
				Country:    body.Country,
				Notes:      body.Notes,
				AgencyID:   agencyId,
			}
			database := db.GetDb()
			if err := database.Create(&customer).Error; err != nil {
				log.Printf("Error creating Customer: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": customer.ID})
		}).
		PUT("/customers/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateCustomerRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			agencyId := ctx.GetUint("agency")
			updates := map[string]any{}
			if body.FullName != nil {
				updates["full_name"] = *body.FullName
			}
			if body.Email != nil {
				updates["email"] = *body.Email
			}
			if body.Phone != nil {
				updates["phone"] = *body.Phone
			}
			if body.PassportNo != nil {
				updates["passport_no"] = *body.PassportNo
			}
			if body.Country != nil {
				updates["country"] = *body.Country
			}
			if body.Notes != nil {
				updates["notes"] = *body.Notes
			}
			database := db.GetDb()
			err := database.Transaction(func(tx *gorm.DB) error {
				var customer models.Customer
				if err := tx.
					Where(&models.Customer{ID: params.ID, AgencyID: agencyId}).
					First(&customer).
					Error; err != nil {
					return err
				}
				if len(updates) == 0 {
					return nil
				}
				return tx.
					Model(&models.Customer{}).
					Where("id = ?", customer.ID).
					Updates(updates).
					Error
			})
			if err != nil {
				log.Printf("Error updating Customer [%d]: %s\n", params.ID, err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/customers/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			agencyId := ctx.GetUint("agency")
			database := db.GetDb()
			if err := database.
				Where(&models.Customer{ID: params.ID, AgencyID: agencyId}).
				Delete(&models.Customer{}).
				Error; err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
