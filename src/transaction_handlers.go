package main

import (
	"log"
	"net/http"

	"tabo/src/db"
	"tabo/src/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func transactionHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/transactions", func(ctx *gin.Context) {
			agencyId := ctx.GetUint("agency")
			var transactions []models.Transaction
			database := db.GetDb()
			if err := database.
				Model(&models.Transaction{}).
				Where(&models.Transaction{AgencyID: agencyId}).
				Order("created_at DESC").
				Limit(200).
				Find(&transactions).
				Error; err != nil {
				log.Printf("Error retrieving Transactions: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": transactions, "count": len(transactions)})
		}).
		GET("/transactions/:id", func(ctx *gin.Context) {
			idParam := ctx.Params.ByName("id")
			txnId, err := uuid.Parse(idParam)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			agencyId := ctx.GetUint("agency")
			var txn models.Transaction
			database := db.GetDb()
			if err := database.
				Model(&models.Transaction{}).
				Where(&models.Transaction{ID: txnId, AgencyID: agencyId}).
				Preload("Booking").
				First(&txn).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": txn})
		})
	return g
}
