package main

import (
	"errors"
	"log"
	"net/http"

	"tabo/src/db"
	"tabo/src/models"
	"tabo/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func feedHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/feed", func(ctx *gin.Context) {
			var posts []models.Post
			database := db.GetDb()
			if err := database.
				Model(&models.Post{}).
				Preload("Author").
				Preload("Agency").
				Order("created_at DESC").
				Limit(100).
				Find(&posts).
				Error; err != nil {
				log.Printf("Error retrieving feed: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": posts, "count": len(posts)})
		}).
		POST("/feed", func(ctx *gin.Context) {
			var body types.CreatePostRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			post := models.Post{
				Body:     body.Body,
				AuthorID: ctx.GetUint("id"),
				AgencyID: ctx.GetUint("agency"),
			}
			database := db.GetDb()
			if err := database.Create(&post).Error; err != nil {
				log.Printf("Error creating Post: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": post.ID})
		}).
		DELETE("/feed/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			database := db.GetDb()
			err := database.Transaction(func(tx *gorm.DB) error {
				var post models.Post
				if err := tx.
					Where(&models.Post{ID: params.ID}).
					First(&post).
					Error; err != nil {
					return err
				}
				if post.AuthorID != userId {
					return errors.New("only the author may delete a post")
				}
				return tx.Delete(&post).Error
			})
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
