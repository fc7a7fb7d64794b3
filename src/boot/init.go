package boot

import (
	"log"
	"time"

	"tabo/src/db"
	"tabo/src/lib"
	"tabo/src/models"
	"tabo/src/utils"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.Agency{},
		&models.User{},
		&models.Customer{},
		&models.Listing{},
		&models.Booking{},
		&models.Passenger{},
		&models.Transaction{},
		&models.Post{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

func InitScheduler() {
	id, err := lib.CreateCronJob(utils.ExpireStaleBookings, 10*time.Minute)
	if err != nil {
		log.Printf("Error scheduling expiry job: %s\n", err.Error())
		return
	}
	log.Printf("Expiry job scheduled: %s\n", *id)
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	sched.Start()
	log.Println("Jobs in queue:", len(sched.Jobs()))
}
