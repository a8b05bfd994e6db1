package main

import (
	"log"

	"Summit/CronJobs"
	"Summit/FiberConfig"
	"Summit/Models"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment")
	}

	Models.Connect()

	retention := CronJobs.NewLogRetention()
	if err := retention.Start(); err != nil {
		log.Printf("Failed to start log retention job: %v", err)
	}

	FiberConfig.FiberConfig()
}
