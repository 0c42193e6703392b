package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/yeremiapane/cook-platform/cmd"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	if err := cmd.Execute(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}
