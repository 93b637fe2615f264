package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"userapi/cmd/api/cmd"
)

// @title       User API
// @version     1.0
// @description Centralized error handling demo over a read-only user list.
// @BasePath    /
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
