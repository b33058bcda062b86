package main

import (
	"door-command-control/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	godotenv.Load()

	cmd.Execute()
}
