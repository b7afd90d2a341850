package main

import (
	stdLog "log"
	"time"

	"github.com/joho/godotenv"

	"github.com/Astemirdum/library-catalog/catalog/app"
	"github.com/Astemirdum/library-catalog/catalog/config"
)

// @title Library Catalog API
// @version 1.0
// @description Genres, languages, authors, books and their loanable copies.
// @BasePath /
func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Println("no .env file, reading the environment only")
	}
	cfg := config.NewConfig(
		config.WithWriteTimeout(time.Minute),
	)

	app.Run(cfg)
}
