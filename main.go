package main

import (
	"log"

	"wgapi/config"
	"wgapi/server"

	"github.com/joho/godotenv"
)

func main() {
	// .env — опционально (docker/compose окружение)
	_ = godotenv.Load()

	cfg := config.MustLoad()
	app := &server.App{}
	app.Initialize(cfg)
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
