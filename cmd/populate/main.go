package main

import (
	"context"
	"log"

	"github.com/Skotchmaster/tea_shop/internal/config"
	"github.com/Skotchmaster/tea_shop/internal/db"
	"github.com/Skotchmaster/tea_shop/internal/seed"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	gdb, err := db.Open(context.Background(), configuration.DatabaseDSN())
	if err != nil {
		log.Fatalf("Ошибка инициализации БД: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("Ошибка миграции БД: %v", err)
	}

	if err := seed.Populate(gdb); err != nil {
		log.Fatalf("seed error: %v", err)
	}
	log.Println("seed data populated")
}
