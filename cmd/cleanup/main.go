package main

import (
	"context"
	"log"

	"github.com/Skotchmaster/tea_shop/internal/config"
	"github.com/Skotchmaster/tea_shop/internal/db"
	"github.com/Skotchmaster/tea_shop/internal/maintenance"
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

	count, err := maintenance.ClearOutOfStock(gdb)
	if err != nil {
		log.Fatalf("cleanup error: %v", err)
	}
	log.Printf("%d out-of-stock products were deleted", count)
}
