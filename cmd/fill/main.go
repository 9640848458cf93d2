// Command fill wipes the catalog tables and reloads them from
// catalog_data.json, then drops the cached category list.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"naomitex/internal/cache"
	"naomitex/internal/catalog"
	mydb "naomitex/internal/db"
	"naomitex/internal/models"
)

// fixtureRow matches the export format: one object per record with the
// table name in "model" and the columns in "fields".
type fixtureRow struct {
	Model  string          `json:"model"`
	PK     uint            `json:"pk"`
	Fields json.RawMessage `json:"fields"`
}

type categoryFields struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type productFields struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImagePath   string    `json:"image"`
	CategoryID  *uint     `json:"category"`
	Price       int       `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func main() {
	_ = godotenv.Overload(".env", "../.env", "../../.env")

	path := flag.String("data", "catalog_data.json", "fixture file to load")
	cachePath := flag.String("cache", os.Getenv("CACHE_PATH"), "cache directory to invalidate (optional)")
	flag.Parse()

	raw, err := os.ReadFile(*path)
	if err != nil {
		log.Fatal(err)
	}
	var rows []fixtureRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		log.Fatal(err)
	}

	var categories []models.Category
	var products []models.Product
	for _, row := range rows {
		switch row.Model {
		case "catalog.category":
			var f categoryFields
			if err := json.Unmarshal(row.Fields, &f); err != nil {
				log.Fatal(err)
			}
			categories = append(categories, models.Category{
				Base:        models.Base{ID: row.PK},
				Name:        f.Name,
				Description: f.Description,
			})
		case "catalog.product":
			var f productFields
			if err := json.Unmarshal(row.Fields, &f); err != nil {
				log.Fatal(err)
			}
			products = append(products, models.Product{
				Base:        models.Base{CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt},
				Name:        f.Name,
				Description: f.Description,
				ImagePath:   f.ImagePath,
				CategoryID:  f.CategoryID,
				Price:       f.Price,
			})
		}
	}

	db := mydb.MustOpen()
	if err := mydb.Migrate(db); err != nil {
		log.Fatal(err)
	}

	// Wipe both tables; products reference categories, so the cascade from
	// the truncate covers them, but the explicit list keeps intent clear.
	if err := db.Exec("TRUNCATE TABLE products, product_versions, categories RESTART IDENTITY CASCADE").Error; err != nil {
		log.Fatal(err)
	}

	if len(categories) > 0 {
		if err := db.Create(&categories).Error; err != nil {
			log.Fatal(err)
		}
	}
	if len(products) > 0 {
		if err := db.Create(&products).Error; err != nil {
			log.Fatal(err)
		}
	}

	if *cachePath != "" {
		store, err := cache.OpenBadger(*cachePath)
		if err != nil {
			log.Fatal("failed to open cache: ", err)
		}
		defer store.Close()
		if err := store.Delete(catalog.CategoryCacheKey); err != nil {
			log.Fatal(err)
		}
	}

	log.Printf("loaded %d categories and %d products", len(categories), len(products))
}
