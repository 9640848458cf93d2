package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"naomitex/internal/blog"
	"naomitex/internal/cache"
	"naomitex/internal/catalog"
	"naomitex/internal/config"
	mydb "naomitex/internal/db"
	"naomitex/internal/handlers"
	"naomitex/internal/mail"
	"naomitex/internal/users"
)

func main() {
	// .env может лежать рядом или выше (запуск из cmd/server).
	_ = godotenv.Overload(".env", "../.env", "../../.env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if cfg.DSN == "" {
		log.Fatal("DB_DSN is empty (check your .env)")
	}
	db, err := mydb.Open(cfg.DSN)
	if err != nil {
		log.Fatal("failed to connect database: ", err)
	}
	if err := mydb.Migrate(db); err != nil {
		log.Fatal(err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	var store cache.Store
	if cfg.Cache.Enabled {
		badgerStore, err := cache.OpenBadger(cfg.Cache.Path)
		if err != nil {
			log.Fatal("failed to open cache: ", err)
		}
		defer badgerStore.Close()
		store = badgerStore
	}

	dispatcher := mail.NewSMTP(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.EmailFrom)

	h := handlers.New(
		db,
		catalog.NewProductService(db, logger),
		catalog.NewCategoryService(db, store, cfg.Cache.Enabled, logger),
		catalog.NewContactsService(db),
		blog.NewService(db, dispatcher, cfg.ViewsNotifyEmails, logger),
		users.NewService(db, dispatcher, cfg.BaseURL, logger),
		logger,
	)

	r := h.Router(cfg.SessionSecret)

	log.Println("Server listening on :" + cfg.Port)
	log.Fatal(r.Run(":" + cfg.Port))
}
