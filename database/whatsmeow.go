package database

import (
	"context"
	"log"

	"go.mau.fi/whatsmeow/store/sqlstore"
	waLog "go.mau.fi/whatsmeow/util/log"
)

// Container holds the whatsmeow credential store. Pairing credentials
// (identity keys, registration, signed pre-keys) are persisted here per
// device; deleting a device forces a fresh QR pairing.
var Container *sqlstore.Container

func InitWhatsmeow(dbURL string) {
	dbLog := waLog.Stdout("Database", "INFO", true)

	container, err := sqlstore.New(context.Background(), "postgres", dbURL, dbLog)
	if err != nil {
		log.Fatal("Failed to init whatsmeow store:", err)
	}
	Container = container
	log.Println("Whatsmeow store connected successfully")
}
