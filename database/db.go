package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"roomflow/config"
)

// MongoClient is the global MongoDB client instance; it holds the durable
// booking and invoice documents.
var MongoClient *mongo.Client

// CatalogDB is the global gorm handle onto the hotel catalog database.
var CatalogDB *gorm.DB

// InitDB initializes the MongoDB connection.
func InitDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(config.AppConfig.DatabaseURL)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("failed to ping MongoDB: %v", err)
	}
	MongoClient = client
	log.Println("Connected to MongoDB successfully!")
}

// InitCatalogDB opens the MySQL hotel catalog.
func InitCatalogDB() {
	db, err := gorm.Open(mysql.Open(config.AppConfig.MySQLDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to MySQL catalog: %v", err)
	}
	CatalogDB = db
	log.Println("Connected to MySQL catalog successfully!")
}
