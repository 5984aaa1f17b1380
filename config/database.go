package config

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	Client                *mongo.Client
	UserCollection        *mongo.Collection
	DeskCollection        *mongo.Collection
	InventoryCollection   *mongo.Collection
	BookingCollection     *mongo.Collection
	OrderCollection       *mongo.Collection
	TransactionCollection *mongo.Collection
	KioskKeyCollection    *mongo.Collection
)

func ConnectDatabase() {
	client, err := mongo.NewClient(options.Client().ApplyURI(os.Getenv("MONGO_URI")))
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = client.Connect(ctx)
	if err != nil {
		log.Fatal(err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		log.Fatal(err)
	}

	Client = client
	db := os.Getenv("MONGO_DB")
	if db == "" {
		db = "coworking"
	}

	UserCollection = client.Database(db).Collection("users")
	DeskCollection = client.Database(db).Collection("desks")
	InventoryCollection = client.Database(db).Collection("inventory")
	BookingCollection = client.Database(db).Collection("bookings")
	OrderCollection = client.Database(db).Collection("orders")
	TransactionCollection = client.Database(db).Collection("transactions")
	KioskKeyCollection = client.Database(db).Collection("kioskkeys")

	log.Println("Connected to MongoDB")
}
