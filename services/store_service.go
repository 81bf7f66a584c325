package services

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store holds the MongoDB collections, the GridFS bucket for image blobs and
// the Redis client used as the session profile cache.
type Store struct {
	Users       *mongo.Collection
	Chats       *mongo.Collection
	Messages    *mongo.Collection
	Posts       *mongo.Collection
	Reviews     *mongo.Collection
	Images      *gridfs.Bucket
	RedisClient *redis.Client
}

func NewStore() *Store {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default configuration")
	}
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI environment variable is not set")
	}
	// Connect to MongoDB
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}
	// Check MongoDB connection
	if err := client.Ping(context.Background(), nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")

	db := client.Database("courier_db")
	store := &Store{
		Users:    db.Collection("users"),
		Chats:    db.Collection("chats"),
		Messages: db.Collection("messages"),
		Posts:    db.Collection("posts"),
		Reviews:  db.Collection("reviews"),
	}

	store.Images, err = gridfs.NewBucket(db, options.GridFSBucket().SetName("images"))
	if err != nil {
		log.Fatalf("Failed to open GridFS bucket: %v", err)
	}

	// Ensure unique index on email
	_, err = store.Users.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Printf("Failed to create unique index on users: %v", err)
	}

	// One chat per unordered participant pair, enforced store-side
	_, err = store.Chats.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "pair_key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Printf("Failed to create unique index on chats: %v", err)
	}

	// Feed query shape: equality on post_type, newest first
	_, err = store.Posts.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "post_type", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	if err != nil {
		log.Printf("Failed to create index on posts: %v", err)
	}

	// Initialize Redis client
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		log.Fatal("REDIS_ADDR environment variable is not set")
	}
	redisDBStr := os.Getenv("REDIS_DB")
	if redisDBStr == "" {
		log.Fatal("REDIS_DB environment variable is not set")
	}
	redisDB, err := strconv.Atoi(redisDBStr)
	if err != nil {
		log.Fatalf("Invalid REDIS_DB value: %v", err)
	}
	store.RedisClient = redis.NewClient(&redis.Options{
		Addr: redisAddr,
		DB:   redisDB,
	})
	if err := store.RedisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	return store
}
