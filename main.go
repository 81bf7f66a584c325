package main

import (
	"courier-server/handlers"
	"courier-server/middleware"
	"courier-server/services"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	// Initialize store and services
	store := services.NewStore()
	userService := services.NewUserService(store)
	authService := services.NewAuthService(store, userService, jwtSecret)
	chatService := services.NewChatService(store, userService)
	postService := services.NewPostService(store, userService)
	reviewService := services.NewReviewService(store, userService)
	imageService := services.NewImageService(store)

	// Live delivery hub for open chat screens
	hub := services.NewHub(chatService)
	chatService.SetHub(hub)
	go hub.Run()

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	chatHandler := handlers.NewChatHandler(chatService)
	postHandler := handlers.NewPostHandler(postService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	imageHandler := handlers.NewImageHandler(imageService)
	wsHandler := handlers.NewWSHandler(hub, jwtSecret)

	r := mux.NewRouter()

	// CORS middleware
	allowedOrigins := []string{"http://localhost:3000", "http://localhost:5173"}
	r.Use(middleware.CORSMiddleware(allowedOrigins))
	r.Use(middleware.ErrorMiddleware())

	// Auth routes
	authRouter := r.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/register", authHandler.Register).Methods("POST", "OPTIONS")
	authRouter.HandleFunc("/login", authHandler.Login).Methods("POST", "OPTIONS")

	sessionRouter := r.PathPrefix("/auth").Subrouter()
	sessionRouter.Use(middleware.JWTMiddleware(jwtSecret))
	sessionRouter.HandleFunc("/verify", authHandler.Verify).Methods("POST", "OPTIONS")
	sessionRouter.HandleFunc("/signout", authHandler.SignOut).Methods("POST", "OPTIONS")
	sessionRouter.HandleFunc("/account", authHandler.DeleteAccount).Methods("DELETE", "OPTIONS")

	// Profile routes
	profileRouter := r.PathPrefix("/profile").Subrouter()
	profileRouter.Use(middleware.JWTMiddleware(jwtSecret))
	profileRouter.HandleFunc("", userHandler.GetProfile).Methods("GET", "OPTIONS")
	profileRouter.HandleFunc("", userHandler.UpdateProfile).Methods("PUT", "OPTIONS")

	// Public user surface
	r.HandleFunc("/users/{id}", userHandler.GetPublicProfile).Methods("GET", "OPTIONS")
	r.HandleFunc("/users/{id}/posts", postHandler.ByCreator).Methods("GET", "OPTIONS")
	r.HandleFunc("/users/{id}/reviews", reviewHandler.ForUser).Methods("GET", "OPTIONS")

	// Feed routes
	r.HandleFunc("/posts", postHandler.GetFeed).Methods("GET", "OPTIONS")
	r.HandleFunc("/posts/search", postHandler.Search).Methods("GET", "OPTIONS")

	postRouter := r.PathPrefix("/posts").Subrouter()
	postRouter.Use(middleware.JWTMiddleware(jwtSecret))
	postRouter.HandleFunc("", postHandler.Create).Methods("POST", "OPTIONS")
	postRouter.HandleFunc("/{id}", postHandler.Delete).Methods("DELETE", "OPTIONS")

	// Review routes
	reviewRouter := r.PathPrefix("/reviews").Subrouter()
	reviewRouter.Use(middleware.JWTMiddleware(jwtSecret))
	reviewRouter.HandleFunc("", reviewHandler.Create).Methods("POST", "OPTIONS")

	// Chat routes
	chatRouter := r.PathPrefix("/chats").Subrouter()
	chatRouter.Use(middleware.JWTMiddleware(jwtSecret))
	chatRouter.HandleFunc("/resolve", chatHandler.Resolve).Methods("POST", "OPTIONS")
	chatRouter.HandleFunc("", chatHandler.Conversations).Methods("GET", "OPTIONS")
	chatRouter.HandleFunc("/{id}/messages", chatHandler.Messages).Methods("GET", "OPTIONS")
	chatRouter.HandleFunc("/{id}/messages", chatHandler.Send).Methods("POST", "OPTIONS")
	chatRouter.HandleFunc("/{id}/read", chatHandler.MarkRead).Methods("POST", "OPTIONS")

	// Live subscription (token auth in query, no JWT middleware)
	r.HandleFunc("/ws/chats/{id}", wsHandler.Subscribe).Methods("GET")

	// Image blobs
	imageRouter := r.PathPrefix("/images").Subrouter()
	imageRouter.Use(middleware.JWTMiddleware(jwtSecret))
	imageRouter.HandleFunc("", imageHandler.Upload).Methods("POST", "OPTIONS")
	r.HandleFunc("/images/{id}", imageHandler.Download).Methods("GET", "OPTIONS")

	log.Println("Server starting on :8080")
	log.Fatal(http.ListenAndServe(":8080", r))
}
