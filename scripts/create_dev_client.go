package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/config"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/database"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/services"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command line flags
	email := flag.String("email", "owner@qrmenu.local", "Email of the venue owner the client acts for")
	name := flag.String("name", "Development dashboard", "Client name")
	flag.Parse()

	_ = godotenv.Load()
	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.InitDatabase(database.DatabaseConfig{
		Driver:   conf.DBDriver,
		Host:     conf.DBHost,
		Port:     conf.DBPort,
		User:     conf.DBUser,
		Password: conf.DBPassword,
		Name:     conf.DBName,
		SSLMode:  conf.DBSSLMode,
		Path:     conf.DBPath,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	user, err := services.NewUserService(db).GetUserByEmail(*email)
	if errors.Is(err, services.ErrUserNotFound) {
		log.Fatalf("No user with email %s, register one or run the server with SEED_DEMO=true", *email)
	}
	if err != nil {
		log.Fatal("Failed to look up user:", err)
	}

	client, secret, err := services.NewClientService(db).CreateClient(user.ID, *name, "read write")
	if err != nil {
		log.Fatal("Failed to create client:", err)
	}

	fmt.Printf("✓ Development OAuth client created for %s (role '%s')!\n", user.Email, user.Role)
	fmt.Printf("Client ID: %s\n", client.ID)
	fmt.Printf("Client Secret: %s\n", secret)
	fmt.Println("\nUse these credentials for testing:")
	fmt.Printf("curl -X POST %s/oauth/token \\\n", conf.PublicBaseURL)
	fmt.Printf("  -d 'grant_type=client_credentials' \\\n")
	fmt.Printf("  -d 'client_id=%s' \\\n", client.ID)
	fmt.Printf("  -d 'client_secret=%s'\n", secret)
}
