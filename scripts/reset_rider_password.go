package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/linesmerrill/rider-safety-api/config"
	"github.com/linesmerrill/rider-safety-api/databases"
)

// Resets a rider's password from the command line
// Usage: go run scripts/reset_rider_password.go --email rider@example.com --password <new password>
// With --dry-run the bcrypt hash is only printed.
func main() {
	email := pflag.String("email", "", "email of the rider to update")
	password := pflag.String("password", "", "new password")
	envFile := pflag.String("env-file", ".env", "optional env file to load")
	dryRun := pflag.Bool("dry-run", false, "print the hash without touching the database")
	pflag.Parse()

	if *email == "" || *password == "" {
		fmt.Println("Usage: go run scripts/reset_rider_password.go --email <email> --password <password> [--dry-run]")
		os.Exit(1)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Printf("Error generating hash: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Bcrypt Hash: %s\n", string(hashedPassword))
	if *dryRun {
		return
	}

	if err := config.LoadEnvFile(*envFile); err != nil {
		fmt.Printf("Error loading %s: %v\n", *envFile, err)
		os.Exit(1)
	}
	conf := config.New()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := databases.NewClient(conf)
	if err != nil {
		fmt.Printf("Error creating mongo client: %v\n", err)
		os.Exit(1)
	}
	if err := client.Connect(ctx); err != nil {
		fmt.Printf("Error connecting to mongo: %v\n", err)
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())

	db := databases.NewDatabase(conf, client)
	res, err := db.Collection(databases.RiderCollection).UpdateOne(ctx,
		bson.M{"email": *email},
		bson.M{"$set": bson.M{"password": string(hashedPassword)}},
	)
	if err != nil {
		fmt.Printf("Error updating rider: %v\n", err)
		os.Exit(1)
	}
	if res.MatchedCount == 0 {
		fmt.Printf("No rider registered with %s\n", *email)
		os.Exit(1)
	}
	fmt.Printf("Password updated for %s\n", *email)
}
