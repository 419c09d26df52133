package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/polas15-707-eng/teachassist-app/internal/config"
	"github.com/polas15-707-eng/teachassist-app/internal/database"
	"github.com/polas15-707-eng/teachassist-app/internal/logger"
	"github.com/polas15-707-eng/teachassist-app/internal/model"
	"github.com/polas15-707-eng/teachassist-app/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Admin User ===")

	// Name
	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	// Email
	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	if _, err := userRepo.GetByEmail(ctx, email); err == nil {
		fmt.Println("Error: A user with that email already exists")
		return
	} else if !errors.Is(err, pgx.ErrNoRows) {
		fmt.Printf("Error: email lookup failed: %v\n", err)
		return
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		fmt.Printf("Error: hashing password failed: %v\n", err)
		return
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}

	if err := userRepo.Create(ctx, user); err != nil {
		fmt.Printf("Error: creating admin failed: %v\n", err)
		return
	}

	fmt.Printf("Admin %q (%s) created with id %s\n", user.Name, user.Email, user.ID)
}
