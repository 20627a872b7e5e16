// seed-actor creates or repairs a service account from the command line:
// field-site accounts before a deployment, or a locked-out operator.
package main

import (
	"errors"
	"flag"
	"log"
	"strings"

	"go-supply-ledger/internal/apperr"
	"go-supply-ledger/internal/model"
	"go-supply-ledger/internal/repository"
	"go-supply-ledger/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	email := flag.String("email", "", "account email (required)")
	name := flag.String("name", "", "display name (required for new accounts)")
	password := flag.String("password", "", "password to set (required)")
	privileges := flag.String("privileges", "transaction:create,transaction:view", "comma-separated privilege codes")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		log.Fatal("email and password are required")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	db := database.ConnectDB()
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)

	codes := strings.Split(*privileges, ",")
	for i := range codes {
		codes[i] = strings.TrimSpace(codes[i])
	}
	grants, err := privilegeRepo.FindByCodes(codes)
	if err != nil {
		log.Fatalf("Failed to resolve privileges: %v", err)
	}
	if len(grants) != len(codes) {
		log.Fatalf("Unknown privilege code in %q", *privileges)
	}

	user, err := userRepo.FindByEmail(*email)
	switch {
	case err == nil:
		if err := user.SetPassword(*password); err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		// Force re-login everywhere.
		user.TokenVersion = ""
		if err := userRepo.Update(user); err != nil {
			log.Fatalf("Failed to update account: %v", err)
		}
		if err := userRepo.ReplacePrivileges(user, grants); err != nil {
			log.Fatalf("Failed to update privileges: %v", err)
		}
		log.Printf("Account %s repaired (%d privileges)", *email, len(grants))

	case errors.Is(err, apperr.ErrNotFound):
		if *name == "" {
			log.Fatal("name is required when creating a new account")
		}
		user = &model.User{
			Email:      *email,
			FullName:   *name,
			IsActive:   true,
			Privileges: grants,
		}
		user.CreatedBy = "seed-actor"
		user.UpdatedBy = "seed-actor"
		if err := user.SetPassword(*password); err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		if err := userRepo.Create(user); err != nil {
			log.Fatalf("Failed to create account: %v", err)
		}
		log.Printf("Account %s created (%d privileges)", *email, len(grants))

	default:
		log.Fatalf("Lookup failed: %v", err)
	}
}
