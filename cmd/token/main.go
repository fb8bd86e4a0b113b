// Command token mints a bearer token for the encounters API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"encounters-server/internal/auth"
	"encounters-server/internal/shared/config"
	"encounters-server/internal/shared/utils"

	"github.com/joho/godotenv"
)

func main() {
	subject := flag.String("subject", "", "token subject (required)")
	role := flag.String("role", auth.RoleEditor, "viewer, editor or admin")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()

	tokens, err := auth.NewTokenService(config.AuthConfig{
		JWTSecret:       utils.GetEnv("JWT_SECRET", ""),
		Issuer:          utils.GetEnv("JWT_ISSUER", "encounters-server"),
		TokenExpiration: *ttl,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	token, err := tokens.GenerateToken(*subject, *role)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}
	fmt.Println(token)
}
