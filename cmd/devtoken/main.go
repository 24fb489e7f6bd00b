package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwk"

	"SkillLog/internal/auth"
	"SkillLog/internal/config"
)

// devtoken mints bearer tokens for local development.
//
// Usage:
//
//	go run ./cmd/devtoken -sub user-1 -role developer
//	go run ./cmd/devtoken -genkey dev-key.json -jwks jwks.json
//	go run ./cmd/devtoken -key dev-key.json -sub rec-1 -role recruiter
//
// Without -key the token is HS256 signed with JWT_SECRET. With -key it is
// ES256 signed with the private JWK and carries its kid, so the server must
// have JWKS_URL pointing at the matching public key set.
func main() {
	var (
		subject = flag.String("sub", "", "user id (sub claim)")
		email   = flag.String("email", "", "email claim, defaults to <sub>@example.com")
		role    = flag.String("role", "developer", "developer or recruiter")
		ttl     = flag.Duration("ttl", 24*time.Hour, "token lifetime")
		keyFile = flag.String("key", "", "private JWK file to sign ES256 tokens with")
		genKey  = flag.String("genkey", "", "generate an ES256 private JWK into this file and exit")
		jwksOut = flag.String("jwks", "jwks.json", "with -genkey, where to write the public key set")
		kid     = flag.String("kid", "skilllog-dev", "with -genkey, the key id")
	)
	flag.Parse()

	if *genKey != "" {
		if err := generateKey(*genKey, *jwksOut, *kid); err != nil {
			log.Fatalf("Failed to generate key: %v", err)
		}
		fmt.Printf("Private key written to %s, public key set to %s\n", *genKey, *jwksOut)
		return
	}

	if *subject == "" {
		log.Fatal("-sub is required")
	}
	if *email == "" {
		*email = *subject + "@example.com"
	}

	cfg := config.Load()

	var (
		token string
		err   error
	)
	if *keyFile != "" {
		token, err = signWithKeyFile(*keyFile, cfg.JWTIssuer, *subject, *email, *role, *ttl)
	} else {
		token, err = auth.NewToken([]byte(cfg.JWTSecret), cfg.JWTIssuer, *subject, *email, *role, *ttl)
	}
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)
}

func generateKey(privatePath, jwksPath, kid string) error {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("failed to generate private key: %w", err)
	}

	privJWK, err := jwk.FromRaw(privateKey)
	if err != nil {
		return fmt.Errorf("failed to create JWK from private key: %w", err)
	}
	if err := privJWK.Set(jwk.KeyIDKey, kid); err != nil {
		return fmt.Errorf("failed to set kid: %w", err)
	}
	if err := privJWK.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return fmt.Errorf("failed to set use: %w", err)
	}

	pubJWK, err := jwk.PublicKeyOf(privJWK)
	if err != nil {
		return fmt.Errorf("failed to derive public key: %w", err)
	}
	set := jwk.NewSet()
	if err := set.AddKey(pubJWK); err != nil {
		return fmt.Errorf("failed to build key set: %w", err)
	}

	privData, err := json.MarshalIndent(privJWK, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal private JWK: %w", err)
	}
	setData, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal key set: %w", err)
	}

	if err := os.WriteFile(privatePath, privData, 0o600); err != nil {
		return err
	}
	return os.WriteFile(jwksPath, setData, 0o644)
}

func signWithKeyFile(path, issuer, subject, email, role string, ttl time.Duration) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	key, err := jwk.ParseKey(data)
	if err != nil {
		return "", fmt.Errorf("failed to parse JWK: %w", err)
	}

	var raw interface{}
	if err := key.Raw(&raw); err != nil {
		return "", fmt.Errorf("failed to read JWK: %w", err)
	}
	priv, ok := raw.(*ecdsa.PrivateKey)
	if !ok {
		return "", fmt.Errorf("%s does not hold an ECDSA private key", path)
	}
	return auth.SignToken(jwt.SigningMethodES256, priv, key.KeyID(), issuer, subject, email, role, ttl)
}
