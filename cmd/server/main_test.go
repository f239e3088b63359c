package main

import (
	"testing"

	"tailorbill/backend/internal/config"
)

func TestValidateSecurityConfigRejectsShortSecret(t *testing.T) {
	if err := validateSecurityConfig(config.Config{AuthSecret: "short"}); err == nil {
		t.Fatalf("expected short AUTH_SECRET to be rejected")
	}
}

func TestValidateSecurityConfigAcceptsStrongSecret(t *testing.T) {
	cfg := config.Config{AuthSecret: "0123456789abcdef0123456789abcdef"}
	if err := validateSecurityConfig(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
