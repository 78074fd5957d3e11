// Command gmail-auth runs the OAuth consent flow once and stores the token
// the API server's e-mail watcher reads.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/justsurfingit/jobhunter/internal/auth"
	"github.com/justsurfingit/jobhunter/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gmail-auth:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	oauthCfg, err := auth.GmailConfig(cfg.Gmail.CredentialsFile)
	if err != nil {
		return err
	}
	tok, err := auth.TokenFromWeb(context.Background(), oauthCfg, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	if err := auth.SaveToken(cfg.Gmail.TokenFile, tok); err != nil {
		return err
	}
	fmt.Printf("Saved token to %s\n", cfg.Gmail.TokenFile)
	return nil
}
