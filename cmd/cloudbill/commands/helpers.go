package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"cloudbill/lib/configutil"
	"cloudbill/lib/restyutil"
	"cloudbill/lib/scrapers/console"
	"cloudbill/lib/serviceutil"

	"golang.org/x/term"
)

const defaultBaseUrl = "https://cloud.digitalocean.com"

type Config struct {
	BaseUrl     string `json:"base_url"`
	Email       string `json:"email"`
	PasswordCmd string `json:"password_cmd"`
	CACertFile  string `json:"ca_file"`
}

// loadConfig reads config.json5 when present and layers the flags on
// top of it.
func loadConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}

	if *email != "" {
		cfg.Email = *email
	}
	if *passwordCmd != "" {
		cfg.PasswordCmd = *passwordCmd
	}
	if *caFile != "" {
		cfg.CACertFile = *caFile
	}
	if *baseUrl != "" {
		cfg.BaseUrl = *baseUrl
	}
	if cfg.BaseUrl == "" {
		cfg.BaseUrl = defaultBaseUrl
	}
	return cfg
}

func resolveCredentials(cfg Config) console.Credentials {
	accountEmail := cfg.Email
	if accountEmail == "" {
		fmt.Fprint(os.Stderr, "Email: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			serviceutil.Fatal("failed to read email", err)
		}
		accountEmail = strings.TrimSpace(line)
	}

	var password string
	if cfg.PasswordCmd != "" {
		out, err := exec.Command("/bin/sh", "-c", cfg.PasswordCmd).Output()
		if err != nil {
			serviceutil.Fatal("failed to run password command", err)
		}
		password = strings.TrimRight(string(out), "\r\n")
	} else {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			serviceutil.Fatal("failed to read password", err)
		}
		password = string(raw)
	}

	return console.Credentials{Email: accountEmail, Password: password}
}

func createClient(cfg Config) *console.Client {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	if *verbose {
		console.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(".dev/resty/console"))
	}

	client, err := console.NewClient(ctx, console.ClientOptions{
		BaseUrl:    cfg.BaseUrl,
		CACertFile: cfg.CACertFile,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize console client", err)
	}
	return client
}

// fetchSnapshot runs the whole pipeline. A rejected login is an
// expected outcome and gets a plain message instead of a scraping
// error dump.
func fetchSnapshot(ctx context.Context) console.BillingSnapshot {
	cfg := loadConfig()
	creds := resolveCredentials(cfg)
	client := createClient(cfg)

	snapshot, err := console.FetchBilling(ctx, client, creds)
	if errors.Is(err, console.LoginFailed) {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	if err != nil {
		serviceutil.Fatal("failed to scrape billing page", err)
	}
	return snapshot
}

func printHistory(entries []console.HistoryEntry) {
	fmt.Println("History:")
	for _, e := range entries {
		fmt.Printf("  %s %s %s\n", e.Date.Format("2006-01-02"), e.Amount, e.Description)
	}
}
