/*
 * Copyright 2025 The devicedeck Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/devicedeck/devicedeck/pkg/api"
	"github.com/devicedeck/devicedeck/pkg/logger"
	"github.com/devicedeck/devicedeck/pkg/models"
	"github.com/devicedeck/devicedeck/pkg/tui"
)

type cmdConfig struct {
	APIURL        string
	Email         string
	Password      string
	Token         string
	TLSSkipVerify bool
	Debug         bool
}

func parseFlags() cmdConfig {
	var cfg cmdConfig

	flag.StringVar(&cfg.APIURL, "api-url", "http://localhost:8090", "devicedeck API base URL")
	flag.StringVar(&cfg.Email, "email", "", "account email to log in with")
	flag.StringVar(&cfg.Password, "password", "", "account password (or set DEVICEDECK_PASSWORD)")
	flag.StringVar(&cfg.Token, "token", "", "bearer token, skips the login call")
	flag.BoolVar(&cfg.TLSSkipVerify, "insecure", false, "skip TLS certificate verification")
	flag.BoolVar(&cfg.Debug, "debug", false, "enable debug logging")
	flag.Parse()

	if cfg.Password == "" {
		cfg.Password = os.Getenv("DEVICEDECK_PASSWORD")
	}

	return cfg
}

func main() {
	cfg := parseFlags()

	// Log to a file so the TUI owns the terminal.
	logCfg := logger.DefaultConfig()
	logCfg.Output = "file:devicedeck.log"
	logCfg.Debug = cfg.Debug

	if err := logger.Init(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.WithComponent("devicedeck")

	client := api.NewClient(api.Config{
		BaseURL:       cfg.APIURL,
		Token:         cfg.Token,
		Timeout:       30 * time.Second,
		TLSSkipVerify: cfg.TLSSkipVerify,
	})

	user, err := authenticate(client, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "login: %v\n", err)
		os.Exit(1)
	}

	log.Info().Str("api_url", cfg.APIURL).Str("user", user.Email).Msg("starting devicedeck")

	program := tea.NewProgram(tui.NewModel(client, user, log), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Error().Err(err).Msg("program exited with error")
		fmt.Fprintf(os.Stderr, "devicedeck: %v\n", err)
		os.Exit(1)
	}
}

func authenticate(client *api.Client, cfg cmdConfig) (*models.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if cfg.Token != "" {
		// Token mode has no profile to fetch, label the session by URL.
		return &models.User{ID: "token", Email: cfg.APIURL}, nil
	}

	if cfg.Email == "" {
		return nil, fmt.Errorf("either -token or -email and -password are required")
	}

	user, token, err := client.Login(ctx, cfg.Email, cfg.Password)
	if err != nil {
		return nil, err
	}

	client.SetToken(token)

	return user, nil
}
