package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// detectDecksDir checks the working directory for a likely deck folder.
func detectDecksDir() string {
	for _, candidate := range []string{"decks", "slide_decks", "data/decks"} {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	return "decks"
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .miconsole.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to mi-console! Let's configure your presentation console.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Deck directory.
	decksPrompt := promptui.Prompt{
		Label:   "Directory holding deck JSON files",
		Default: detectDecksDir(),
	}
	decksDir, err := decksPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("decks dir: %w", err)
	}
	cfg.DecksDir = decksDir

	// 2. Server port.
	portPrompt := promptui.Prompt{
		Label:   "Server port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(input string) error {
			n, err := strconv.Atoi(input)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 3. Transport selection.
	transportPrompt := promptui.Select{
		Label: "Cross-window sync transport",
		Items: []string{
			"hub  - websocket hub (recommended)",
			"file - shared relay file (single machine fallback)",
		},
	}
	transportIdx, _, err := transportPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("transport selection: %w", err)
	}
	if transportIdx == 1 {
		cfg.Transport = TransportFile

		relayPrompt := promptui.Prompt{
			Label:   "Relay file path",
			Default: cfg.RelayPath,
		}
		relayPath, err := relayPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("relay path: %w", err)
		}
		cfg.RelayPath = relayPath
	}

	// 4. Default deck.
	deckPrompt := promptui.Prompt{
		Label:   "Default deck id (leave blank for first in catalog)",
		Default: "",
	}
	defaultDeck, err := deckPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("default deck: %w", err)
	}
	cfg.DefaultDeck = defaultDeck

	// 5. Upstream slides API, for consoles fronting another backend.
	upstreamPrompt := promptui.Prompt{
		Label:   "Upstream slides API URL (leave blank to serve local decks)",
		Default: "",
	}
	upstream, err := upstreamPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("upstream url: %w", err)
	}
	cfg.UpstreamURL = upstream

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(DefaultPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultPath)
	return cfg, nil
}
