package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lwei/chatsum/internal/chatlog"
	"github.com/lwei/chatsum/internal/config"
	"github.com/lwei/chatsum/internal/deepseek"
	"github.com/lwei/chatsum/internal/prompt"
	"github.com/lwei/chatsum/internal/session"
	"github.com/lwei/chatsum/internal/tui"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to the YAML config file")
	apiKey := flag.String("api-key", "", "override the configured API key")
	model := flag.String("model", "", "override the configured model (deepseek-chat or deepseek-reasoner)")
	chatlogURL := flag.String("chatlog-url", "", "override the chat-log service base URL")
	saveConfig := flag.Bool("save-config", false, "write the effective configuration back to the config file and exit")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	debugLog := flag.String("debug-log", "", "append debug logs to this file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("failed to load config:", err)
		os.Exit(1)
	}
	if *apiKey != "" {
		cfg.APIKey = *apiKey
	}
	if *model != "" {
		if *model != config.ModelChat && *model != config.ModelReasoner {
			fmt.Printf("unknown model %q, using %s\n", *model, config.ModelChat)
			*model = config.ModelChat
		}
		cfg.Model = *model
	}
	if *chatlogURL != "" {
		cfg.ChatlogBaseURL = *chatlogURL
	}

	if *saveConfig {
		if err := config.Save(*configPath, cfg); err != nil {
			fmt.Println("failed to save config:", err)
			os.Exit(1)
		}
		fmt.Println("config written to", *configPath)
		return
	}

	// The log package writes to stderr by default, which tears the TUI.
	if *debugLog != "" {
		f, err := tea.LogToFile(*debugLog, "chatsum")
		if err != nil {
			fmt.Println("failed to open debug log:", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	opts := []tea.ProgramOption{}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Session: session.New(cfg),
			Catalog: prompt.NewCatalog(),
			Chatlog: chatlog.NewClient(cfg.ChatlogBaseURL),
			Engine:  deepseek.NewEngine(),
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}
