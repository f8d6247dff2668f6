package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"article-agent/backend/internal/client"
	"article-agent/backend/internal/model"
)

var (
	configFlag   string
	serverFlag   string
	providerFlag string
	modelFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "agentctl",
	Short: "Chat with the article agent from the terminal",
	Long: `agentctl streams answers from the article agent and keeps the last turns
of the conversation as context for the next question.

Inside the chat, press Ctrl+C to stop the current answer and Ctrl+D or
type /quit to leave.`,
	SilenceUsage: true,
	RunE:         runChat,
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a single question and print the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the providers and models the server offers",
	RunE:  runModels,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", defaultConfigPath(), "Config file (TOML)")
	rootCmd.PersistentFlags().StringVarP(&serverFlag, "server", "s", "", "Server URL (default "+defaultServer+")")
	rootCmd.PersistentFlags().StringVarP(&providerFlag, "provider", "p", "", "Provider (OpenAI, OpenRouter)")
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model to use (provider-specific)")

	rootCmd.AddCommand(askCmd, modelsCmd)
}

// connect builds a client and applies the provider/model choice, if any, to
// the new session.
func connect(ctx context.Context, view client.View) (*client.Client, error) {
	cfg, err := loadConfig(configFlag)
	if err != nil {
		return nil, err
	}
	server := cfg.Server
	if serverFlag != "" {
		server = serverFlag
	}
	provider, modelName := cfg.Provider, cfg.Model
	if providerFlag != "" {
		provider = providerFlag
	}
	if modelFlag != "" {
		modelName = modelFlag
	}

	c := client.New(server, view)
	if provider == "" && modelName == "" {
		return c, nil
	}

	current, err := c.Settings(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not reach %s: %w", server, err)
	}
	sel := current.Current
	if provider != "" {
		sel.Provider = provider
	}
	if modelName != "" {
		sel.Model = modelName
	}
	if err := c.SaveSettings(ctx, sel); err != nil {
		return nil, fmt.Errorf("could not select %s/%s: %w", sel.Provider, sel.Model, err)
	}
	return c, nil
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	c, err := connect(ctx, newTerminalView(out, false))
	if err != nil {
		return err
	}

	// Ctrl+C stops the running answer instead of killing the program.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)
	done := make(chan struct{})
	defer close(done)
	go forwardInterrupts(interrupts, done, c.Stop)

	return chatLoop(ctx, c, cmd.InOrStdin(), out)
}

// forwardInterrupts calls stop for every signal until done is closed.
func forwardInterrupts(interrupts <-chan os.Signal, done <-chan struct{}, stop func()) {
	for {
		select {
		case <-interrupts:
			stop()
		case <-done:
			return
		}
	}
}

func chatLoop(ctx context.Context, c *client.Client, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, userLabel.Render("> "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/history":
			printHistory(out, c.History())
			continue
		}
		// Failures are already shown in the transcript.
		_ = c.Send(ctx, line)
	}
}

func printHistory(out io.Writer, history []model.Turn) {
	for _, turn := range history {
		label := userLabel.Render("You:")
		if turn.Role == "assistant" {
			label = assistantLabel.Render("Assistant:")
		}
		fmt.Fprintf(out, "%s %s\n", label, turn.Content)
	}
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	c, err := connect(ctx, newTerminalView(cmd.OutOrStdout(), true))
	if err != nil {
		return err
	}
	if err := c.Send(ctx, strings.Join(args, " ")); err != nil {
		return err
	}
	if c.State() == client.StateError {
		return errors.New("the agent could not answer")
	}
	return nil
}

func runModels(cmd *cobra.Command, _ []string) error {
	c, err := connect(cmd.Context(), newTerminalView(io.Discard, true))
	if err != nil {
		return err
	}
	settings, err := c.Settings(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, p := range settings.Catalogue.Providers {
		fmt.Fprintln(out, assistantLabel.Render(p.Name))
		for _, m := range p.Models {
			marker := "  "
			if p.Name == settings.Current.Provider && m.ID == settings.Current.Model {
				marker = "* "
			}
			fmt.Fprintf(out, "%s%s %s\n", marker, m.ID, typingStyle.Render(m.Label))
		}
	}
	return nil
}
