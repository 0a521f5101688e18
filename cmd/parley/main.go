package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"parley/internal/app"
	parleyclient "parley/internal/client"
	"parley/internal/config"
	"parley/internal/logging"
	"parley/internal/types"
)

const usageText = `parley is a terminal client for a chat backend.

Usage:
  parley [command] [flags]

Commands:
  ui       run the terminal UI (default)
  ls       list chats
  new      create a chat
  send     send a message to a chat
  clear    clear a chat's history
  rm       delete a chat
  tools    list available tools
  prompts  list available system prompts
  config   show or update a chat's LLM config
  help     show help

Flags:
  --addr   backend base URL (overrides config)

Examples:
  parley ls
  parley send 3 "hello there"
  parley config 3 --temperature 0.7
`

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		exitOnErr("ui", runUI(nil))
		return
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return
	case "ui":
		exitOnErr("ui", runUI(args[1:]))
	case "ls":
		exitOnErr("ls", runLS(args[1:]))
	case "new":
		exitOnErr("new", runNew(args[1:]))
	case "send":
		exitOnErr("send", runSend(args[1:]))
	case "clear":
		exitOnErr("clear", runClear(args[1:]))
	case "rm":
		exitOnErr("rm", runRM(args[1:]))
	case "tools":
		exitOnErr("tools", runTools(args[1:]))
	case "prompts":
		exitOnErr("prompts", runPrompts(args[1:]))
	case "config":
		exitOnErr("config", runConfig(args[1:]))
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
}

func newClient(addr string) (*parleyclient.Client, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, err
	}
	baseURL := strings.TrimSpace(addr)
	if baseURL == "" {
		baseURL = cfg.BackendBaseURL()
	}
	client := parleyclient.NewWithBaseURL(baseURL)
	client.SetTimeout(cfg.RequestTimeout())
	return client, cfg, nil
}

func runUI(args []string) error {
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addr := fs.String("addr", "", "backend base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, cfg, err := newClient(*addr)
	if err != nil {
		return err
	}

	log := logging.Nop()
	if path := cfg.LogFile(); path != "" {
		if _, err := config.EnsureDataDir(); err != nil {
			return err
		}
		file, err := logging.OpenFile(path)
		if err != nil {
			return err
		}
		defer file.Close()
		log = logging.New(file, logging.ParseLevel(cfg.LogLevel()))
	}
	client.SetLogger(log)

	return app.Run(app.NewClientAPI(client), cfg, log)
}

func runLS(args []string) error {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addr := fs.String("addr", "", "backend base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, _, err := newClient(*addr)
	if err != nil {
		return err
	}
	chats, err := client.ListChats(context.Background())
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tMESSAGES\tTOOL\tPROMPT\tTITLE")
	for _, chat := range chats {
		tool := "-"
		if chat.ActiveToolID != nil {
			tool = strconv.Itoa(*chat.ActiveToolID)
		}
		prompt := "-"
		if chat.SystemPromptID != nil {
			prompt = strconv.Itoa(*chat.SystemPromptID)
		}
		fmt.Fprintf(writer, "%d\t%d\t%s\t%s\t%s\n", chat.ID, len(chat.History), tool, prompt, chat.Title())
	}
	return writer.Flush()
}

func runNew(args []string) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addr := fs.String("addr", "", "backend base URL")
	message := fs.String("m", "", "first message to send")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, _, err := newClient(*addr)
	if err != nil {
		return err
	}
	ctx := context.Background()
	chat, err := client.CreateChat(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("chat %d created\n", chat.ID)

	if strings.TrimSpace(*message) != "" {
		chat, err = client.SendMessage(ctx, chat.ID, *message)
		if err != nil {
			return err
		}
		printLastReply(chat)
	}
	return nil
}

func runSend(args []string) error {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addr := fs.String("addr", "", "backend base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) < 2 {
		return errors.New("usage: parley send <id> <message>")
	}
	id, err := strconv.Atoi(rest[0])
	if err != nil {
		return fmt.Errorf("invalid chat id %q", rest[0])
	}
	content := strings.TrimSpace(strings.Join(rest[1:], " "))
	if content == "" {
		return errors.New("message is required")
	}

	client, _, err := newClient(*addr)
	if err != nil {
		return err
	}
	chat, err := client.SendMessage(context.Background(), id, content)
	if err != nil {
		return err
	}
	printLastReply(chat)
	return nil
}

func runClear(args []string) error {
	fs := flag.NewFlagSet("clear", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addr := fs.String("addr", "", "backend base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := chatIDArg(fs.Args(), "clear")
	if err != nil {
		return err
	}

	client, _, err := newClient(*addr)
	if err != nil {
		return err
	}
	if _, err := client.ClearHistory(context.Background(), id); err != nil {
		return err
	}
	fmt.Printf("chat %d history cleared\n", id)
	return nil
}

func runRM(args []string) error {
	fs := flag.NewFlagSet("rm", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addr := fs.String("addr", "", "backend base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := chatIDArg(fs.Args(), "rm")
	if err != nil {
		return err
	}

	client, _, err := newClient(*addr)
	if err != nil {
		return err
	}
	if err := client.DeleteChat(context.Background(), id); err != nil {
		return err
	}
	fmt.Printf("chat %d deleted\n", id)
	return nil
}

func runTools(args []string) error {
	fs := flag.NewFlagSet("tools", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addr := fs.String("addr", "", "backend base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, _, err := newClient(*addr)
	if err != nil {
		return err
	}
	tools, err := client.ListTools(context.Background())
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tNAME\tCALLABLE\tDESCRIPTION")
	for _, tool := range tools {
		fmt.Fprintf(writer, "%d\t%s\t%t\t%s\n", tool.ID, tool.DisplayName(), tool.IsCallable, tool.Description)
	}
	return writer.Flush()
}

func runPrompts(args []string) error {
	fs := flag.NewFlagSet("prompts", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addr := fs.String("addr", "", "backend base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, _, err := newClient(*addr)
	if err != nil {
		return err
	}
	prompts, err := client.ListSystemPrompts(context.Background())
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tNAME")
	for _, prompt := range prompts {
		fmt.Fprintf(writer, "%d\t%s\n", prompt.ID, prompt.Name)
	}
	return writer.Flush()
}

func runConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	addr := fs.String("addr", "", "backend base URL")
	maxTokens := fs.Int("max-tokens", 0, "max tokens (1..16384)")
	temperature := fs.Float64("temperature", -1, "sampling temperature")
	format := fs.String("format", "", "response format: text, tool, or auto_tools")

	// The chat id comes first: parley config 3 --temperature 0.7
	if len(args) == 0 {
		return errors.New("usage: parley config <id> [flags]")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid chat id %q", args[0])
	}
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	client, _, err := newClient(*addr)
	if err != nil {
		return err
	}
	ctx := context.Background()

	update, changed := buildConfigUpdate(*maxTokens, *temperature, *format)
	if changed {
		if _, err := client.UpdateLLMConfig(ctx, id, update); err != nil {
			return err
		}
	}

	cfg, err := client.GetLLMConfig(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("max_tokens: %d\ntemperature: %g\nresponse_format: %s\n", cfg.MaxTokens, cfg.Temperature, cfg.ResponseFormat)
	return nil
}

func buildConfigUpdate(maxTokens int, temperature float64, format string) (types.LLMConfigUpdate, bool) {
	var update types.LLMConfigUpdate
	changed := false
	if maxTokens > 0 {
		update.MaxTokens = &maxTokens
		changed = true
	}
	if temperature >= 0 {
		update.Temperature = &temperature
		changed = true
	}
	if format != "" {
		value := types.ResponseFormat(format)
		update.ResponseFormat = &value
		changed = true
	}
	return update, changed
}

func chatIDArg(args []string, command string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: parley %s <id>", command)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid chat id %q", args[0])
	}
	return id, nil
}

func printLastReply(chat *types.Chat) {
	if chat == nil {
		return
	}
	if message, ok := chat.LastMessage(); ok && message.Role == types.RoleAssistant {
		fmt.Println(message.Content)
	}
}

func exitOnErr(label string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%s error: %v\n", label, err)
	os.Exit(1)
}
