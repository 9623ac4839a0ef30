package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"goodfoods/internal/agent"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var chatShowTools bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the reservation assistant in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rt, err := buildRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		sessionID := uuid.NewString()
		fmt.Println("GoodFoods reservation assistant. Type 'quit' to exit.")

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "quit" || line == "exit" {
				break
			}

			reply := rt.runner.Run(ctx, sessionID, line, func(ev agent.Event) {
				if !chatShowTools {
					return
				}
				switch ev.Type {
				case agent.EventToolCall:
					if m, ok := ev.Data.(map[string]string); ok {
						fmt.Printf("  [tool] %s %s\n", m["name"], m["arguments"])
					}
				case agent.EventToolResult:
					if m, ok := ev.Data.(map[string]string); ok {
						fmt.Printf("  [result] %s\n", m["content"])
					}
				}
			})
			fmt.Println(reply)

			if ctx.Err() != nil {
				break
			}
		}
		return scanner.Err()
	},
}

func init() {
	chatCmd.Flags().BoolVar(&chatShowTools, "show-tools", false, "print tool calls and results as they happen")
}
