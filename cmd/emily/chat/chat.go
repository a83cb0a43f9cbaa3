// Package chatcmder provides the chat command for talking to a running
// emily server from the terminal.
package chatcmder

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/flowwed/emily/pkg/chat"
	"github.com/flowwed/emily/pkg/cliui"
	"github.com/flowwed/emily/pkg/logger"
)

var (
	userPrompt  = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	emilyPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Render("emily> ")
)

type chatCommander struct {
	target string
	token  string
	page   string
	sid    string
	debug  bool

	logger *zap.Logger
}

// chatRequest mirrors the POST /chat body.
type chatRequest struct {
	Text string `json:"text"`
}

// chatResponse mirrors the POST /chat reply envelope.
type chatResponse struct {
	Reply string `json:"reply"`
}

const chatLongDesc string = `Start an interactive chat session with a running emily server.

Each invocation opens a fresh session (a random session id), so the
conversation starts from the greeting. Durable facts Emily has learned
about the token persist across sessions.

Examples:
  emily chat
  emily chat --token couple42
  emily chat --target http://localhost:9090 --page Gallery`

const chatShortDesc string = "Interactive chat with a running emily server"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.target, "target", "t", "http://localhost:8080", "Emily server URL")
	cmd.Flags().StringVar(&cmder.token, "token", chat.DefaultToken, "Identity token")
	cmd.Flags().StringVar(&cmder.page, "page", chat.DefaultPage, "Studio page the conversation is attributed to")

	return cmd
}

func (c *chatCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	c.sid = uuid.NewString()

	fmt.Println()
	fmt.Printf("  %s %s\n",
		cliui.KeyStyle.Render("Token:"),
		cliui.NameStyle.Render(c.token),
	)
	fmt.Printf("  %s %s\n\n",
		cliui.KeyStyle.Render("Session:"),
		cliui.DimStyle.Render(c.sid),
	)
	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /exit or Ctrl+D to quit."))

	// An empty first message asks the server for the greeting.
	greeting, err := c.send("")
	if err != nil {
		return fmt.Errorf("reaching server: %w", err)
	}
	fmt.Printf("%s%s\n\n", emilyPrompt, greeting)

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		reply, err := c.send(input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
			continue
		}

		fmt.Printf("%s%s\n\n", emilyPrompt, reply)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}

// send posts one turn to the server and returns the reply text.
func (c *chatCommander) send(text string) (string, error) {
	body, err := json.Marshal(chatRequest{Text: text})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	query := url.Values{}
	query.Set("token", c.token)
	query.Set("page", c.page)
	query.Set("_", c.sid)
	target := c.target + "/chat?" + query.Encode()

	c.logger.Debug("sending chat request",
		zap.String("target", target),
		zap.String("token", c.token),
	)

	httpReq, err := http.NewRequestWithContext(context.Background(), http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{
		// LLM responses can be slow
		Timeout: 5 * time.Minute,
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server returned status %d: %s", resp.StatusCode, parsed.Reply)
	}

	return parsed.Reply, nil
}
