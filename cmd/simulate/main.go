package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"ai-sitebuilder-be/internal/dto"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Interactive client for exercising the assistant endpoint. The
// conversation state returned by each reply is echoed back on the next
// turn, exactly as a frontend would do it.

var (
	userColor  = color.New(color.FgCyan, color.Bold)
	agentColor = color.New(color.FgGreen)
	metaColor  = color.New(color.FgYellow)
	errColor   = color.New(color.FgRed, color.Bold)
)

type chatEnvelope struct {
	Message string            `json:"message"`
	Data    *dto.ChatResponse `json:"data"`
}

func main() {
	baseURL := getenv("ASSISTANT_BASE_URL", "http://localhost:3000/api/assistant/v1")
	token := os.Getenv("ASSISTANT_ACCESS_TOKEN")
	siteIdStr := os.Getenv("ASSISTANT_SITE_ID")

	siteId, err := uuid.Parse(siteIdStr)
	if err != nil {
		errColor.Println("ASSISTANT_SITE_ID must be a valid UUID")
		os.Exit(1)
	}

	metaColor.Println("=== Site Builder Assistant Simulation ===")
	metaColor.Printf("Endpoint: %s | Site: %s\n", baseURL, siteId)
	fmt.Println("Type a message and press Enter. Ctrl+D to quit.")

	var state *dto.ConversationStateDTO
	scanner := bufio.NewScanner(os.Stdin)

	for {
		userColor.Print("you> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		start := time.Now()
		res, err := sendChat(baseURL, token, siteId, text, state)
		elapsed := time.Since(start)

		if err != nil {
			errColor.Printf("error: %v\n", err)
			continue
		}

		agentColor.Printf("agent (%v): %s\n", elapsed.Round(time.Millisecond), res.Message)
		if len(res.RejectedFields) > 0 {
			metaColor.Printf("rejected fields: %s\n", strings.Join(res.RejectedFields, ", "))
		}
		if res.State.PendingSelection != nil {
			metaColor.Println("(awaiting a numbered selection)")
		}
		if res.State.PendingDesign != nil {
			metaColor.Println("(awaiting design confirmation)")
		}

		next := res.State
		state = &next
	}
	fmt.Println()
}

func sendChat(baseURL, token string, siteId uuid.UUID, text string, state *dto.ConversationStateDTO) (*dto.ChatResponse, error) {
	payload := dto.ChatRequest{
		SiteId: siteId,
		Text:   text,
		State:  state,
	}
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", baseURL+"/chat", bytes.NewBuffer(jsonBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API Error %d: %s", resp.StatusCode, string(body))
	}

	var envelope chatEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("empty response payload")
	}
	return envelope.Data, nil
}

func getenv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
