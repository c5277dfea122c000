package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CommandHandler is called with a slash command and returns the reply text.
// An empty reply means nothing is sent back.
type CommandHandler func(command string) string

type update struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// StartPolling long-polls the bot for slash commands and dispatches them to
// the handler. Messages from chats other than the configured one are dropped,
// as is anything that does not start with "/". Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	offset := 0
	client := &http.Client{Timeout: 35 * time.Second}

	for {
		select {
		case <-ctx.Done():
			log.Println("[INFO] command polling stopped")
			return
		default:
		}

		apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/getUpdates?offset=%d&timeout=30", t.BotToken, offset)
		req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
		if err != nil {
			log.Printf("[ERROR] create polling request: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[WARN] polling request failed: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			log.Printf("[WARN] read polling response: %v", err)
			continue
		}

		var result struct {
			OK     bool     `json:"ok"`
			Result []update `json:"result"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			log.Printf("[WARN] decode polling response: %v", err)
			continue
		}

		for _, u := range result.Result {
			offset = u.UpdateID + 1
			if u.Message == nil {
				continue
			}
			if !t.fromConfiguredChat(u.Message.Chat.ID) {
				continue
			}
			cmd := strings.TrimSpace(u.Message.Text)
			if !strings.HasPrefix(cmd, "/") {
				continue
			}
			log.Printf("[INFO] command received: %s", cmd)
			if reply := handler(cmd); reply != "" {
				if err := t.Send(reply); err != nil {
					log.Printf("[ERROR] send reply: %v", err)
				}
			}
		}
	}
}

// fromConfiguredChat accepts everything when no chat ID is configured,
// otherwise only messages from that chat.
func (t *TelegramNotifier) fromConfiguredChat(chatID int64) bool {
	if t.ChatID == "" {
		return true
	}
	return strconv.FormatInt(chatID, 10) == t.ChatID
}
