package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"Ampere/internal/auth"
	"Ampere/internal/logger"
	"Ampere/internal/repo"
)

const apiBase = "https://api.telegram.org/bot"

type Update struct {
	UpdateID int      `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	MessageID int    `json:"message_id"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type UpdateResponse struct {
	OK     bool     `json:"ok"`
	Result []Update `json:"result"`
}

type client struct {
	token string
	http  *http.Client
}

func main() {
	_ = godotenv.Load()
	log := logger.Get(os.Getenv("LOG_LEVEL"))

	token := os.Getenv("TOKEN_BOT")
	peerStr := os.Getenv("ADMIN_PEER_ID")
	if token == "" || peerStr == "" {
		log.Fatalw("TOKEN_BOT or ADMIN_PEER_ID missing")
	}
	adminID, err := strconv.ParseInt(peerStr, 10, 64)
	if err != nil {
		log.Fatalw("bad ADMIN_PEER_ID", "err", err)
	}

	db, err := auth.InitDB(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalw("failed to init postgres", "err", err)
	}
	defer db.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	b := &bot{adminID: adminID, repo: repo.NewPostgresDB(db)}
	c := &client{token: token, http: &http.Client{Timeout: 30 * time.Second}}

	offset := 0
	for ctx.Err() == nil {
		updates, err := c.getUpdates(ctx, offset)
		if err != nil {
			log.Warnw("getUpdates error", "err", err)
			sleep(ctx, 2*time.Second)
			continue
		}
		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.Message == nil || u.Message.Text == "" {
				continue
			}
			text := b.reply(ctx, u.Message.Chat.ID, u.Message.Text)
			if err := c.sendMessage(ctx, u.Message.Chat.ID, text); err != nil {
				log.Warnw("sendMessage error", "chat_id", u.Message.Chat.ID, "err", err)
			}
		}
	}
	log.Infow("bot stopped")
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

func (c *client) getUpdates(ctx context.Context, offset int) ([]Update, error) {
	u := fmt.Sprintf("%s%s/getUpdates?timeout=20&offset=%d", apiBase, c.token, offset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	var out UpdateResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	if !out.OK {
		return nil, fmt.Errorf("telegram: status %d", res.StatusCode)
	}
	return out.Result, nil
}

func (c *client) sendMessage(ctx context.Context, chatID int64, text string) error {
	form := url.Values{"chat_id": {strconv.FormatInt(chatID, 10)}, "text": {text}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBase+c.token+"/sendMessage", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram: status %d", res.StatusCode)
	}
	return nil
}
