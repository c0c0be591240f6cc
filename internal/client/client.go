// Package client 是辯論房間的客戶端：HTTP API、輪詢快照與提交控制
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"debate_arena/internal/apperr"
	"debate_arena/internal/room"
)

// SnapshotSource 提供房間的最新快照
type SnapshotSource interface {
	RoomStatus(ctx context.Context, key string) (*room.StatusView, error)
}

// RoomAPI 是提交控制需要的伺服器操作
type RoomAPI interface {
	SubmitArgument(ctx context.Context, key, player, argument string) (*SubmitResponse, error)
	AbortDebate(ctx context.Context, key, player string) (*AbortResponse, error)
}

type SubmitResponse struct {
	Status       room.Status       `json:"status"`
	CurrentRound int               `json:"current_round"`
	NextTurn     string            `json:"next_turn,omitempty"`
	RoundResult  *room.RoundResult `json:"round_result"`
	FinalResult  *room.Result      `json:"final_result,omitempty"`
	Room         room.Snapshot     `json:"room"`
}

type AbortResponse struct {
	Status  room.Status `json:"status"`
	Message string      `json:"message"`
	Player  string      `json:"player"`
	Penalty int         `json:"penalty"`
}

// Client 透過 HTTP 呼叫辯論 API
type Client struct {
	BaseURL string
	Token   string
	http    *http.Client
}

func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) CreatePlayer(ctx context.Context, name, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"player_name": name, "password": password}
	if err := c.do(ctx, http.MethodPost, "/players/create", body, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) Login(ctx context.Context, name, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"player_name": name, "password": password}
	if err := c.do(ctx, http.MethodPost, "/players/login", body, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// CreateRoom 建立房間並回傳房間代碼
func (c *Client) CreateRoom(ctx context.Context, creator, topic string) (string, error) {
	var out struct {
		RoomKey string `json:"room_key"`
	}
	path := "/create-room/" + url.PathEscape(creator) + "?topic=" + url.QueryEscape(topic)
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return "", err
	}
	return out.RoomKey, nil
}

func (c *Client) JoinRoom(ctx context.Context, key, player string) (*room.Snapshot, error) {
	var out struct {
		Room room.Snapshot `json:"room"`
	}
	body := map[string]string{"player_name": player}
	if err := c.do(ctx, http.MethodPost, "/join-room/"+url.PathEscape(key), body, &out); err != nil {
		return nil, err
	}
	return &out.Room, nil
}

func (c *Client) SubmitArgument(ctx context.Context, key, player, argument string) (*SubmitResponse, error) {
	var out SubmitResponse
	path := "/submit-argument/" + url.PathEscape(key) + "/" + url.PathEscape(player)
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"argument": argument}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AbortDebate(ctx context.Context, key, player string) (*AbortResponse, error) {
	var out AbortResponse
	path := "/abort-debate/" + url.PathEscape(key) + "/" + url.PathEscape(player)
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RoomStatus(ctx context.Context, key string) (*room.StatusView, error) {
	var out room.StatusView
	if err := c.do(ctx, http.MethodGet, "/room-status/"+url.PathEscape(key), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do 送出請求，伺服器拒絕時回傳帶有代碼的 *apperr.Error，網路問題回傳 CodeTransport
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.CodeTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Wrap(apperr.CodeTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	var body struct {
		Error   string            `json:"error"`
		Code    apperr.Code       `json:"code"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(data, &body); err != nil || body.Code == "" {
		code := apperr.CodeInternal
		switch {
		case status == http.StatusNotFound:
			code = apperr.CodeNotFound
		case status == http.StatusBadGateway || status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout:
			code = apperr.CodeTransport
		}
		return apperr.Newf(code, "unexpected response %d: %s", status, strings.TrimSpace(string(data)))
	}
	e := apperr.Newf(body.Code, "%s", body.Error)
	for k, v := range body.Details {
		e.WithMetadata(k, v)
	}
	return e
}
