// Package httpkeeper 通过 HTTP 对接一个 Keeper 服务 (例如 devnode),
// 实现 keeper.Provider。浏览器注入对象的事件推送在这里退化为轮询。
package httpkeeper

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"keeper-client/pkg/errno"
	"keeper-client/pkg/keeper"
)

// Options 连接参数。零值字段取默认。
type Options struct {
	BaseURL      string
	HTTPClient   *http.Client
	PollInterval time.Duration
	Logger       *zap.Logger
}

// Client 是 keeper.Provider 的 HTTP 实现
type Client struct {
	baseURL string
	http    *http.Client
	poll    time.Duration
	log     *zap.Logger

	mu        sync.Mutex
	callbacks []func(*keeper.PublicState)
	polling   bool

	done      chan struct{}
	closeOnce sync.Once
}

var _ keeper.Provider = (*Client)(nil)

func New(opts Options) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 500 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Client{
		baseURL: opts.BaseURL,
		http:    opts.HTTPClient,
		poll:    opts.PollInterval,
		log:     opts.Logger,
		done:    make(chan struct{}),
	}
}

// Close 停止后台状态轮询。幂等, 已注册的回调不会再被调用。
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// envelope 服务端的统一响应结构
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "encode request body")
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, errno.Validation(errno.ErrMalformedResponse, "", err.Error())
	}
	if env.Code != errno.OK.Code {
		// 服务端的拒绝按 Provider 错误原样透传
		return nil, &errno.ProviderError{
			Errno: errno.Errno{Code: env.Code, Message: env.Message},
		}
	}
	return env.Data, nil
}

// Ready 轮询就绪探针直到服务端应答或 ctx 取消
func (c *Client) Ready(ctx context.Context) error {
	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()

	for {
		if _, err := c.do(ctx, http.MethodGet, "/api/v1/ready", nil); err == nil {
			return nil
		} else if ctx.Err() != nil {
			return ctx.Err()
		} else {
			c.log.Debug("keeper not ready yet", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// On 注册状态回调。第一个回调会启动后台轮询;
// 快照有变化时才通知, 模拟注入对象的 update 事件。
func (c *Client) On(event string, cb func(state *keeper.PublicState)) {
	if event != keeper.UpdateEvent {
		return
	}
	c.mu.Lock()
	c.callbacks = append(c.callbacks, cb)
	start := !c.polling
	c.polling = true
	c.mu.Unlock()

	if start {
		go c.pollState()
	}
}

func (c *Client) pollState() {
	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()

	var last *keeper.PublicState
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.poll*4)
		state, err := c.PublicState(ctx)
		cancel()
		if err != nil {
			c.log.Debug("state poll failed", zap.Error(err))
			continue
		}
		if last != nil && reflect.DeepEqual(last, state) {
			continue
		}
		last = state

		c.mu.Lock()
		cbs := append([]func(*keeper.PublicState){}, c.callbacks...)
		c.mu.Unlock()
		for _, cb := range cbs {
			cb(state)
		}
	}
}

func (c *Client) PublicState(ctx context.Context) (*keeper.PublicState, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/v1/state", nil)
	if err != nil {
		return nil, err
	}
	var state keeper.PublicState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, errno.Validation(errno.ErrMalformedResponse, "", err.Error())
	}
	return &state, nil
}

func (c *Client) Auth(ctx context.Context, input keeper.AuthInput) (*keeper.AuthResult, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/v1/auth", input)
	if err != nil {
		return nil, err
	}
	var result keeper.AuthResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errno.Validation(errno.ErrMalformedResponse, "", err.Error())
	}
	return &result, nil
}

func (c *Client) SignTransaction(ctx context.Context, env keeper.Envelope) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/api/v1/sign/tx", env)
}

func (c *Client) SignAndPublishTransaction(ctx context.Context, env keeper.Envelope) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, "/api/v1/sign/tx/publish", env)
}

func (c *Client) SignTransactionPackage(ctx context.Context, envs []keeper.Envelope) ([]json.RawMessage, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/v1/sign/package", envs)
	if err != nil {
		return nil, err
	}
	var out []json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errno.Validation(errno.ErrMalformedResponse, "", err.Error())
	}
	return out, nil
}

func (c *Client) signText(ctx context.Context, path string, env keeper.Envelope) (string, error) {
	data, err := c.do(ctx, http.MethodPost, path, env)
	if err != nil {
		return "", err
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// 服务端可能直接返回 JSON 对象而不是字符串
		return string(data), nil
	}
	return s, nil
}

func (c *Client) SignOrder(ctx context.Context, env keeper.Envelope) (string, error) {
	return c.signText(ctx, "/api/v1/sign/order", env)
}

func (c *Client) SignAndPublishOrder(ctx context.Context, env keeper.Envelope) (string, error) {
	return c.signText(ctx, "/api/v1/sign/order/publish", env)
}

func (c *Client) SignCancelOrder(ctx context.Context, env keeper.Envelope) (string, error) {
	return c.signText(ctx, "/api/v1/sign/cancel", env)
}

func (c *Client) SignAndPublishCancelOrder(ctx context.Context, env keeper.Envelope) (string, error) {
	return c.signText(ctx, "/api/v1/sign/cancel/publish", env)
}

func (c *Client) SignRequest(ctx context.Context, env keeper.Envelope) (string, error) {
	return c.signText(ctx, "/api/v1/sign/request", env)
}
