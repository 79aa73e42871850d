package keeper

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"keeper-client/pkg/errno"
)

// Session 是面向调用方的门面: 管理 NotReady -> Ready 生命周期,
// 把松散输入交给构建器校验, 再把合法信封交给 Provider。
//
// Ready 是终态: 页面会话内只发生一次, 不会回退。就绪前除了
// AwaitReady 和 On 之外的操作都返回 ErrNotReady。
type Session struct {
	provider Provider
	log      *zap.Logger

	ready     atomic.Bool
	readyOnce sync.Once
}

// NewSession 构造门面。log 传 nil 时静默。
func NewSession(provider Provider, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{provider: provider, log: log}
}

// AwaitReady 等待 Provider 的一次性就绪信号。已就绪时立即返回;
// ctx 取消只影响本次等待, 不影响后续重试。
func (s *Session) AwaitReady(ctx context.Context) error {
	if s.ready.Load() {
		return nil
	}
	if err := s.provider.Ready(ctx); err != nil {
		return err
	}
	s.readyOnce.Do(func() {
		s.ready.Store(true)
		s.log.Info("keeper ready")
	})
	return nil
}

// IsReady 报告就绪信号是否已经到达
func (s *Session) IsReady() bool {
	return s.ready.Load()
}

func (s *Session) ensureReady() error {
	if !s.ready.Load() {
		return errno.ErrNotReady
	}
	return nil
}

// On 订阅状态快照。就绪前就可以注册; 每次注册都会收到之后的全部事件。
func (s *Session) On(cb func(state *PublicState)) {
	s.provider.On(UpdateEvent, cb)
}

// PublicState 拉取当前状态快照, 每次调用都走一次 Provider 往返, 不缓存
func (s *Session) PublicState(ctx context.Context) (*PublicState, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	state, err := s.provider.PublicState(ctx)
	if err != nil {
		return nil, wrapProvider(err)
	}
	return state, nil
}

// Auth 请求站点授权签名
func (s *Session) Auth(ctx context.Context, input AuthInput) (*AuthResult, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	if err := requireString("data", input.Data); err != nil {
		return nil, err
	}
	res, err := s.provider.Auth(ctx, input)
	if err != nil {
		return nil, wrapProvider(err)
	}
	return res, nil
}

// SignTransaction 校验并签名单笔交易
func (s *Session) SignTransaction(ctx context.Context, typ int, data any) (*SignedTransaction, error) {
	return s.signTx(ctx, typ, data, false)
}

// SignAndPublishTransaction 同 SignTransaction, 但 Provider 还会广播
func (s *Session) SignAndPublishTransaction(ctx context.Context, typ int, data any) (*SignedTransaction, error) {
	return s.signTx(ctx, typ, data, true)
}

func (s *Session) signTx(ctx context.Context, typ int, data any, publish bool) (*SignedTransaction, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	env, err := BuildTransaction(typ, data)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if publish {
		raw, err = s.provider.SignAndPublishTransaction(ctx, *env)
	} else {
		raw, err = s.provider.SignTransaction(ctx, *env)
	}
	if err != nil {
		return nil, wrapProvider(err)
	}
	return ParseSignedResult(raw, typ)
}

// SignTransactionPackage 打包签名。构建阶段任何失败都不会触碰 Provider;
// Provider 调用是单一悬挂点, 整体成败。
func (s *Session) SignTransactionPackage(ctx context.Context, items []BatchItem) ([]*SignedTransaction, error) {
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	envs, err := BuildBatch(items)
	if err != nil {
		return nil, err
	}

	raws, err := s.provider.SignTransactionPackage(ctx, envs)
	if err != nil {
		return nil, wrapProvider(err)
	}
	if len(raws) != len(envs) {
		return nil, errno.Validation(errno.ErrMalformedResponse, "",
			"package result count does not match request")
	}

	out := make([]*SignedTransaction, len(raws))
	for i, raw := range raws {
		signed, err := ParseSignedResult(raw, envs[i].Type)
		if err != nil {
			return nil, indexed(err, i)
		}
		out[i] = signed
	}
	return out, nil
}

// SignOrder 校验并签名撮合订单
func (s *Session) SignOrder(ctx context.Context, data any) (string, error) {
	return s.signOrder(ctx, data, false)
}

// SignAndPublishOrder 同 SignOrder, 但 Provider 还会把订单发给 matcher
func (s *Session) SignAndPublishOrder(ctx context.Context, data any) (string, error) {
	return s.signOrder(ctx, data, true)
}

func (s *Session) signOrder(ctx context.Context, data any, publish bool) (string, error) {
	if err := s.ensureReady(); err != nil {
		return "", err
	}
	env, err := BuildOrder(data)
	if err != nil {
		return "", err
	}
	var res string
	if publish {
		res, err = s.provider.SignAndPublishOrder(ctx, *env)
	} else {
		res, err = s.provider.SignOrder(ctx, *env)
	}
	if err != nil {
		return "", wrapProvider(err)
	}
	return res, nil
}

// SignCancelOrder 校验并签名撤单请求
func (s *Session) SignCancelOrder(ctx context.Context, data any) (string, error) {
	return s.signCancelOrder(ctx, data, false)
}

// SignAndPublishCancelOrder 同 SignCancelOrder, 但 Provider 还会通知 matcher
func (s *Session) SignAndPublishCancelOrder(ctx context.Context, data any) (string, error) {
	return s.signCancelOrder(ctx, data, true)
}

func (s *Session) signCancelOrder(ctx context.Context, data any, publish bool) (string, error) {
	if err := s.ensureReady(); err != nil {
		return "", err
	}
	env, err := BuildCancelOrder(data)
	if err != nil {
		return "", err
	}
	var res string
	if publish {
		res, err = s.provider.SignAndPublishCancelOrder(ctx, *env)
	} else {
		res, err = s.provider.SignCancelOrder(ctx, *env)
	}
	if err != nil {
		return "", wrapProvider(err)
	}
	return res, nil
}

// SignRequest 签名通用请求 (type 1001 / 1004)
func (s *Session) SignRequest(ctx context.Context, typ int, data any) (string, error) {
	if err := s.ensureReady(); err != nil {
		return "", err
	}
	env, err := BuildSignRequest(typ, data)
	if err != nil {
		return "", err
	}
	res, err := s.provider.SignRequest(ctx, *env)
	if err != nil {
		return "", wrapProvider(err)
	}
	return res, nil
}

// wrapProvider 把 Provider 侧错误原样包装透传, 不重试也不解释。
// ctx 取消等调用方自身的错误不归到 Provider 头上。
func wrapProvider(err error) error {
	var p *errno.ProviderError
	if errors.As(err, &p) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return errno.Provider(err)
}
