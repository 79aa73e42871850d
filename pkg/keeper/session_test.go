package keeper

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"keeper-client/pkg/errno"
)

// fakeProvider 测试替身: 记录调用并返回形态合法的响应
type fakeProvider struct {
	mu         sync.Mutex
	readyCalls int
	signCalls  int
	pkgCalls   int

	readyErr error
	signErr  error

	callbacks []func(*PublicState)
	state     *PublicState
}

func (f *fakeProvider) Ready(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readyCalls++
	return f.readyErr
}

func (f *fakeProvider) On(event string, cb func(*PublicState)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callbacks = append(f.callbacks, cb)
}

func (f *fakeProvider) push(state *PublicState) {
	f.mu.Lock()
	cbs := append([]func(*PublicState){}, f.callbacks...)
	f.mu.Unlock()
	for _, cb := range cbs {
		cb(state)
	}
}

func (f *fakeProvider) PublicState(ctx context.Context) (*PublicState, error) {
	if f.state != nil {
		return f.state, nil
	}
	return &PublicState{Initialized: true}, nil
}

func (f *fakeProvider) Auth(ctx context.Context, input AuthInput) (*AuthResult, error) {
	return &AuthResult{Host: "example.com", Address: "3P8pGyzZLJh4zGKpgyXTqNcVGRAGGrUgBcT"}, nil
}

func (f *fakeProvider) SignTransaction(ctx context.Context, env Envelope) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signCalls++
	if f.signErr != nil {
		return nil, f.signErr
	}
	return mockSignedResponse(env.Type), nil
}

func (f *fakeProvider) SignAndPublishTransaction(ctx context.Context, env Envelope) (json.RawMessage, error) {
	return f.SignTransaction(ctx, env)
}

func (f *fakeProvider) SignTransactionPackage(ctx context.Context, envs []Envelope) ([]json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pkgCalls++
	out := make([]json.RawMessage, len(envs))
	for i, env := range envs {
		out[i] = mockSignedResponse(env.Type)
	}
	return out, nil
}

func (f *fakeProvider) SignOrder(ctx context.Context, env Envelope) (string, error) {
	return `{"orderId":"fake"}`, nil
}

func (f *fakeProvider) SignAndPublishOrder(ctx context.Context, env Envelope) (string, error) {
	return f.SignOrder(ctx, env)
}

func (f *fakeProvider) SignCancelOrder(ctx context.Context, env Envelope) (string, error) {
	return `{"cancelled":true}`, nil
}

func (f *fakeProvider) SignAndPublishCancelOrder(ctx context.Context, env Envelope) (string, error) {
	return f.SignCancelOrder(ctx, env)
}

func (f *fakeProvider) SignRequest(ctx context.Context, env Envelope) (string, error) {
	return "2M25DqL2signature", nil
}

func TestSessionGatesOnReadiness(t *testing.T) {
	fake := &fakeProvider{}
	s := NewSession(fake, nil)
	ctx := context.Background()

	// 就绪前任何操作都不可用
	if _, err := s.PublicState(ctx); !errno.IsKind(err, errno.ErrNotReady) {
		t.Errorf("就绪前 PublicState 应报 ErrNotReady, 得到: %v", err)
	}
	if _, err := s.SignTransaction(ctx, TxTransfer, minimalPayload(TxTransfer)); !errno.IsKind(err, errno.ErrNotReady) {
		t.Errorf("就绪前 SignTransaction 应报 ErrNotReady, 得到: %v", err)
	}

	if err := s.AwaitReady(ctx); err != nil {
		t.Fatalf("AwaitReady 失败: %v", err)
	}
	if _, err := s.PublicState(ctx); err != nil {
		t.Errorf("就绪后 PublicState 应可用: %v", err)
	}
}

func TestSessionReadyIsTerminal(t *testing.T) {
	fake := &fakeProvider{}
	s := NewSession(fake, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := s.AwaitReady(ctx); err != nil {
			t.Fatalf("AwaitReady 第 %d 次失败: %v", i, err)
		}
	}
	if fake.readyCalls != 1 {
		t.Errorf("就绪信号只应等待一次, Provider.Ready 被调用 %d 次", fake.readyCalls)
	}
	if !s.IsReady() {
		t.Error("状态机应停留在 Ready 终态")
	}
}

func TestSessionReadyFailureAllowsRetry(t *testing.T) {
	fake := &fakeProvider{readyErr: context.DeadlineExceeded}
	s := NewSession(fake, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	if err := s.AwaitReady(ctx); err == nil {
		t.Fatal("等待失败时 AwaitReady 应返回错误")
	}
	if s.IsReady() {
		t.Error("等待失败不应进入 Ready")
	}

	fake.readyErr = nil
	if err := s.AwaitReady(context.Background()); err != nil {
		t.Fatalf("重试应成功: %v", err)
	}
}

func TestSessionSignTransactionRoundTrip(t *testing.T) {
	fake := &fakeProvider{}
	s := NewSession(fake, nil)
	ctx := context.Background()
	_ = s.AwaitReady(ctx)

	signed, err := s.SignTransaction(ctx, TxTransfer, minimalPayload(TxTransfer))
	if err != nil {
		t.Fatalf("签名失败: %v", err)
	}
	if signed.Type != TxTransfer {
		t.Errorf("type = %d, 期望 %d", signed.Type, TxTransfer)
	}
	if len(signed.Proofs) == 0 {
		t.Error("proofs 不应为空")
	}
}

func TestSessionValidationFailureSkipsProvider(t *testing.T) {
	fake := &fakeProvider{}
	s := NewSession(fake, nil)
	ctx := context.Background()
	_ = s.AwaitReady(ctx)

	bad := minimalPayload(TxIssue).(*IssueTx)
	bad.Name = "ab"
	if _, err := s.SignTransaction(ctx, TxIssue, bad); !errno.IsKind(err, errno.ErrWrongLength) {
		t.Fatalf("应报 WrongLength, 得到: %v", err)
	}
	if fake.signCalls != 0 {
		t.Errorf("校验失败不应触碰 Provider, signCalls = %d", fake.signCalls)
	}

	// 批量中混入租赁交易: 整批拦截, Provider 零调用
	batch := []BatchItem{
		{Type: TxTransfer, Data: minimalPayload(TxTransfer)},
		{Type: TxLease, Data: minimalPayload(TxLease)},
	}
	if _, err := s.SignTransactionPackage(ctx, batch); !errno.IsKind(err, errno.ErrTagNotBatchable) {
		t.Fatalf("应报 TagNotBatchable, 得到: %v", err)
	}
	if fake.pkgCalls != 0 {
		t.Errorf("批量校验失败不应触碰 Provider, pkgCalls = %d", fake.pkgCalls)
	}
}

func TestSessionPackageRoundTrip(t *testing.T) {
	fake := &fakeProvider{}
	s := NewSession(fake, nil)
	ctx := context.Background()
	_ = s.AwaitReady(ctx)

	batch := []BatchItem{
		{Type: TxIssue, Data: minimalPayload(TxIssue)},
		{Type: TxTransfer, Data: minimalPayload(TxTransfer)},
		{Type: TxData, Data: minimalPayload(TxData)},
	}
	signed, err := s.SignTransactionPackage(ctx, batch)
	if err != nil {
		t.Fatalf("批量签名失败: %v", err)
	}
	want := []int{TxIssue, TxTransfer, TxData}
	for i, tx := range signed {
		if tx.Type != want[i] {
			t.Errorf("signed[%d].Type = %d, 期望 %d (顺序必须保持)", i, tx.Type, want[i])
		}
	}
	if fake.pkgCalls != 1 {
		t.Errorf("package 应为单次往返, pkgCalls = %d", fake.pkgCalls)
	}
}

func TestSessionProviderErrorPassthrough(t *testing.T) {
	denied := errors.New("user denied message")
	fake := &fakeProvider{signErr: denied}
	s := NewSession(fake, nil)
	ctx := context.Background()
	_ = s.AwaitReady(ctx)

	_, err := s.SignTransaction(ctx, TxTransfer, minimalPayload(TxTransfer))
	if !errno.IsKind(err, errno.ErrProvider) {
		t.Fatalf("Provider 错误应透传为 ProviderError, 得到: %v", err)
	}
	if !errors.Is(err, denied) {
		t.Error("原始错误应保留在错误链中")
	}
	if fake.signCalls != 1 {
		t.Errorf("Provider 错误不应重试, signCalls = %d", fake.signCalls)
	}
}

func TestSessionSubscriptionsAreAdditive(t *testing.T) {
	fake := &fakeProvider{}
	s := NewSession(fake, nil)

	var got1, got2 int
	s.On(func(*PublicState) { got1++ })
	s.On(func(*PublicState) { got2++ })

	fake.push(&PublicState{Initialized: true})
	fake.push(&PublicState{Initialized: true, Locked: true})

	if got1 != 2 || got2 != 2 {
		t.Errorf("每个回调都应收到每个快照, got1=%d got2=%d", got1, got2)
	}
}

func TestSessionOrderFlows(t *testing.T) {
	fake := &fakeProvider{}
	s := NewSession(fake, nil)
	ctx := context.Background()
	_ = s.AwaitReady(ctx)

	if _, err := s.SignOrder(ctx, validOrder()); err != nil {
		t.Errorf("SignOrder 失败: %v", err)
	}
	if _, err := s.SignAndPublishOrder(ctx, validOrder()); err != nil {
		t.Errorf("SignAndPublishOrder 失败: %v", err)
	}
	if _, err := s.SignCancelOrder(ctx, &CancelOrderData{ID: "order-1"}); err != nil {
		t.Errorf("SignCancelOrder 失败: %v", err)
	}

	if _, err := s.SignOrder(ctx, &OrderData{}); !errno.IsKind(err, errno.ErrMissingField) {
		t.Errorf("空订单应报 MissingField, 得到: %v", err)
	}
}
