package keeper

import (
	"context"
	"encoding/json"
)

// UpdateEvent Provider 推送状态快照的事件名
const UpdateEvent = "update"

// Provider 抽象宿主注入的钱包对象。真实实现由宿主控制 (密钥、签名、
// 广播全在对面), 这里按注入依赖建模, 测试可以用替身替换。
//
// 所有调用都是单次往返的异步操作; 本层不加超时, 需要限时的调用方
// 自己用 context 包一层。
type Provider interface {
	// Ready 阻塞到 Provider 宣告就绪 (对应一次性的 initialPromise)
	Ready(ctx context.Context) error

	// On 注册事件回调。目前只有 update 事件, 载荷是一份新的状态快照;
	// 注册是叠加式的, 没有去重, Provider 也不提供取消。
	On(event string, cb func(state *PublicState))

	PublicState(ctx context.Context) (*PublicState, error)
	Auth(ctx context.Context, input AuthInput) (*AuthResult, error)

	SignTransaction(ctx context.Context, env Envelope) (json.RawMessage, error)
	SignAndPublishTransaction(ctx context.Context, env Envelope) (json.RawMessage, error)
	// SignTransactionPackage 一次签最多 7 笔, 整体成败, 保持顺序
	SignTransactionPackage(ctx context.Context, envs []Envelope) ([]json.RawMessage, error)

	SignOrder(ctx context.Context, env Envelope) (string, error)
	SignAndPublishOrder(ctx context.Context, env Envelope) (string, error)
	SignCancelOrder(ctx context.Context, env Envelope) (string, error)
	SignAndPublishCancelOrder(ctx context.Context, env Envelope) (string, error)
	SignRequest(ctx context.Context, env Envelope) (string, error)
}
