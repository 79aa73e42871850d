package devkeeper

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"keeper-client/pkg/errno"
	"keeper-client/pkg/keeper"
	"keeper-client/pkg/monitor"
	"keeper-client/pkg/safe_random"
)

// Keeper 是内存中的开发版钱包: 伪造账户与签名, 供集成调试,
// 不持有任何真实密钥。对外行为与注入式 Provider 一致,
// 包括锁定时拒签与状态快照推送。
type Keeper struct {
	mu       sync.RWMutex
	locked   bool
	account  keeper.Account
	network  keeper.Network
	messages []keeper.Message
}

// Options 初始状态
type Options struct {
	Network     string
	NetworkCode string
	Locked      bool
}

// randB58 伪造协议里的 Base58 文本值。开发节点里随机源失败没有降级路径。
func randB58(n int) string {
	s, err := safe_random.GenerateRandomBase58(n)
	if err != nil {
		panic(err)
	}
	return s
}

// New 构造一个带伪造账户的开发 Keeper
func New(opts Options) *Keeper {
	// 指标可能在路由器之外被触发 (SetLocked/SignPackage), 先保证已注册
	monitor.Init()

	pub := randB58(32)
	addr := randB58(26)
	return &Keeper{
		locked: opts.Locked,
		account: keeper.Account{
			Name:        "dev-account",
			PublicKey:   pub,
			Address:     "3" + addr,
			Network:     opts.Network,
			NetworkCode: opts.NetworkCode,
			Balance: keeper.Balance{
				Available: "10000000000",
				LeasedOut: "0",
				Network:   opts.Network,
			},
		},
		network: keeper.Network{
			Code:    opts.NetworkCode,
			Server:  "https://nodes." + opts.Network + ".invalid/",
			Matcher: "https://matcher." + opts.Network + ".invalid/",
		},
	}
}

// Snapshot 返回当前公开状态的独立副本
func (k *Keeper) Snapshot() *keeper.PublicState {
	k.mu.RLock()
	defer k.mu.RUnlock()

	state := &keeper.PublicState{
		Initialized: true,
		Locked:      k.locked,
		Network:     k.network,
		Messages:    append([]keeper.Message{}, k.messages...),
		TxVersion: map[string][]int{
			"3": {2}, "4": {2}, "5": {2}, "6": {2}, "8": {2}, "9": {2},
			"10": {2}, "11": {1}, "12": {1}, "13": {1}, "14": {1}, "15": {1}, "16": {1},
		},
	}
	if !k.locked {
		account := k.account
		state.Account = &account
	}
	return state
}

// SetLocked 切换锁定态, 返回是否发生了变化
func (k *Keeper) SetLocked(locked bool) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.locked == locked {
		return false
	}
	k.locked = locked
	if locked {
		monitor.Business.KeeperLockedStatus.Set(1)
	} else {
		monitor.Business.KeeperLockedStatus.Set(0)
	}
	return true
}

func (k *Keeper) rejectIfLocked() error {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.locked {
		return errno.Provider(errors.New("keeper is locked"))
	}
	return nil
}

// Auth 伪造站点授权签名
func (k *Keeper) Auth(input keeper.AuthInput) (*keeper.AuthResult, error) {
	if err := k.rejectIfLocked(); err != nil {
		return nil, err
	}
	k.mu.RLock()
	defer k.mu.RUnlock()
	return &keeper.AuthResult{
		Host:      input.Referrer,
		Name:      input.Name,
		Prefix:    "WavesWalletAuthentication",
		Address:   k.account.Address,
		PublicKey: k.account.PublicKey,
		Signature: randB58(64),
		Version:   "dev",
	}, nil
}

// SignEnvelope 伪造一笔已签名交易: 回显载荷并补齐 id/proofs/公钥/时间戳
func (k *Keeper) SignEnvelope(env keeper.Envelope) (json.RawMessage, error) {
	if err := k.rejectIfLocked(); err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(env.Data, &fields); err != nil {
		return nil, errors.Wrap(err, "decode envelope data")
	}

	put := func(key string, v any) {
		raw, _ := json.Marshal(v)
		fields[key] = raw
	}
	put("type", env.Type)
	put("version", 2)
	put("id", randB58(32))
	put("proofs", []string{randB58(64)})
	k.mu.RLock()
	put("senderPublicKey", k.account.PublicKey)
	k.mu.RUnlock()
	if _, ok := fields["timestamp"]; !ok {
		put("timestamp", time.Now().UnixMilli())
	}

	k.recordMessage()
	return json.Marshal(fields)
}

// SignPackage 逐笔伪造签名, 整体成败
func (k *Keeper) SignPackage(envs []keeper.Envelope) ([]json.RawMessage, error) {
	if err := k.rejectIfLocked(); err != nil {
		return nil, err
	}
	monitor.Business.PackageSize.Observe(float64(len(envs)))

	out := make([]json.RawMessage, len(envs))
	for i, env := range envs {
		signed, err := k.SignEnvelope(env)
		if err != nil {
			return nil, err
		}
		out[i] = signed
	}
	return out, nil
}

// SignText 订单/撤单/通用签名请求: 返回序列化字符串
func (k *Keeper) SignText(env keeper.Envelope) (string, error) {
	signed, err := k.SignEnvelope(env)
	if err != nil {
		return "", err
	}
	return string(signed), nil
}

func (k *Keeper) recordMessage() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.messages = append(k.messages, keeper.Message{
		ID:     uuid.NewString(),
		Status: "signed",
	})
	// 只保留最近的请求记录
	if len(k.messages) > 20 {
		k.messages = k.messages[len(k.messages)-20:]
	}
}
