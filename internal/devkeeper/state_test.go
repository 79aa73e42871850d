package devkeeper

import (
	"encoding/json"
	"testing"

	"keeper-client/pkg/errno"
	"keeper-client/pkg/keeper"
)

// 不经过 HTTP 路由器直接构造, 指标注册由 New 自己兜底
func newTestKeeper(t *testing.T) *Keeper {
	t.Helper()
	return New(Options{Network: "testnet", NetworkCode: "T"})
}

func TestSnapshotHidesAccountWhenLocked(t *testing.T) {
	k := newTestKeeper(t)

	state := k.Snapshot()
	if !state.Initialized {
		t.Error("开发节点应总是 initialized")
	}
	if state.Account == nil {
		t.Fatal("解锁时应暴露账户")
	}
	if state.Account.NetworkCode != "T" {
		t.Errorf("networkCode = %q, 期望 T", state.Account.NetworkCode)
	}

	k.SetLocked(true)
	state = k.Snapshot()
	if !state.Locked {
		t.Error("锁定后快照应反映锁定态")
	}
	if state.Account != nil {
		t.Error("锁定时不应暴露账户")
	}
}

func TestSignEnvelopeFabricatesProofs(t *testing.T) {
	k := newTestKeeper(t)

	env := keeper.Envelope{
		Type: keeper.TxTransfer,
		Data: json.RawMessage(`{"recipient":"3P8pGyzZLJh4zGKpgyXTqNcVGRAGGrUgBcT","fee":{"assetId":"WAVES","coins":"100000"}}`),
	}
	raw, err := k.SignEnvelope(env)
	if err != nil {
		t.Fatalf("签名失败: %v", err)
	}

	signed, err := keeper.ParseSignedResult(raw, keeper.TxTransfer)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if signed.ID == "" || len(signed.Proofs) == 0 {
		t.Error("应补齐 id 与 proofs")
	}
	if signed.Recipient != "3P8pGyzZLJh4zGKpgyXTqNcVGRAGGrUgBcT" {
		t.Error("载荷字段应原样回显")
	}
}

func TestLockedKeeperRejectsSigning(t *testing.T) {
	k := newTestKeeper(t)
	k.SetLocked(true)

	env := keeper.Envelope{Type: keeper.TxTransfer, Data: json.RawMessage(`{}`)}
	if _, err := k.SignEnvelope(env); !errno.IsKind(err, errno.ErrProvider) {
		t.Errorf("锁定时应报 Provider 拒绝, 得到: %v", err)
	}
	if _, err := k.Auth(keeper.AuthInput{Data: "x"}); !errno.IsKind(err, errno.ErrProvider) {
		t.Errorf("锁定时 auth 应被拒, 得到: %v", err)
	}

	k.SetLocked(false)
	if _, err := k.SignEnvelope(env); err != nil {
		t.Errorf("解锁后应可签名: %v", err)
	}
}
