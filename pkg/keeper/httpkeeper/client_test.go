package httpkeeper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keeper-client/internal/devkeeper"
	"keeper-client/internal/server"
	"keeper-client/pkg/errno"
	"keeper-client/pkg/keeper"
	"keeper-client/pkg/money"
)

func newTestStack(t *testing.T) (*devkeeper.Keeper, *Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	k := devkeeper.New(devkeeper.Options{Network: "testnet", NetworkCode: "T"})
	srv := httptest.NewServer(server.NewHTTPRouter(k))
	t.Cleanup(srv.Close)

	client := New(Options{
		BaseURL:      srv.URL,
		HTTPClient:   srv.Client(),
		PollInterval: 10 * time.Millisecond,
	})
	t.Cleanup(client.Close)
	return k, client
}

func transferPayload() *keeper.TransferTx {
	return &keeper.TransferTx{
		TxBase: keeper.TxBase{
			Fee: money.Coins(money.WavesAssetID, "100000"),
		},
		Amount:    money.Tokens(money.WavesAssetID, "1.5"),
		Recipient: "3P8pGyzZLJh4zGKpgyXTqNcVGRAGGrUgBcT",
	}
}

func TestClientReadyAndState(t *testing.T) {
	_, client := newTestStack(t)
	ctx := context.Background()

	require.NoError(t, client.Ready(ctx))

	state, err := client.PublicState(ctx)
	require.NoError(t, err)
	assert.True(t, state.Initialized)
	assert.False(t, state.Locked)
	require.NotNil(t, state.Account)
	assert.Equal(t, "T", state.Account.NetworkCode)
	assert.Equal(t, "T", state.Network.Code)
}

func TestClientSignFlowThroughSession(t *testing.T) {
	_, client := newTestStack(t)
	s := keeper.NewSession(client, nil)
	ctx := context.Background()

	require.NoError(t, s.AwaitReady(ctx))

	// 单笔
	signed, err := s.SignTransaction(ctx, keeper.TxTransfer, transferPayload())
	require.NoError(t, err)
	assert.Equal(t, keeper.TxTransfer, signed.Type)
	assert.NotEmpty(t, signed.ID)
	assert.NotEmpty(t, signed.Proofs)

	// 打包
	batch := []keeper.BatchItem{
		{Type: keeper.TxTransfer, Data: transferPayload()},
		{Type: keeper.TxTransfer, Data: transferPayload()},
	}
	pack, err := s.SignTransactionPackage(ctx, batch)
	require.NoError(t, err)
	require.Len(t, pack, 2)
	for _, tx := range pack {
		assert.Equal(t, keeper.TxTransfer, tx.Type)
	}

	// 授权
	auth, err := s.Auth(ctx, keeper.AuthInput{Data: "login-nonce", Name: "dex"})
	require.NoError(t, err)
	assert.NotEmpty(t, auth.Address)
	assert.NotEmpty(t, auth.Signature)
}

func TestClientAllTagsRoundTrip(t *testing.T) {
	_, client := newTestStack(t)
	s := keeper.NewSession(client, nil)
	ctx := context.Background()
	require.NoError(t, s.AwaitReady(ctx))

	intPtr := func(v int) *int { return &v }
	boolPtr := func(v bool) *bool { return &v }
	strPtr := func(v string) *string { return &v }
	base := keeper.TxBase{Fee: money.Coins(money.WavesAssetID, "100000")}
	asset := "8LQW8f7P5d5PZM7GtZEBgaqRPGSzS3DfPuiXrURJ4AJS"

	payloads := map[int]any{
		keeper.TxIssue: &keeper.IssueTx{TxBase: base, Name: "Best", Description: "t",
			Quantity: money.PlainInt(1000), Precision: intPtr(2), Reissuable: boolPtr(true)},
		keeper.TxTransfer: transferPayload(),
		keeper.TxReissue: &keeper.ReissueTx{TxBase: base, AssetID: asset,
			Quantity: money.PlainInt(10), Reissuable: boolPtr(false)},
		keeper.TxBurn:        &keeper.BurnTx{TxBase: base, AssetID: asset, Amount: money.PlainInt(1)},
		keeper.TxLease:       &keeper.LeaseTx{TxBase: base, Recipient: "alias:T:merry", Amount: money.PlainInt(5)},
		keeper.TxLeaseCancel: &keeper.LeaseCancelTx{TxBase: base, LeaseID: asset},
		keeper.TxCreateAlias: &keeper.CreateAliasTx{TxBase: base, Alias: "merry"},
		keeper.TxMassTransfer: &keeper.MassTransferTx{TxBase: base,
			TotalAmount: money.Coins(money.WavesAssetID, "0"),
			Transfers:   []keeper.MassTransferItem{{Recipient: "alias:T:merry", Amount: money.PlainInt(1)}}},
		keeper.TxData: &keeper.DataTx{TxBase: base,
			Data: []keeper.DataEntry{{Key: "k", Type: "string", Value: json.RawMessage(`"v"`)}}},
		keeper.TxSetScript:   &keeper.SetScriptTx{TxBase: base, Script: strPtr("")},
		keeper.TxSponsorship: &keeper.SponsorshipTx{TxBase: base, MinSponsoredAssetFee: money.Coins(asset, "10")},
		keeper.TxSetAssetScript: &keeper.SetAssetScriptTx{TxBase: base, AssetID: asset,
			Script: strPtr("base64:AQa3b8tH")},
		keeper.TxScriptInvocation: &keeper.ScriptInvocationTx{TxBase: base,
			DappAddress: "3F5jPSZhqeRkeDRAnpzsoSwxmQAfYqsmSma",
			Call: &keeper.InvokeCall{Function: "deposit",
				Args: []keeper.CallArg{{Type: "integer", Value: json.RawMessage(`1`)}}}},
	}

	for _, typ := range keeper.TransactionTypes() {
		payload, ok := payloads[typ]
		require.True(t, ok, "标签 %d 缺少载荷", typ)

		signed, err := s.SignTransaction(ctx, typ, payload)
		require.NoError(t, err, "标签 %d", typ)
		assert.Equal(t, typ, signed.Type, "标签 %d 应回显", typ)
		assert.NotEmpty(t, signed.Proofs, "标签 %d", typ)
	}
}

func TestClientLockedKeeperRejects(t *testing.T) {
	k, client := newTestStack(t)
	s := keeper.NewSession(client, nil)
	ctx := context.Background()
	require.NoError(t, s.AwaitReady(ctx))

	k.SetLocked(true)

	_, err := s.SignTransaction(ctx, keeper.TxTransfer, transferPayload())
	require.Error(t, err)
	assert.True(t, errno.IsKind(err, errno.ErrProvider), "锁定时应报 Provider 拒绝: %v", err)

	state, err := client.PublicState(ctx)
	require.NoError(t, err)
	assert.True(t, state.Locked)
	assert.Nil(t, state.Account, "锁定时不暴露账户")
}

func TestClientStatePolling(t *testing.T) {
	k, client := newTestStack(t)

	updates := make(chan *keeper.PublicState, 16)
	client.On(keeper.UpdateEvent, func(state *keeper.PublicState) {
		updates <- state
	})

	// 第一个快照
	select {
	case state := <-updates:
		assert.False(t, state.Locked)
	case <-time.After(2 * time.Second):
		t.Fatal("未收到初始状态快照")
	}

	// 状态变化触发新快照
	k.SetLocked(true)
	deadline := time.After(2 * time.Second)
	for {
		select {
		case state := <-updates:
			if state.Locked {
				return
			}
		case <-deadline:
			t.Fatal("锁定后未收到状态更新")
		}
	}
}

func TestClientCloseStopsPolling(t *testing.T) {
	_, client := newTestStack(t)

	updates := make(chan *keeper.PublicState, 64)
	client.On(keeper.UpdateEvent, func(state *keeper.PublicState) {
		updates <- state
	})

	select {
	case <-updates:
	case <-time.After(2 * time.Second):
		t.Fatal("未收到初始状态快照")
	}

	client.Close()
	client.Close() // 幂等

	// 给在途的一次轮询留出时间, 然后确认没有新的推送
	time.Sleep(50 * time.Millisecond)
	for len(updates) > 0 {
		<-updates
	}
	time.Sleep(100 * time.Millisecond)
	if n := len(updates); n != 0 {
		t.Errorf("Close 后仍收到 %d 次推送", n)
	}
}

func TestClientReadyHonorsContext(t *testing.T) {
	// 指向一个没有监听者的地址
	client := New(Options{
		BaseURL:      "http://127.0.0.1:1",
		HTTPClient:   &http.Client{Timeout: 50 * time.Millisecond},
		PollInterval: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err := client.Ready(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
