package keeper

import (
	"fmt"
	"sort"

	"keeper-client/pkg/errno"
)

// Schema 描述一种交易类型: 载荷形态与是否允许打包签名。
// 新增交易类型时只需要在这里注册, 其余组件不携带任何标签知识。
type Schema struct {
	Type      int
	Name      string
	Batchable bool // 是否属于 package 签名子集

	newPayload func() txPayload
}

// registry 闭合注册表: 13 种交易 + 订单/撤单/签名请求。
// 租赁(8,9)、脚本(13,15)、赞助(14) 与 dApp 调用(16) 不可打包。
var registry = map[int]Schema{
	TxIssue:            {Type: TxIssue, Name: "issue", Batchable: true, newPayload: func() txPayload { return &IssueTx{} }},
	TxTransfer:         {Type: TxTransfer, Name: "transfer", Batchable: true, newPayload: func() txPayload { return &TransferTx{} }},
	TxReissue:          {Type: TxReissue, Name: "reissue", Batchable: true, newPayload: func() txPayload { return &ReissueTx{} }},
	TxBurn:             {Type: TxBurn, Name: "burn", Batchable: true, newPayload: func() txPayload { return &BurnTx{} }},
	TxLease:            {Type: TxLease, Name: "lease", Batchable: false, newPayload: func() txPayload { return &LeaseTx{} }},
	TxLeaseCancel:      {Type: TxLeaseCancel, Name: "lease-cancel", Batchable: false, newPayload: func() txPayload { return &LeaseCancelTx{} }},
	TxCreateAlias:      {Type: TxCreateAlias, Name: "create-alias", Batchable: true, newPayload: func() txPayload { return &CreateAliasTx{} }},
	TxMassTransfer:     {Type: TxMassTransfer, Name: "mass-transfer", Batchable: true, newPayload: func() txPayload { return &MassTransferTx{} }},
	TxData:             {Type: TxData, Name: "data", Batchable: true, newPayload: func() txPayload { return &DataTx{} }},
	TxSetScript:        {Type: TxSetScript, Name: "set-script", Batchable: false, newPayload: func() txPayload { return &SetScriptTx{} }},
	TxSponsorship:      {Type: TxSponsorship, Name: "sponsorship", Batchable: false, newPayload: func() txPayload { return &SponsorshipTx{} }},
	TxSetAssetScript:   {Type: TxSetAssetScript, Name: "set-asset-script", Batchable: false, newPayload: func() txPayload { return &SetAssetScriptTx{} }},
	TxScriptInvocation: {Type: TxScriptInvocation, Name: "script-invocation", Batchable: false, newPayload: func() txPayload { return &ScriptInvocationTx{} }},

	TypeSignRequest:    {Type: TypeSignRequest, Name: "sign-request", newPayload: func() txPayload { return &SignRequestData{} }},
	TypeOrder:          {Type: TypeOrder, Name: "order", newPayload: func() txPayload { return &OrderData{} }},
	TypeCancelOrder:    {Type: TypeCancelOrder, Name: "cancel-order", newPayload: func() txPayload { return &CancelOrderData{} }},
	TypeSignRequestAlt: {Type: TypeSignRequestAlt, Name: "sign-request", newPayload: func() txPayload { return &SignRequestData{} }},
}

// Resolve 按标签查找 schema
func Resolve(typ int) (Schema, error) {
	s, ok := registry[typ]
	if !ok {
		return Schema{}, errno.Validation(errno.ErrUnknownTag, "type", fmt.Sprintf("tag %d", typ))
	}
	return s, nil
}

// TransactionTypes 返回全部交易标签 (不含 1001-1004 命名空间), 升序
func TransactionTypes() []int {
	out := make([]int, 0, len(registry))
	for typ := range registry {
		if typ < TypeSignRequest {
			out = append(out, typ)
		}
	}
	sort.Ints(out)
	return out
}
