// Package keeper 是浏览器注入钱包 Provider 的类型化客户端。
//
// Provider 本体 (密钥保管、签名、广播) 是外部宿主对象, 对本包不透明;
// 本包负责在请求跨出信任边界之前完成全部形态与一致性校验,
// 并把 Provider 的响应解析回类型化结果。
package keeper

import (
	"encoding/json"

	"keeper-client/pkg/money"
)

// 交易类型标签。闭合集合, 新增交易类型只改 schema.go 的注册表。
const (
	TxIssue            = 3
	TxTransfer         = 4
	TxReissue          = 5
	TxBurn             = 6
	TxLease            = 8
	TxLeaseCancel      = 9
	TxCreateAlias      = 10
	TxMassTransfer     = 11
	TxData             = 12
	TxSetScript        = 13
	TxSponsorship      = 14
	TxSetAssetScript   = 15
	TxScriptInvocation = 16
)

// 订单与签名请求标签 (1001-1004 命名空间)
const (
	TypeSignRequest    = 1001
	TypeOrder          = 1002
	TypeCancelOrder    = 1003
	TypeSignRequestAlt = 1004
)

// MaxPackageSize 一次 package 签名最多打包的交易数
const MaxPackageSize = 7

// Envelope 是跨信任边界的 {type, data} 信封, data 已经过校验与规范化
type Envelope struct {
	Type int             `json:"type"`
	Data json.RawMessage `json:"data"`
}

// TxBase 所有交易载荷共有的字段。
// senderPublicKey 与 timestamp 缺省表示由 Provider 在调用时填充。
type TxBase struct {
	Fee             *money.Amount    `json:"fee"`
	SenderPublicKey string           `json:"senderPublicKey,omitempty"`
	Timestamp       *money.Timestamp `json:"timestamp,omitempty"`
}

// IssueTx 发行资产 (type 3)
type IssueTx struct {
	TxBase
	Name        string        `json:"name"`        // 4 到 16 字节
	Description string        `json:"description"` // 最多 1000 字节
	Quantity    *money.Amount `json:"quantity"`
	Precision   *int          `json:"precision"` // 0 到 8
	Reissuable  *bool         `json:"reissuable"`
	Script      string        `json:"script,omitempty"`
}

// TransferTx 转账 (type 4)
type TransferTx struct {
	TxBase
	Amount     *money.Amount `json:"amount"`
	Recipient  string        `json:"recipient"` // 地址或别名
	Attachment string        `json:"attachment,omitempty"`
}

// ReissueTx 增发 (type 5)
type ReissueTx struct {
	TxBase
	AssetID    string        `json:"assetId"`
	Quantity   *money.Amount `json:"quantity"`
	Reissuable *bool         `json:"reissuable"`
}

// BurnTx 销毁 (type 6)
type BurnTx struct {
	TxBase
	AssetID string        `json:"assetId"`
	Amount  *money.Amount `json:"amount"`
}

// LeaseTx 租赁 (type 8)
type LeaseTx struct {
	TxBase
	Recipient string        `json:"recipient"`
	Amount    *money.Amount `json:"amount"`
}

// LeaseCancelTx 取消租赁 (type 9)
type LeaseCancelTx struct {
	TxBase
	LeaseID string `json:"leaseId"`
}

// CreateAliasTx 创建别名 (type 10)
type CreateAliasTx struct {
	TxBase
	Alias string `json:"alias"` // 4 到 30 字节
}

// MassTransferItem 批量转账中的单个收款项
type MassTransferItem struct {
	Recipient string        `json:"recipient"`
	Amount    *money.Amount `json:"amount"`
}

// MassTransferTx 批量转账 (type 11)
type MassTransferTx struct {
	TxBase
	TotalAmount *money.Amount      `json:"totalAmount"`
	Transfers   []MassTransferItem `json:"transfers"`
	Attachment  string             `json:"attachment,omitempty"`
}

// DataEntry 数据交易条目, value 的表示由 type 决定
type DataEntry struct {
	Key   string          `json:"key"`
	Type  string          `json:"type"` // integer | boolean | string | binary
	Value json.RawMessage `json:"value"`
}

// DataTx 数据交易 (type 12)
type DataTx struct {
	TxBase
	Data []DataEntry `json:"data"`
}

// SetScriptTx 设置账户脚本 (type 13), 空脚本表示清除
type SetScriptTx struct {
	TxBase
	Script *string `json:"script"`
}

// SponsorshipTx 手续费赞助 (type 14)
type SponsorshipTx struct {
	TxBase
	MinSponsoredAssetFee *money.Amount `json:"minSponsoredAssetFee"`
}

// SetAssetScriptTx 设置资产脚本 (type 15)
type SetAssetScriptTx struct {
	TxBase
	AssetID string  `json:"assetId"`
	Script  *string `json:"script"`
}

// CallArg dApp 调用参数, 形态与 DataEntry 的 value 相同
type CallArg struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// InvokeCall dApp 函数调用
type InvokeCall struct {
	Function string    `json:"function"`
	Args     []CallArg `json:"args"`
}

// ScriptInvocationTx 调用 dApp 脚本 (type 16)
type ScriptInvocationTx struct {
	TxBase
	DappAddress string          `json:"dappAddress"`
	Call        *InvokeCall     `json:"call"`
	Payment     []*money.Amount `json:"payment,omitempty"` // 目前最多 1 笔
}

// OrderData 撮合订单载荷 (type 1002)
type OrderData struct {
	Amount           *money.Amount    `json:"amount"`
	Price            *money.Amount    `json:"price"`
	OrderType        string           `json:"orderType"` // buy | sell
	MatcherFee       *money.Amount    `json:"matcherFee"`
	MatcherPublicKey string           `json:"matcherPublicKey"`
	Expiration       *money.Timestamp `json:"expiration,omitempty"`
	Timestamp        *money.Timestamp `json:"timestamp,omitempty"`
	SenderPublicKey  string           `json:"senderPublicKey,omitempty"`
}

// CancelOrderData 撤单载荷 (type 1003)
type CancelOrderData struct {
	ID              string `json:"id"`
	SenderPublicKey string `json:"senderPublicKey,omitempty"`
}

// SignRequestData 通用签名请求载荷 (type 1001 / 1004)
type SignRequestData struct {
	Timestamp *money.Timestamp `json:"timestamp"`
}

// SignedTransaction Provider 返回的已签名交易。
// proofs 的顺序有意义 (多签位次), type 必须回显请求的标签。
// 金额与时间戳字段可能按简写或 MoneyLike 对象回显, 所以复用 money 的宽容类型。
type SignedTransaction struct {
	Version         int              `json:"version"`
	Type            int              `json:"type"`
	ID              string           `json:"id,omitempty"`
	AssetID         string           `json:"assetId,omitempty"`
	Amount          *money.Amount    `json:"amount,omitempty"`
	FeeAssetID      string           `json:"feeAssetId,omitempty"`
	Fee             *money.Amount    `json:"fee,omitempty"`
	Recipient       string           `json:"recipient,omitempty"`
	Attachment      string           `json:"attachment,omitempty"`
	Timestamp       *money.Timestamp `json:"timestamp,omitempty"`
	SenderPublicKey string           `json:"senderPublicKey,omitempty"`
	Proofs          []string         `json:"proofs"`
	Raw             json.RawMessage  `json:"-"`
}

// AuthInput auth 请求
type AuthInput struct {
	Name        string `json:"name,omitempty"`
	Data        string `json:"data"`
	Referrer    string `json:"referrer,omitempty"`
	Icon        string `json:"icon,omitempty"`
	SuccessPath string `json:"successPath,omitempty"`
}

// AuthResult auth 响应
type AuthResult struct {
	Host      string `json:"host"`
	Name      string `json:"name"`
	Prefix    string `json:"prefix"`
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
	Signature string `json:"signature"`
	Version   string `json:"version"`
}

// Message 待处理签名请求的状态描述
type Message struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Network 当前网络的节点与撮合器地址
type Network struct {
	Code    string `json:"code"`
	Server  string `json:"server"`
	Matcher string `json:"matcher"`
}

// Balance 账户余额
type Balance struct {
	Available string `json:"available"`
	LeasedOut string `json:"leasedOut"`
	Network   string `json:"network"`
}

// Account 当前账户。仅在未锁定且站点被授权时非空。
type Account struct {
	Name        string  `json:"name"`
	PublicKey   string  `json:"publicKey"`
	Address     string  `json:"address"`
	Network     string  `json:"network"`
	NetworkCode string  `json:"networkCode"`
	Balance     Balance `json:"balance"`
}

// PublicState Provider 推送的公开状态快照, 按值传递, 客户端不持有可变副本
type PublicState struct {
	Initialized bool             `json:"initialized"`
	Locked      bool             `json:"locked"`
	Account     *Account         `json:"account"`
	Network     Network          `json:"network"`
	Messages    []Message        `json:"messages"`
	TxVersion   map[string][]int `json:"txVersion"`
}
