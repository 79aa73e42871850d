// Package money 实现 Keeper 协议中的金额规范化。
//
// 协议里的金额有两种形态:
//   - MoneyLike 对象: {assetId, coins} (最小单位整数串) 或 {assetId, tokens} (最大单位小数串)
//   - 简写形态: 裸数字或数字字符串, 表示"无资产限定的数量"
//
// 本包只做形态与数值合法性校验, 不做 coins/tokens 之间的换算。
package money

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"

	"keeper-client/pkg/errno"
)

// WavesAssetID 原生资产的哨兵值。对象形态缺省资产时必须显式写它, 而不是留空。
const WavesAssetID = "WAVES"

// Amount 对应协议里的 AmountType: MoneyLike 对象或裸数字/字符串简写。
// JSON 反序列化时自动识别形态, 序列化时原样还原。
type Amount struct {
	assetID *string
	coins   *string
	tokens  *string

	// 简写形态的原始 JSON 字面量 (数字或字符串), 与对象形态互斥
	raw json.RawMessage
}

// Coins 构造 {assetId, coins} 形态的金额
func Coins(assetID, coins string) *Amount {
	return &Amount{assetID: &assetID, coins: &coins}
}

// Tokens 构造 {assetId, tokens} 形态的金额
func Tokens(assetID, tokens string) *Amount {
	return &Amount{assetID: &assetID, tokens: &tokens}
}

// Plain 构造简写形态的金额 (数字字符串)
func Plain(value string) *Amount {
	return &Amount{raw: json.RawMessage(strconv.Quote(value))}
}

// PlainInt 构造简写形态的金额 (数字字面量)
func PlainInt(value int64) *Amount {
	return &Amount{raw: json.RawMessage(strconv.FormatInt(value, 10))}
}

// IsShorthand 报告金额是否为简写形态
func (a *Amount) IsShorthand() bool {
	return a.raw != nil
}

// AssetID 返回对象形态的资产 ID, 简写形态返回空串
func (a *Amount) AssetID() string {
	if a.assetID == nil {
		return ""
	}
	return *a.assetID
}

// Value 返回金额的数值串 (coins 或 tokens 或简写字面量)
func (a *Amount) Value() string {
	switch {
	case a.coins != nil:
		return *a.coins
	case a.tokens != nil:
		return *a.tokens
	case a.raw != nil:
		s := string(a.raw)
		if unq, err := strconv.Unquote(s); err == nil {
			return unq
		}
		return s
	}
	return ""
}

// flexString 接受 JSON 字符串或数字字面量, 统一转成字符串。
// Keeper 的 JS 调用方经常混用 {"coins": "100"} 和 {"coins": 100}。
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type amountObject struct {
	AssetID *flexString `json:"assetId"`
	Coins   *flexString `json:"coins"`
	Tokens  *flexString `json:"tokens"`
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}

	if b[0] == '{' {
		var obj amountObject
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		if obj.AssetID != nil {
			s := string(*obj.AssetID)
			a.assetID = &s
		}
		if obj.Coins != nil {
			s := string(*obj.Coins)
			a.coins = &s
		}
		if obj.Tokens != nil {
			s := string(*obj.Tokens)
			a.tokens = &s
		}
		a.raw = nil
		return nil
	}

	// 简写形态: 只允许数字或字符串字面量, 合法性留给 Normalize
	a.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (a *Amount) MarshalJSON() ([]byte, error) {
	if a.raw != nil {
		return a.raw, nil
	}
	obj := amountObject{}
	if a.assetID != nil {
		v := flexString(*a.assetID)
		obj.AssetID = &v
	}
	if a.coins != nil {
		v := flexString(*a.coins)
		obj.Coins = &v
	}
	if a.tokens != nil {
		v := flexString(*a.tokens)
		obj.Tokens = &v
	}
	return json.Marshal(obj)
}

// Normalize 校验金额形态。field 用于错误信息定位; requireAsset 为真时
// 该字段只接受 MoneyLike 对象 (协议中声明为 TMoneyLike 的字段)。
// 数值原样透传, 不做舍入或单位换算。
func (a *Amount) Normalize(field string, requireAsset bool) error {
	if a == nil {
		return errno.Validation(errno.ErrMissingField, field, "")
	}

	if a.raw != nil {
		if requireAsset {
			return errno.Validation(errno.ErrWrongType, field, "money-like object with assetId required")
		}
		if _, err := decimal.NewFromString(a.Value()); err != nil {
			return errno.Validation(errno.ErrWrongType, field, "not a numeric value")
		}
		return nil
	}

	if a.coins != nil && a.tokens != nil {
		return errno.Validation(errno.ErrAmbiguousAmount, field, "exactly one of coins/tokens allowed")
	}
	if a.coins == nil && a.tokens == nil {
		return errno.Validation(errno.ErrMissingField, field, "one of coins/tokens required")
	}
	if a.assetID == nil || *a.assetID == "" {
		return errno.Validation(errno.ErrMissingAssetID, field, "use \""+WavesAssetID+"\" for the native asset")
	}

	if a.coins != nil {
		d, err := decimal.NewFromString(*a.coins)
		if err != nil {
			return errno.Validation(errno.ErrWrongType, field+".coins", "not a numeric value")
		}
		if !d.IsInteger() {
			return errno.Validation(errno.ErrWrongType, field+".coins", "minor-unit amount must be an integer")
		}
		if d.IsNegative() {
			return errno.Validation(errno.ErrOutOfRange, field+".coins", "must not be negative")
		}
	}
	if a.tokens != nil {
		d, err := decimal.NewFromString(*a.tokens)
		if err != nil {
			return errno.Validation(errno.ErrWrongType, field+".tokens", "not a numeric value")
		}
		if d.IsNegative() {
			return errno.Validation(errno.ErrOutOfRange, field+".tokens", "must not be negative")
		}
	}
	return nil
}
