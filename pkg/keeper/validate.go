package keeper

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/shopspring/decimal"

	"keeper-client/pkg/errno"
)

// txPayload 注册表中每种交易载荷都实现的校验入口
type txPayload interface {
	validate() error
}

const maxAttachmentBytes = 140

func requireString(field, v string) error {
	if v == "" {
		return errno.Validation(errno.ErrMissingField, field, "")
	}
	return nil
}

// checkByteRange 校验字符串的 UTF-8 字节长度落在 [min, max]
func checkByteRange(field, v string, min, max int) error {
	n := len(v)
	if n < min || n > max {
		return errno.Validation(errno.ErrWrongLength, field,
			fmt.Sprintf("%d to %d bytes expected, got %d", min, max, n))
	}
	return nil
}

// checkBase58 公钥等字段必须是合法的 Base58 文本
func checkBase58(field, v string) error {
	if v == "" {
		return nil
	}
	if len(base58.Decode(v)) == 0 {
		return errno.Validation(errno.ErrWrongType, field, "base58 string expected")
	}
	return nil
}

// checkAttachment 附言最多 140 字节, 按原始 UTF-8 字节数计。
// 明文和已编码的字节串走同一把尺子, 不做二次解读。
func checkAttachment(field, v string) error {
	if len(v) > maxAttachmentBytes {
		return errno.Validation(errno.ErrWrongLength, field,
			fmt.Sprintf("at most %d bytes, got %d", maxAttachmentBytes, len(v)))
	}
	return nil
}

// jsonKind 返回 JSON 字面量的粗略类别, 用于按 type 校验 value 的表示
func jsonKind(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "absent"
	}
	switch raw[0] {
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case '{':
		return "object"
	case '[':
		return "array"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

// validateTypedValue 校验 {type, value} 形态的条目 (DataTx 条目与调用参数共用)
func validateTypedValue(field, typ string, value json.RawMessage) error {
	kind := jsonKind(value)
	if kind == "absent" || kind == "null" {
		return errno.Validation(errno.ErrMissingField, field+".value", "")
	}

	switch typ {
	case "integer":
		var num string
		switch kind {
		case "number":
			num = string(bytes.TrimSpace(value))
		case "string":
			_ = json.Unmarshal(value, &num)
		default:
			return errno.Validation(errno.ErrWrongType, field+".value", "integer expected")
		}
		d, err := decimal.NewFromString(num)
		if err != nil || !d.IsInteger() {
			return errno.Validation(errno.ErrWrongType, field+".value", "integer expected")
		}
	case "boolean":
		if kind != "boolean" {
			return errno.Validation(errno.ErrWrongType, field+".value", "boolean expected")
		}
	case "string", "binary":
		if kind != "string" {
			return errno.Validation(errno.ErrWrongType, field+".value", "string expected")
		}
	default:
		return errno.Validation(errno.ErrWrongType, field+".type",
			"one of integer, boolean, string, binary")
	}
	return nil
}

// validateBase 公共字段: fee 必填且为 MoneyLike 对象;
// senderPublicKey 和 timestamp 缺省时由 Provider 在调用时填充。
func (b *TxBase) validateBase() error {
	if err := b.Fee.Normalize("fee", true); err != nil {
		return err
	}
	if err := checkBase58("senderPublicKey", b.SenderPublicKey); err != nil {
		return err
	}
	return b.Timestamp.Validate("timestamp")
}

func (t *IssueTx) validate() error {
	if err := t.validateBase(); err != nil {
		return err
	}
	if err := requireString("name", t.Name); err != nil {
		return err
	}
	if err := checkByteRange("name", t.Name, 4, 16); err != nil {
		return err
	}
	if err := checkByteRange("description", t.Description, 0, 1000); err != nil {
		return err
	}
	if err := t.Quantity.Normalize("quantity", false); err != nil {
		return err
	}
	if t.Precision == nil {
		return errno.Validation(errno.ErrMissingField, "precision", "")
	}
	if *t.Precision < 0 || *t.Precision > 8 {
		return errno.Validation(errno.ErrOutOfRange, "precision", "0 to 8")
	}
	if t.Reissuable == nil {
		return errno.Validation(errno.ErrMissingField, "reissuable", "")
	}
	return nil
}

func (t *TransferTx) validate() error {
	if err := t.validateBase(); err != nil {
		return err
	}
	if err := t.Amount.Normalize("amount", true); err != nil {
		return err
	}
	if err := requireString("recipient", t.Recipient); err != nil {
		return err
	}
	return checkAttachment("attachment", t.Attachment)
}

func (t *ReissueTx) validate() error {
	if err := t.validateBase(); err != nil {
		return err
	}
	if err := requireString("assetId", t.AssetID); err != nil {
		return err
	}
	if err := t.Quantity.Normalize("quantity", false); err != nil {
		return err
	}
	if t.Reissuable == nil {
		return errno.Validation(errno.ErrMissingField, "reissuable", "")
	}
	return nil
}

func (t *BurnTx) validate() error {
	if err := t.validateBase(); err != nil {
		return err
	}
	if err := requireString("assetId", t.AssetID); err != nil {
		return err
	}
	return t.Amount.Normalize("amount", false)
}

func (t *LeaseTx) validate() error {
	if err := t.validateBase(); err != nil {
		return err
	}
	if err := requireString("recipient", t.Recipient); err != nil {
		return err
	}
	return t.Amount.Normalize("amount", false)
}

func (t *LeaseCancelTx) validate() error {
	if err := t.validateBase(); err != nil {
		return err
	}
	return requireString("leaseId", t.LeaseID)
}

func (t *CreateAliasTx) validate() error {
	if err := t.validateBase(); err != nil {
		return err
	}
	if err := requireString("alias", t.Alias); err != nil {
		return err
	}
	return checkByteRange("alias", t.Alias, 4, 30)
}

func (t *MassTransferTx) validate() error {
	if err := t.validateBase(); err != nil {
		return err
	}
	if err := t.TotalAmount.Normalize("totalAmount", true); err != nil {
		return err
	}
	if t.Transfers == nil {
		return errno.Validation(errno.ErrMissingField, "transfers", "")
	}
	if len(t.Transfers) == 0 {
		return errno.Validation(errno.ErrEmptySequence, "transfers", "")
	}
	for i, item := range t.Transfers {
		field := fmt.Sprintf("transfers[%d]", i)
		if err := requireString(field+".recipient", item.Recipient); err != nil {
			return err
		}
		if err := item.Amount.Normalize(field+".amount", false); err != nil {
			return err
		}
	}
	return checkAttachment("attachment", t.Attachment)
}

func (t *DataTx) validate() error {
	if err := t.validateBase(); err != nil {
		return err
	}
	if t.Data == nil {
		return errno.Validation(errno.ErrMissingField, "data", "")
	}
	if len(t.Data) == 0 {
		return errno.Validation(errno.ErrEmptySequence, "data", "")
	}
	for i, entry := range t.Data {
		field := fmt.Sprintf("data[%d]", i)
		if err := requireString(field+".key", entry.Key); err != nil {
			return err
		}
		if err := validateTypedValue(field, entry.Type, entry.Value); err != nil {
			return err
		}
	}
	return nil
}

func (t *SetScriptTx) validate() error {
	if err := t.validateBase(); err != nil {
		return err
	}
	// 空脚本合法 (清除账户脚本), 但字段本身必须出现
	if t.Script == nil {
		return errno.Validation(errno.ErrMissingField, "script", "")
	}
	return nil
}

func (t *SponsorshipTx) validate() error {
	if err := t.validateBase(); err != nil {
		return err
	}
	return t.MinSponsoredAssetFee.Normalize("minSponsoredAssetFee", true)
}

func (t *SetAssetScriptTx) validate() error {
	if err := t.validateBase(); err != nil {
		return err
	}
	if err := requireString("assetId", t.AssetID); err != nil {
		return err
	}
	if t.Script == nil || *t.Script == "" {
		return errno.Validation(errno.ErrMissingField, "script", "")
	}
	return nil
}

func (t *ScriptInvocationTx) validate() error {
	if err := t.validateBase(); err != nil {
		return err
	}
	if err := requireString("dappAddress", t.DappAddress); err != nil {
		return err
	}
	if t.Call == nil {
		return errno.Validation(errno.ErrMissingField, "call", "")
	}
	if err := requireString("call.function", t.Call.Function); err != nil {
		return err
	}
	if t.Call.Args == nil {
		return errno.Validation(errno.ErrMissingField, "call.args", "")
	}
	if len(t.Call.Args) == 0 {
		return errno.Validation(errno.ErrEmptySequence, "call.args", "")
	}
	for i, arg := range t.Call.Args {
		field := fmt.Sprintf("call.args[%d]", i)
		if err := validateTypedValue(field, arg.Type, arg.Value); err != nil {
			return err
		}
	}
	if len(t.Payment) > 1 {
		return errno.Validation(errno.ErrOutOfRange, "payment", "at most one payment entry")
	}
	for i, p := range t.Payment {
		if err := p.Normalize(fmt.Sprintf("payment[%d]", i), true); err != nil {
			return err
		}
	}
	return nil
}
