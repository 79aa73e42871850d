package keeper

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"keeper-client/pkg/errno"
)

// BuildTransaction 把松散输入构建成可跨信任边界的信封。
//
// data 可以是本包的载荷结构体、map 或原始 JSON; 流程为
// schema 查表 -> JSON 解码到标签对应的载荷 -> 金额规范化 -> 字段校验。
// 校验失败时错误会指明具体字段与规则, 且不会发起任何 Provider 调用。
func BuildTransaction(typ int, data any) (*Envelope, error) {
	schema, err := Resolve(typ)
	if err != nil {
		return nil, err
	}
	if typ >= TypeSignRequest {
		return nil, errno.Validation(errno.ErrUnknownTag, "type",
			fmt.Sprintf("tag %d is not a transaction type", typ))
	}
	return buildEnvelope(schema, data)
}

func buildEnvelope(schema Schema, data any) (*Envelope, error) {
	raw, err := encodeInput(data)
	if err != nil {
		return nil, errno.Validation(errno.ErrWrongType, "data", err.Error())
	}

	payload := schema.newPayload()
	if err := decodeStrict(raw, payload); err != nil {
		return nil, errno.Validation(errno.ErrWrongType, "data", err.Error())
	}
	if err := payload.validate(); err != nil {
		return nil, err
	}

	normalized, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Envelope{Type: schema.Type, Data: normalized}, nil
}

func encodeInput(data any) (json.RawMessage, error) {
	switch v := data.(type) {
	case nil:
		return nil, errors.New("payload is nil")
	case json.RawMessage:
		return v, nil
	case []byte:
		return v, nil
	default:
		return json.Marshal(data)
	}
}

func decodeStrict(raw json.RawMessage, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return errors.New("payload must be a JSON object")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(dst)
}

// BatchItem package 签名的单个元素
type BatchItem struct {
	Type int `json:"type"`
	Data any `json:"data"`
}

// BuildBatch 构建 package 签名的信封序列, 保持输入顺序。
// 整体成败: 超过 7 笔、出现不可打包的标签或任何一笔校验失败,
// 整批都不会发往 Provider; 首个失败会带上元素下标。
func BuildBatch(items []BatchItem) ([]Envelope, error) {
	if len(items) > MaxPackageSize {
		return nil, errno.Validation(errno.ErrBatchTooLarge, "",
			fmt.Sprintf("%d transactions, limit is %d", len(items), MaxPackageSize))
	}

	out := make([]Envelope, 0, len(items))
	for i, item := range items {
		schema, err := Resolve(item.Type)
		if err != nil {
			return nil, indexed(err, i)
		}
		if !schema.Batchable {
			return nil, errno.Validation(errno.ErrTagNotBatchable, "type",
				fmt.Sprintf("%s (%d) cannot be packaged", schema.Name, item.Type)).AtIndex(i)
		}
		env, err := buildEnvelope(schema, item.Data)
		if err != nil {
			return nil, indexed(err, i)
		}
		out = append(out, *env)
	}
	return out, nil
}

func indexed(err error, i int) error {
	var v *errno.ValidationError
	if errors.As(err, &v) {
		return v.AtIndex(i)
	}
	return err
}

// ParseSignedResult 解析 Provider 返回的已签名交易。
// proofs 必须是序列 (可以为空), type 必须回显请求标签, 否则报 MalformedResponse。
// Provider 把结果包成 JSON 字符串返回时 (signAndPublish 系列) 同样接受。
func ParseSignedResult(raw json.RawMessage, wantType int) (*SignedTransaction, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errno.Validation(errno.ErrMalformedResponse, "", "empty response")
	}

	// 字符串包装: 广播变体把交易 JSON 作为字符串返回
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, errno.Validation(errno.ErrMalformedResponse, "", err.Error())
		}
		return ParseSignedResult(json.RawMessage(inner), wantType)
	}

	if raw[0] != '{' {
		return nil, errno.Validation(errno.ErrMalformedResponse, "", "JSON object expected")
	}

	var probe struct {
		Type   *int            `json:"type"`
		Proofs json.RawMessage `json:"proofs"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, errno.Validation(errno.ErrMalformedResponse, "", err.Error())
	}
	if probe.Type == nil {
		return nil, errno.Validation(errno.ErrMalformedResponse, "type", "missing")
	}
	if *probe.Type != wantType {
		return nil, errno.Validation(errno.ErrMalformedResponse, "type",
			"sent tag "+strconv.Itoa(wantType)+", got "+strconv.Itoa(*probe.Type))
	}
	if jsonKind(probe.Proofs) != "array" {
		return nil, errno.Validation(errno.ErrMalformedResponse, "proofs", "sequence expected")
	}

	var signed SignedTransaction
	if err := json.Unmarshal(raw, &signed); err != nil {
		return nil, errno.Validation(errno.ErrMalformedResponse, "", err.Error())
	}
	if signed.Proofs == nil {
		signed.Proofs = []string{}
	}
	signed.Raw = append(json.RawMessage(nil), raw...)
	return &signed, nil
}
