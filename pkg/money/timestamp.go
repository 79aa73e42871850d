package money

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"keeper-client/pkg/errno"
)

// Timestamp 毫秒时间戳, 协议允许数字或数字字符串两种写法。
// 指针为 nil 表示"缺省, 由 Provider 在调用时填充"。
type Timestamp struct {
	raw json.RawMessage
}

// FromMillis 用毫秒数构造时间戳
func FromMillis(ms int64) *Timestamp {
	return &Timestamp{raw: json.RawMessage(strconv.FormatInt(ms, 10))}
}

// Now 当前时间的毫秒时间戳
func Now() *Timestamp {
	return FromMillis(time.Now().UnixMilli())
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	t.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (t *Timestamp) MarshalJSON() ([]byte, error) {
	if t == nil || t.raw == nil {
		return []byte("null"), nil
	}
	return t.raw, nil
}

// Millis 返回毫秒数值串
func (t *Timestamp) Millis() string {
	if t == nil || t.raw == nil {
		return ""
	}
	s := string(t.raw)
	if unq, err := strconv.Unquote(s); err == nil {
		return unq
	}
	return s
}

// Validate 校验时间戳的表示是否合法 (是否未来时刻由 Provider 判断)
func (t *Timestamp) Validate(field string) error {
	if t == nil || t.raw == nil {
		return nil
	}
	d, err := decimal.NewFromString(t.Millis())
	if err != nil {
		return errno.Validation(errno.ErrWrongType, field, "epoch milliseconds expected")
	}
	if !d.IsInteger() || d.IsNegative() {
		return errno.Validation(errno.ErrOutOfRange, field, "epoch milliseconds expected")
	}
	return nil
}
