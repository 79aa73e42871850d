package keeper

import (
	"fmt"

	"keeper-client/pkg/errno"
)

// BuildOrder 构建撮合订单信封 (type 1002)
func BuildOrder(data any) (*Envelope, error) {
	schema, _ := Resolve(TypeOrder)
	return buildEnvelope(schema, data)
}

// BuildCancelOrder 构建撤单信封 (type 1003)
func BuildCancelOrder(data any) (*Envelope, error) {
	schema, _ := Resolve(TypeCancelOrder)
	return buildEnvelope(schema, data)
}

// BuildSignRequest 构建通用签名请求信封, typ 只能是 1001 或 1004
func BuildSignRequest(typ int, data any) (*Envelope, error) {
	if typ != TypeSignRequest && typ != TypeSignRequestAlt {
		return nil, errno.Validation(errno.ErrUnknownTag, "type",
			fmt.Sprintf("tag %d is not a sign-request type", typ))
	}
	schema, _ := Resolve(typ)
	return buildEnvelope(schema, data)
}

func (o *OrderData) validate() error {
	if err := o.Amount.Normalize("amount", true); err != nil {
		return err
	}
	if err := o.Price.Normalize("price", true); err != nil {
		return err
	}
	if err := o.MatcherFee.Normalize("matcherFee", true); err != nil {
		return err
	}

	switch o.OrderType {
	case "buy", "sell":
	case "":
		return errno.Validation(errno.ErrMissingField, "orderType", "")
	default:
		return errno.Validation(errno.ErrWrongType, "orderType",
			fmt.Sprintf("%q is not one of buy, sell", o.OrderType))
	}

	if err := requireString("matcherPublicKey", o.MatcherPublicKey); err != nil {
		return err
	}
	if err := checkBase58("matcherPublicKey", o.MatcherPublicKey); err != nil {
		return err
	}
	if err := checkBase58("senderPublicKey", o.SenderPublicKey); err != nil {
		return err
	}

	// 是否真的在未来由 Provider/matcher 判断, 这里只检查表示合法
	if err := o.Expiration.Validate("expiration"); err != nil {
		return err
	}
	return o.Timestamp.Validate("timestamp")
}

func (c *CancelOrderData) validate() error {
	if err := requireString("id", c.ID); err != nil {
		return err
	}
	return checkBase58("senderPublicKey", c.SenderPublicKey)
}

func (r *SignRequestData) validate() error {
	if r.Timestamp == nil {
		return errno.Validation(errno.ErrMissingField, "timestamp", "")
	}
	return r.Timestamp.Validate("timestamp")
}
