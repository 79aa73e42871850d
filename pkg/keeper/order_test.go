package keeper

import (
	"testing"

	"keeper-client/pkg/errno"
	"keeper-client/pkg/money"
)

func validOrder() *OrderData {
	return &OrderData{
		Amount:           money.Tokens(money.WavesAssetID, "1.5"),
		Price:            money.Tokens("8LQW8f7P5d5PZM7GtZEBgaqRPGSzS3DfPuiXrURJ4AJS", "250"),
		OrderType:        "buy",
		MatcherFee:       money.Coins(money.WavesAssetID, "300000"),
		MatcherPublicKey: "7kPFrHDiGw1rCm7LPszuECwWYL3dMf6iMifLRDJQZMzy",
		Expiration:       money.FromMillis(1891621411409),
	}
}

func TestBuildOrderHappyPath(t *testing.T) {
	for _, side := range []string{"buy", "sell"} {
		o := validOrder()
		o.OrderType = side
		env, err := BuildOrder(o)
		if err != nil {
			t.Errorf("orderType %q 应合法: %v", side, err)
			continue
		}
		if env.Type != TypeOrder {
			t.Errorf("信封标签 = %d, 期望 %d", env.Type, TypeOrder)
		}
	}
}

func TestBuildOrderEnumMembership(t *testing.T) {
	o := validOrder()
	o.OrderType = "hold"
	_, err := BuildOrder(o)
	if !errno.IsKind(err, errno.ErrWrongType) {
		t.Errorf("orderType hold 应报 WrongType, 得到: %v", err)
	}

	o.OrderType = ""
	if _, err := BuildOrder(o); !errno.IsKind(err, errno.ErrMissingField) {
		t.Errorf("缺失 orderType 应报 MissingField, 得到: %v", err)
	}
}

func TestBuildOrderAmountValidation(t *testing.T) {
	o := validOrder()
	o.MatcherFee = nil
	if _, err := BuildOrder(o); !errno.IsKind(err, errno.ErrMissingField) {
		t.Errorf("缺失 matcherFee 应报 MissingField, 得到: %v", err)
	}

	o = validOrder()
	o.Price = money.Plain("250")
	if _, err := BuildOrder(o); !errno.IsKind(err, errno.ErrWrongType) {
		t.Errorf("price 简写应报 WrongType, 得到: %v", err)
	}

	o = validOrder()
	o.MatcherPublicKey = ""
	if _, err := BuildOrder(o); !errno.IsKind(err, errno.ErrMissingField) {
		t.Errorf("缺失 matcherPublicKey 应报 MissingField, 得到: %v", err)
	}

	o = validOrder()
	o.MatcherPublicKey = "0OIl" // 非 Base58 字符
	if _, err := BuildOrder(o); !errno.IsKind(err, errno.ErrWrongType) {
		t.Errorf("非 Base58 matcherPublicKey 应报 WrongType, 得到: %v", err)
	}
}

func TestBuildCancelOrder(t *testing.T) {
	env, err := BuildCancelOrder(&CancelOrderData{ID: "31EeVpTAronk95TjCHdyaveDukde4nDr9BfFpvhZ3Sap"})
	if err != nil {
		t.Fatalf("合法撤单应通过: %v", err)
	}
	if env.Type != TypeCancelOrder {
		t.Errorf("信封标签 = %d, 期望 %d", env.Type, TypeCancelOrder)
	}

	_, err = BuildCancelOrder(&CancelOrderData{})
	if !errno.IsKind(err, errno.ErrMissingField) {
		t.Errorf("缺失 id 应报 MissingField, 得到: %v", err)
	}
}

func TestBuildSignRequest(t *testing.T) {
	for _, typ := range []int{TypeSignRequest, TypeSignRequestAlt} {
		env, err := BuildSignRequest(typ, &SignRequestData{Timestamp: money.FromMillis(1591621411409)})
		if err != nil {
			t.Errorf("标签 %d 签名请求应合法: %v", typ, err)
			continue
		}
		if env.Type != typ {
			t.Errorf("信封标签 = %d, 期望 %d", env.Type, typ)
		}
	}

	_, err := BuildSignRequest(TypeOrder, &SignRequestData{Timestamp: money.Now()})
	if !errno.IsKind(err, errno.ErrUnknownTag) {
		t.Errorf("1002 不是签名请求标签, 得到: %v", err)
	}

	_, err = BuildSignRequest(TypeSignRequest, &SignRequestData{})
	if !errno.IsKind(err, errno.ErrMissingField) {
		t.Errorf("缺失 timestamp 应报 MissingField, 得到: %v", err)
	}
}
