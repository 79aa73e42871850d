package safe_random

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// GenerateRandomBytes 生成指定长度的安全随机字节切片。
// 如果系统的安全随机数生成器失败，将返回错误。
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	// 注意：只有读取了 len(b) 个字节，err 才为 nil。
	if err != nil {
		return nil, fmt.Errorf("生成随机字节失败: %w", err)
	}
	return b, nil
}

// GenerateRandomBase58 生成 n 个随机字节的 Base58 编码字符串。
// Keeper 协议中的公钥、签名与 proof 都是 Base58 文本，
// devnode 用它来伪造这些值。
func GenerateRandomBase58(n int) (string, error) {
	b, err := GenerateRandomBytes(n)
	if err != nil {
		return "", err
	}
	return base58.Encode(b), nil
}

// GenerateRandomInt 生成一个 [0, max) 范围内的均匀随机值。
func GenerateRandomInt(max *big.Int) (*big.Int, error) {
	if max.Sign() <= 0 {
		return nil, fmt.Errorf("最大值必须为正数")
	}
	return rand.Int(rand.Reader, max)
}

// Reader 是一个全局共享的加密安全随机数生成器实例。
// 默认为 crypto/rand.Reader。
var Reader io.Reader = rand.Reader
