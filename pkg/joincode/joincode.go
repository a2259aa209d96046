package joincode

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Alphabet 去掉易混淆字符（0/O、1/I/L）的大写字母数字
const Alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Generator 生成加入码的函数签名，便于测试注入固定序列
type Generator func(length int) (string, error)

// Generate 用 crypto/rand 生成指定长度的加入码
// 唯一性不在这里保证，由 teams.join_code 唯一约束 + 调用方重试兜底
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("加入码长度必须大于 0")
	}

	max := big.NewInt(int64(len(Alphabet)))
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		result[i] = Alphabet[n.Int64()]
	}
	return string(result), nil
}

// Normalize 加入码大小写不敏感：去空白并统一大写
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
