package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ── JSONB 自定义类型 ──

// JSONMap 对应 PostgreSQL JSONB 对象，实现 GORM Scanner/Valuer 接口。
// 工作流只校验其为合法 JSON 对象，从不解释内容。
type JSONMap map[string]interface{}

// Scan 将数据库返回的 JSON 文本解析为 map；NULL 视为空对象。
func (m *JSONMap) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*m = JSONMap{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("JSONMap.Scan: unsupported type %T", src)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		*m = JSONMap{}
		return nil
	}
	out := JSONMap{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("JSONMap.Scan: %w", err)
	}
	*m = out
	return nil
}

// Value 序列化为 JSON 文本；nil 写入 {}。
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("JSONMap.Value: %w", err)
	}
	return string(b), nil
}

// ParseJSONMap 解析管理员提交的规则文本：空白视为 {}，必须是 JSON 对象
func ParseJSONMap(text string) (JSONMap, error) {
	trimmed := bytes.TrimSpace([]byte(text))
	if len(trimmed) == 0 {
		return JSONMap{}, nil
	}
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("规则必须是 JSON 对象")
	}
	out := JSONMap{}
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, err
	}
	return out, nil
}
