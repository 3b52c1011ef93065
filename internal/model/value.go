package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind 规范化标量的类型标签
type ValueKind int

const (
	KindAbsent ValueKind = iota // 缺失值
	KindString                  // 字符串
	KindNumber                  // 数值
)

// Value 规范化后的单元格标量：缺失 / 字符串 / 数值三态。
// 行数据用封闭的标准字段集合映射到 Value，保证归一化与比较是全函数。
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
}

// Absent 缺失值
func Absent() Value {
	return Value{Kind: KindAbsent}
}

// String 字符串值
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Number 数值
func Number(f float64) Value {
	return Value{Kind: KindNumber, Num: f}
}

// IsAbsent 是否缺失
func (v Value) IsAbsent() bool {
	return v.Kind == KindAbsent
}

// Equal 规范化标量相等判定
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindString:
		return v.Str == other.Str
	case KindNumber:
		return v.Num == other.Num
	}
	return true
}

// Text 取字符串表示；数值按最短十进制格式输出，缺失返回空串
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return ""
}

// Float 尝试转为 float64
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindString:
		f, err := strconv.ParseFloat(v.Str, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// MarshalJSON 缺失序列化为 null，其余为原生标量
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	}
	return []byte("null"), nil
}

// UnmarshalJSON 从 null / 字符串 / 数值反序列化
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*v = Absent()
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return fmt.Errorf("unsupported cell value %s: %w", string(data), err)
	}
	*v = Number(f)
	return nil
}

// FromAny 把任意解码结果折叠为 Value（布尔与其他类型走字符串表示）
func FromAny(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Absent()
	case string:
		return String(t)
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case bool:
		return String(strconv.FormatBool(t))
	default:
		return String(fmt.Sprintf("%v", t))
	}
}

// Row 规范化行：标准字段标识符到规范化标量的映射
type Row map[Field]Value

// RowFromAny 把 JSON 解码出的 map 转为 Row
func RowFromAny(raw map[string]any) Row {
	row := make(Row, len(raw))
	for key, value := range raw {
		row[Field(key)] = FromAny(value)
	}
	return row
}
