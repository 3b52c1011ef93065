package differ

import (
	"math"
	"time"

	"github.com/PerfectisXit/Intelligent-Project-Mortgage-Data-System-IPMDS-2.0/internal/model"
)

// roundDigits 浮点值保留的小数位数
const roundDigits = 6

// Normalize 把单元格原始值折叠为规范化标量：
// 缺失 → Absent；日期时间 → YYYY-MM-DD；浮点 → 保留 6 位小数；
// 其余原样透传。当前行和存量快照读出的值都必须经过同一个
// Normalize，否则仅因表示差异就会产生假差异。
func Normalize(raw any) model.Value {
	switch t := raw.(type) {
	case nil:
		return model.Absent()
	case model.Value:
		return NormalizeValue(t)
	case time.Time:
		return model.String(t.Format("2006-01-02"))
	case float64:
		return model.Number(roundFloat(t))
	case float32:
		return model.Number(roundFloat(float64(t)))
	case int:
		return model.Number(float64(t))
	case int64:
		return model.Number(float64(t))
	case string:
		return model.String(t)
	default:
		return model.FromAny(raw)
	}
}

// NormalizeValue 对已是标量的值再归一化。幂等：
// NormalizeValue(NormalizeValue(v)) == NormalizeValue(v)。
func NormalizeValue(v model.Value) model.Value {
	if v.Kind == model.KindNumber {
		return model.Number(roundFloat(v.Num))
	}
	return v
}

// NormalizeRow 逐字段归一化整行
func NormalizeRow(row model.Row) model.Row {
	out := make(model.Row, len(row))
	for field, value := range row {
		out[field] = NormalizeValue(value)
	}
	return out
}

func roundFloat(f float64) float64 {
	shift := math.Pow(10, roundDigits)
	return math.Round(f*shift) / shift
}
