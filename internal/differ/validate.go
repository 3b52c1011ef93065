package differ

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PerfectisXit/Intelligent-Project-Mortgage-Data-System-IPMDS-2.0/internal/model"
)

// DefaultRatioTolerance 收款比例允许的偏差
const DefaultRatioTolerance = 0.01

var (
	yearOnlyRe = regexp.MustCompile(`^\d{4}$`)
	// 手机号：11 位数字，1 开头
	mobileRe = regexp.MustCompile(`^1\d{10}$`)
	// 座机：0 开头区号 3-4 位，可带连字符，号码 7-8 位
	landlineRe = regexp.MustCompile(`^0\d{2,3}-?\d{7,8}$`)
	// 联系方式分隔符：中英文逗号、顿号、分号、斜杠及空白
	phoneSplitRe = regexp.MustCompile(`[,，、;；/／\s]+`)
)

// Validator 行级业务规则校验器
type Validator struct {
	ratioTolerance float64
}

// NewValidator 创建校验器
func NewValidator(ratioTolerance float64) *Validator {
	if ratioTolerance <= 0 {
		ratioTolerance = DefaultRatioTolerance
	}
	return &Validator{ratioTolerance: ratioTolerance}
}

// Validate 对规范化行执行全部规则，返回违规信息列表。
// 各规则独立评估，全部收集后返回，不短路。空切片表示通过。
func (v *Validator) Validate(row model.Row) []string {
	var violations []string
	violations = append(violations, v.checkSignDate(row)...)
	violations = append(violations, v.checkPhone(row)...)
	violations = append(violations, v.checkReceiptRatio(row)...)
	violations = append(violations, v.checkExternalUnits(row)...)
	return violations
}

// checkSignDate 签约日期不接受仅有年份的值
func (v *Validator) checkSignDate(row model.Row) []string {
	value, ok := row[model.FieldSignDate]
	if !ok || value.IsAbsent() {
		return nil
	}
	text := value.Text()
	if yearOnlyRe.MatchString(text) {
		return []string{fmt.Sprintf("签约日期仅为年份，缺少月日: %s", text)}
	}
	return nil
}

// checkPhone 联系方式按分隔符拆分后逐段校验手机/座机格式
func (v *Validator) checkPhone(row model.Row) []string {
	value, ok := row[model.FieldPhone]
	if !ok || value.IsAbsent() {
		return nil
	}
	text := strings.TrimSpace(value.Text())
	if text == "" {
		return nil
	}

	var tokens []string
	for _, token := range phoneSplitRe.Split(text, -1) {
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	if len(tokens) == 0 {
		return []string{fmt.Sprintf("联系方式无法解析: %s", text)}
	}

	var violations []string
	for _, token := range tokens {
		if !mobileRe.MatchString(token) && !landlineRe.MatchString(token) {
			violations = append(violations, fmt.Sprintf("联系方式格式不正确: %s", token))
		}
	}
	return violations
}

// checkReceiptRatio 实际收款 / 成交总价 与表内收款比例的偏差校验
func (v *Validator) checkReceiptRatio(row model.Row) []string {
	received, hasReceived := presentValue(row, model.FieldActualReceived)
	price, hasPrice := presentValue(row, model.FieldDealPrice)
	stated, hasStated := presentValue(row, model.FieldReceiptRatioInput)
	if !hasReceived || !hasPrice || !hasStated {
		return nil
	}

	receivedNum, ok1 := received.Float()
	priceNum, ok2 := price.Float()
	statedNum, ok3 := stated.Float()
	if !ok1 || !ok2 || !ok3 {
		// 数值转换失败单独作为一条违规，不静默跳过
		return []string{"收款比例校验失败: 实际收款/成交总价/收款比例存在无法转换的数值"}
	}
	if priceNum <= 0 {
		return nil
	}

	actual := receivedNum / priceNum
	if diff := actual - statedNum; diff > v.ratioTolerance || diff < -v.ratioTolerance {
		return []string{fmt.Sprintf("收款比例不一致: 表内 %s, 实际 %s",
			formatRatio(statedNum), formatRatio(actual))}
	}
	return nil
}

// checkExternalUnits 外部交易必须填写建设单位与总包单位
func (v *Validator) checkExternalUnits(row model.Row) []string {
	value, ok := row[model.FieldInternalExternal]
	if !ok || value.IsAbsent() {
		return nil
	}
	if !strings.Contains(value.Text(), "外部") {
		return nil
	}

	var violations []string
	if _, ok := presentValue(row, model.FieldConstructionUnit); !ok {
		violations = append(violations, "外部交易缺少建设单位")
	}
	if _, ok := presentValue(row, model.FieldGeneralContractorUnit); !ok {
		violations = append(violations, "外部交易缺少总包单位")
	}
	return violations
}

// presentValue 取非缺失且非空串的字段值
func presentValue(row model.Row, field model.Field) (model.Value, bool) {
	value, ok := row[field]
	if !ok || value.IsAbsent() {
		return model.Value{}, false
	}
	if value.Kind == model.KindString && strings.TrimSpace(value.Str) == "" {
		return model.Value{}, false
	}
	return value, true
}

func formatRatio(f float64) string {
	return strconv.FormatFloat(roundFloat(f), 'f', -1, 64)
}
