package differ

import (
	"strings"

	"github.com/PerfectisXit/Intelligent-Project-Mortgage-Data-System-IPMDS-2.0/internal/matcher"
	"github.com/PerfectisXit/Intelligent-Project-Mortgage-Data-System-IPMDS-2.0/internal/model"
)

// EntityTypeUnit 比对结果的实体类型标签
const EntityTypeUnit = "unit"

// Engine 比对引擎。单次调用内无共享可变状态，可并发使用。
type Engine struct {
	threshold float64
	validator *Validator
}

// NewEngine 创建比对引擎
func NewEngine(matchThreshold, ratioTolerance float64) *Engine {
	if matchThreshold <= 0 {
		matchThreshold = matcher.DefaultThreshold
	}
	return &Engine{
		threshold: matchThreshold,
		validator: NewValidator(ratioTolerance),
	}
}

// Compute 对当前表格与存量快照做字段级比对。
// headers/cells 来自表格读取器；priorRows 由调用方提供；
// override 中的映射覆盖自动匹配结果（人工确认优先）。
func (e *Engine) Compute(headers []string, cells [][]any, priorRows []model.Row, override map[string]model.Field) *model.DiffReport {
	mapping := matcher.Match(headers, e.threshold)
	for raw, field := range override {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || field == "" {
			continue
		}
		mapping[trimmed] = field
	}

	currentRows := e.buildRows(headers, cells, mapping)
	priorIndex := indexByKey(priorRows)

	report := &model.DiffReport{
		HeaderMapping: mapping,
		Rows:          make([]model.DiffRow, 0, len(currentRows)),
	}

	// 行号从 2 起：1 行表头之后的数据行
	rowNo := 2
	for _, row := range currentRows {
		diffRow := e.diffOne(rowNo, row, priorIndex)
		report.Rows = append(report.Rows, diffRow)
		report.Summary.TotalRows++
		switch diffRow.ActionType {
		case model.ActionNew:
			report.Summary.NewRows++
		case model.ActionChanged:
			report.Summary.ChangedRows++
		case model.ActionUnchanged:
			report.Summary.UnchangedRows++
		case model.ActionError:
			report.Summary.ErrorRows++
		}
		rowNo++
	}

	return report
}

// buildRows 按映射抽取并归一化每行；unit_code 缺失或为空的行
// 不是数据行，直接丢弃（不计数、不报错）。
func (e *Engine) buildRows(headers []string, cells [][]any, mapping map[string]model.Field) []model.Row {
	type column struct {
		index int
		field model.Field
	}
	var columns []column
	for idx, raw := range headers {
		if field, ok := mapping[strings.TrimSpace(raw)]; ok {
			// 重复表头映射到同一字段时，靠后的列覆盖靠前的列
			columns = append(columns, column{index: idx, field: field})
		}
	}

	var rows []model.Row
	for _, cellRow := range cells {
		row := make(model.Row, len(columns))
		for _, col := range columns {
			var raw any
			if col.index < len(cellRow) {
				raw = cellRow[col.index]
			}
			row[col.field] = Normalize(raw)
		}
		if !hasUnitCode(row) {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// diffOne 对单行执行校验与比对
func (e *Engine) diffOne(rowNo int, row model.Row, priorIndex map[string]model.Row) model.DiffRow {
	key := BusinessKey(row)
	before, hasBefore := priorIndex[key]

	diffRow := model.DiffRow{
		RowNo:       rowNo,
		BusinessKey: key,
		EntityType:  EntityTypeUnit,
		AfterData:   row,
		FieldDiffs:  map[model.Field]model.FieldDiff{},
	}
	if hasBefore {
		diffRow.BeforeData = before
	}

	if violations := e.validator.Validate(row); len(violations) > 0 {
		diffRow.ActionType = model.ActionError
		diffRow.ErrorMessage = strings.Join(violations, "; ")
		return diffRow
	}

	if !hasBefore {
		diffRow.ActionType = model.ActionNew
		for field, after := range row {
			diffRow.FieldDiffs[field] = model.FieldDiff{Before: model.Absent(), After: after}
		}
		return diffRow
	}

	for field, after := range row {
		beforeValue := NormalizeValue(before[field])
		afterValue := NormalizeValue(after)
		if !beforeValue.Equal(afterValue) {
			diffRow.FieldDiffs[field] = model.FieldDiff{Before: beforeValue, After: afterValue}
		}
	}
	if len(diffRow.FieldDiffs) > 0 {
		diffRow.ActionType = model.ActionChanged
	} else {
		diffRow.ActionType = model.ActionUnchanged
	}
	return diffRow
}

// BusinessKey 业务键：项目与房号的固定拼接
func BusinessKey(row model.Row) string {
	return row[model.FieldProject].Text() + "|" + row[model.FieldUnitCode].Text()
}

// indexByKey 以业务键索引存量快照。重复键静默后写覆盖，
// 与上游系统行为保持一致，调用方可能依赖该语义。
func indexByKey(rows []model.Row) map[string]model.Row {
	index := make(map[string]model.Row, len(rows))
	for _, row := range rows {
		index[BusinessKey(row)] = NormalizeRow(row)
	}
	return index
}

func hasUnitCode(row model.Row) bool {
	value, ok := row[model.FieldUnitCode]
	if !ok || value.IsAbsent() {
		return false
	}
	return strings.TrimSpace(value.Text()) != ""
}
