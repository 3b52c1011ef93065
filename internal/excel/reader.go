package excel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrSheetMissing 目标 Sheet 不存在
var ErrSheetMissing = errors.New("sheet missing")

// DefaultSheetName 默认读取的 Sheet 名
const DefaultSheetName = "数据库"

// Table 读出的表格：原始表头（未裁剪）与数据行单元格
type Table struct {
	SheetName string
	Headers   []string
	Rows      [][]any
}

// ReadSheet 读取指定 Sheet 的表头与数据行。
// 文件无法打开或 Sheet 不存在属于调用级失败，直接返回错误。
func ReadSheet(filePath, sheetName string) (*Table, error) {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", filePath, err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrSheetMissing, sheetName)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}

	table := &Table{SheetName: sheetName}
	if len(rows) == 0 {
		return table, nil
	}

	table.Headers = rows[0]
	table.Rows = make([][]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = parseCell(cell)
		}
		table.Rows = append(table.Rows, cells)
	}

	return table, nil
}

// 单元格里可能出现的日期写法（excelize 把日期样式单元格
// 渲染为设置的格式字符串，短日期默认是 m-d-yy）
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"2006/1/2",
	"01-02-06",
	"1-2-06",
	"2006年01月02日",
	"2006年1月2日",
}

// parseCell 把格式化的单元格字符串还原为类型化的值：
// 空串视为缺失，其次尝试日期、数值，否则保留字符串。
func parseCell(cell string) any {
	if cell == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t
		}
	}
	if looksNumeric(cell) {
		if f, err := strconv.ParseFloat(cell, 64); err == nil {
			return f
		}
	}
	return cell
}

// looksNumeric 判断单元格是否当作数值处理。带前导零的编号和
// 长数字串（手机号、身份证号）保留为字符串，身份证号超出
// float64 精度，转数值会丢失末位。
func looksNumeric(cell string) bool {
	if len(cell) > 1 && cell[0] == '0' && cell[1] != '.' {
		return false
	}
	if !strings.ContainsAny(cell, ".") && len(cell) > 10 {
		return false
	}
	return true
}
