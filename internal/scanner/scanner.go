package scanner

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// 收据文本抽取的固定模式
var (
	unitCodeRe = regexp.MustCompile(`\b(?:[A-Za-z]\d?-?\d{4}|\d-\d{4})\b`)
	amountRe   = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*(万元|万|元)`)
	// 金额关键词兜底：金额/收款/实收/付款 后跟数字
	amountKeywordRe = regexp.MustCompile(`(?i)(?:金额|amount|收款|实收|付款)\s*[:：]?\s*([0-9]+(?:\.[0-9]+)?)`)
	dateRe          = regexp.MustCompile(`\b(20\d{2}-\d{2}-\d{2})\b`)
)

var pdfMagic = []byte("%PDF-")

// Result 收据扫描结果
type Result struct {
	Text             string    `json:"text"`
	Confidence       float64   `json:"confidence"`
	UnitCodes        []string  `json:"unitCodes"`
	AmountCandidates []float64 `json:"amountCandidates"`
	DateCandidates   []string  `json:"dateCandidates"`
	Warnings         []string  `json:"warnings"`
}

// Scan 对收据文件做正则抽取：房号、金额候选、日期候选。
// 仅支持文本内容；PDF 与图片给出提示而不是报错。
func Scan(filePath string) Result {
	result := Result{
		UnitCodes:        []string{},
		AmountCandidates: []float64{},
		DateCandidates:   []string{},
		Warnings:         []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Confidence = 0
		result.Warnings = append(result.Warnings, "文件不存在")
		return result
	}

	if bytes.HasPrefix(data, pdfMagic) || strings.EqualFold(filepath.Ext(filePath), ".pdf") {
		result.Confidence = 0.15
		result.Warnings = append(result.Warnings, "当前仅支持文本内容识别，PDF/图片 OCR 待接入。")
		return result
	}

	text := strings.TrimSpace(string(data))
	result.Text = text
	// 房号不截断；金额与日期候选最多保留 10 个
	result.UnitCodes = uniqueSorted(unitCodeRe.FindAllString(text, -1))
	result.AmountCandidates = extractAmounts(text)
	result.DateCandidates = capCandidates(uniqueSorted(dateRe.FindAllString(text, -1)))
	result.Confidence = scoreConfidence(result)

	return result
}

// extractAmounts 抽取金额候选，万/万元 换算为元；无单位匹配时
// 退回关键词模式
func extractAmounts(text string) []float64 {
	var amounts []float64
	for _, m := range amountRe.FindAllStringSubmatch(text, -1) {
		raw, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if strings.Contains(m[2], "万") {
			raw *= 10000
		}
		amounts = append(amounts, math.Round(raw*100)/100)
	}
	if len(amounts) == 0 {
		for _, m := range amountKeywordRe.FindAllStringSubmatch(text, -1) {
			raw, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			amounts = append(amounts, math.Round(raw*100)/100)
		}
	}
	if len(amounts) > maxCandidates {
		amounts = amounts[:maxCandidates]
	}
	if amounts == nil {
		amounts = []float64{}
	}
	return amounts
}

// scoreConfidence 叠加式置信度估计，上限 0.95
func scoreConfidence(result Result) float64 {
	confidence := 0.15
	if result.Text != "" {
		confidence = 0.55
	}
	if len(result.UnitCodes) > 0 {
		confidence += 0.2
	}
	if len(result.AmountCandidates) > 0 {
		confidence += 0.15
	}
	if confidence > 0.95 {
		confidence = 0.95
	}
	return math.Round(confidence*10000) / 10000
}

// maxCandidates 金额与日期候选的数量上限
const maxCandidates = 10

func uniqueSorted(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func capCandidates(values []string) []string {
	if len(values) > maxCandidates {
		return values[:maxCandidates]
	}
	return values
}
