package matcher

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/width"

	"github.com/PerfectisXit/Intelligent-Project-Mortgage-Data-System-IPMDS-2.0/internal/model"
)

const (
	// DefaultThreshold 低于该得分的表头不建立映射
	DefaultThreshold = 72.0
	// ConfirmThreshold 低于该得分的建议需要人工确认
	ConfirmThreshold = 90.0
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeHeader 规范化原始表头：去首尾空白、去换行制表符、
// 压缩空白、全角折叠为半角（表格里常混入全角括号和冒号）。
func NormalizeHeader(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\n", "")
	name = strings.ReplaceAll(name, "\r", "")
	name = strings.ReplaceAll(name, "\t", "")
	name = whitespaceRe.ReplaceAllString(name, "")
	return width.Narrow.String(name)
}

// scoreField 原始表头对某标准字段的得分：各别名得分的最大值
func scoreField(raw string, aliases []string) float64 {
	best := 0.0
	for _, alias := range aliases {
		if score := ScoreAgainst(raw, alias); score > best {
			best = score
		}
	}
	return best
}

// Match 为每个原始表头选出得分最高且不低于 threshold 的标准字段。
// 结果以去首尾空白的原始表头为键，打分用深度规范化后的形式；
// 得分相同保留目录里先出现的字段；空表头跳过。
func Match(rawHeaders []string, threshold float64) map[string]model.Field {
	mapped := make(map[string]model.Field)
	for _, raw := range rawHeaders {
		trimmed := strings.TrimSpace(raw)
		normalized := NormalizeHeader(raw)
		if normalized == "" {
			continue
		}

		var bestField model.Field
		bestScore := 0.0
		for _, entry := range model.Catalog {
			if score := scoreField(normalized, entry.Aliases); score > bestScore {
				bestScore = score
				bestField = entry.Field
			}
		}

		if bestField != "" && bestScore >= threshold {
			mapped[trimmed] = bestField
		}
	}
	return mapped
}

// Candidate 候选字段及得分
type Candidate struct {
	Field model.Field `json:"field"`
	Score float64     `json:"score"`
}

// Suggestion 单个表头的映射建议。RawHeader 回显去首尾空白的
// 原始表头，供调用方与表格对照。SuggestedField 仅在最高分达到
// 映射阈值时给出；最高分低于确认阈值时 NeedsConfirm 为 true，
// 调用方应把建议交给人工确认而不是直接采用。
type Suggestion struct {
	RawHeader      string      `json:"rawHeader"`
	SuggestedField model.Field `json:"suggestedField,omitempty"`
	Confidence     float64     `json:"confidence"`
	Candidates     []Candidate `json:"candidates"`
	NeedsConfirm   bool        `json:"needsConfirm"`
}

// Suggest 为每个表头给出前三名候选，不隐藏低置信度结果。
// confirmThreshold 非正时取 ConfirmThreshold。
func Suggest(rawHeaders []string, confirmThreshold float64) []Suggestion {
	if confirmThreshold <= 0 {
		confirmThreshold = ConfirmThreshold
	}

	suggestions := make([]Suggestion, 0, len(rawHeaders))
	for _, raw := range rawHeaders {
		trimmed := strings.TrimSpace(raw)
		normalized := NormalizeHeader(raw)
		if normalized == "" {
			continue
		}

		scored := make([]Candidate, 0, len(model.Catalog))
		for _, entry := range model.Catalog {
			scored = append(scored, Candidate{
				Field: entry.Field,
				Score: roundScore(scoreField(normalized, entry.Aliases)),
			})
		}
		// 稳定排序保持目录顺序作为平局规则
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Score > scored[j].Score
		})

		top := scored
		if len(top) > 3 {
			top = top[:3]
		}

		suggestion := Suggestion{
			RawHeader:    trimmed,
			Confidence:   top[0].Score,
			Candidates:   top,
			NeedsConfirm: top[0].Score < confirmThreshold,
		}
		if top[0].Score >= DefaultThreshold {
			suggestion.SuggestedField = top[0].Field
		}
		suggestions = append(suggestions, suggestion)
	}
	return suggestions
}

func roundScore(score float64) float64 {
	return math.Round(score*100) / 100
}
