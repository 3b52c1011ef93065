package matcher

import (
	"reflect"
	"testing"

	"github.com/PerfectisXit/Intelligent-Project-Mortgage-Data-System-IPMDS-2.0/internal/model"
)

func TestNormalizeHeader(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"  项目名称  ", "项目名称"},
		{"房间全称\n/车位号", "房间全称/车位号"},
		{"签约\t日期", "签约日期"},
		{"收款 比例", "收款比例"},
		{"收款比例（％）", "收款比例(%)"},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := NormalizeHeader(c.in); got != c.want {
			t.Fatalf("NormalizeHeader(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMatch_ExactAliases(t *testing.T) {
	t.Parallel()

	headers := []string{"项目", "房号", "客户名称", "实测面积", "联系方式"}
	mapping := Match(headers, DefaultThreshold)

	want := map[string]model.Field{
		"项目":   model.FieldProject,
		"房号":   model.FieldUnitCode,
		"客户名称": model.FieldCustomerName,
		"实测面积": model.FieldAreaM2,
		"联系方式": model.FieldPhone,
	}
	if !reflect.DeepEqual(mapping, want) {
		t.Fatalf("mapping mismatch: got=%v want=%v", mapping, want)
	}
}

func TestMatch_FuzzyHeader(t *testing.T) {
	t.Parallel()

	mapping := Match([]string{"签约日"}, DefaultThreshold)
	if got := mapping["签约日"]; got != model.FieldSignDate {
		t.Fatalf("fuzzy header mapped to %q, want %q", got, model.FieldSignDate)
	}
}

func TestMatch_BelowThresholdSkipped(t *testing.T) {
	t.Parallel()

	mapping := Match([]string{"备注"}, DefaultThreshold)
	if _, ok := mapping["备注"]; ok {
		t.Fatalf("unrelated header should not be mapped, got %v", mapping)
	}
}

func TestMatch_EmptyHeaderSkipped(t *testing.T) {
	t.Parallel()

	mapping := Match([]string{"", "  ", "项目"}, DefaultThreshold)
	if len(mapping) != 1 {
		t.Fatalf("expected only one mapping, got %v", mapping)
	}
}

func TestMatch_Deterministic(t *testing.T) {
	t.Parallel()

	headers := []string{"项目名称", "房间号", "签约日", "实际收款", "内外部", "总包单位"}
	first := Match(headers, DefaultThreshold)
	for i := 0; i < 20; i++ {
		if again := Match(headers, DefaultThreshold); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced different mapping: %v vs %v", i, again, first)
		}
	}
}

func TestMatch_KeyedByTrimmedRawHeader(t *testing.T) {
	t.Parallel()

	// 键是去首尾空白的原始表头，全角字符与内部空白保留原样
	mapping := Match([]string{" 收款比例（％） ", "项目"}, DefaultThreshold)
	if got := mapping["收款比例（％）"]; got != model.FieldReceiptRatioInput {
		t.Fatalf("fullwidth header key missing, mapping = %v", mapping)
	}
	if _, ok := mapping["收款比例(%)"]; ok {
		t.Fatalf("normalized form must not be a key, mapping = %v", mapping)
	}
}

func TestSuggest_ExactAliasNoConfirm(t *testing.T) {
	t.Parallel()

	suggestions := Suggest([]string{"收款比例"}, 0)
	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
	}
	s := suggestions[0]
	if s.SuggestedField != model.FieldReceiptRatioInput {
		t.Fatalf("suggested field = %q, want %q", s.SuggestedField, model.FieldReceiptRatioInput)
	}
	if s.Confidence != 100.0 {
		t.Fatalf("confidence = %v, want 100", s.Confidence)
	}
	if s.NeedsConfirm {
		t.Fatalf("exact alias should not need confirmation")
	}
}

func TestSuggest_FuzzyNeedsConfirm(t *testing.T) {
	t.Parallel()

	suggestions := Suggest([]string{"签约日"}, 0)
	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
	}
	s := suggestions[0]
	if s.SuggestedField != model.FieldSignDate {
		t.Fatalf("suggested field = %q, want %q", s.SuggestedField, model.FieldSignDate)
	}
	if !s.NeedsConfirm {
		t.Fatalf("score below confirm threshold should set NeedsConfirm")
	}
	if len(s.Candidates) != 3 {
		t.Fatalf("expected top-3 candidates, got %d", len(s.Candidates))
	}
	if s.Candidates[0].Score < s.Candidates[1].Score ||
		s.Candidates[1].Score < s.Candidates[2].Score {
		t.Fatalf("candidates not sorted by score: %v", s.Candidates)
	}
}

func TestSuggest_LowScoreHasNoSuggestedField(t *testing.T) {
	t.Parallel()

	suggestions := Suggest([]string{"备注"}, 0)
	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
	}
	s := suggestions[0]
	if s.SuggestedField != "" {
		t.Fatalf("low score header should not carry a suggestion, got %q", s.SuggestedField)
	}
	if !s.NeedsConfirm {
		t.Fatalf("low score header must need confirmation")
	}
}

func TestSuggest_EchoesTrimmedRawHeader(t *testing.T) {
	t.Parallel()

	suggestions := Suggest([]string{" 收款比例（％） "}, 0)
	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
	}
	s := suggestions[0]
	// 回显的是表格里的原始表头，只去首尾空白
	if s.RawHeader != "收款比例（％）" {
		t.Fatalf("raw header = %q, want original trimmed form", s.RawHeader)
	}
	if s.SuggestedField != model.FieldReceiptRatioInput {
		t.Fatalf("suggested field = %q", s.SuggestedField)
	}
}

func TestSuggest_ConfirmThresholdConfigurable(t *testing.T) {
	t.Parallel()

	// “签约日”得分约 85.7：默认阈值 90 下需确认
	byDefault := Suggest([]string{"签约日"}, 0)
	if !byDefault[0].NeedsConfirm {
		t.Fatalf("default threshold should require confirmation")
	}

	// 阈值调低到 80 后同一表头不再需要确认
	relaxed := Suggest([]string{"签约日"}, 80)
	if relaxed[0].NeedsConfirm {
		t.Fatalf("threshold 80 should accept the suggestion without confirmation")
	}

	// 阈值调高后连完全匹配也要确认
	strict := Suggest([]string{"收款比例"}, 100.5)
	if !strict[0].NeedsConfirm {
		t.Fatalf("threshold above 100 must flag even exact matches")
	}
}
