package differ

import (
	"strings"
	"testing"

	"github.com/PerfectisXit/Intelligent-Project-Mortgage-Data-System-IPMDS-2.0/internal/model"
)

func validRow() model.Row {
	return model.Row{
		model.FieldProject:  model.String("滨江一号"),
		model.FieldUnitCode: model.String("A-1203"),
	}
}

func TestValidate_CleanRowPasses(t *testing.T) {
	t.Parallel()

	v := NewValidator(DefaultRatioTolerance)
	if violations := v.Validate(validRow()); len(violations) != 0 {
		t.Fatalf("expected no violations, got %v", violations)
	}
}

func TestValidate_SignDate(t *testing.T) {
	t.Parallel()

	v := NewValidator(DefaultRatioTolerance)

	row := validRow()
	row[model.FieldSignDate] = model.String("2024")
	violations := v.Validate(row)
	if len(violations) != 1 || !strings.Contains(violations[0], "签约日期仅为年份") {
		t.Fatalf("year-only sign date should be flagged, got %v", violations)
	}

	row[model.FieldSignDate] = model.String("2024-05-01")
	if violations := v.Validate(row); len(violations) != 0 {
		t.Fatalf("full date should pass, got %v", violations)
	}
}

func TestValidate_Phone(t *testing.T) {
	t.Parallel()

	v := NewValidator(DefaultRatioTolerance)

	cases := []struct {
		phone string
		ok    bool
	}{
		{"13800000000", true},
		{"010-12345678", true},
		{"0731-8888888", true},
		{"13800000000、010-12345678", true},
		{"138-0000-0000", false},
		{"12345", false},
		{"13800000000，电话丢了", false},
	}
	for _, c := range cases {
		row := validRow()
		row[model.FieldPhone] = model.String(c.phone)
		violations := v.Validate(row)
		if c.ok && len(violations) != 0 {
			t.Fatalf("phone %q should pass, got %v", c.phone, violations)
		}
		if !c.ok && len(violations) == 0 {
			t.Fatalf("phone %q should be flagged", c.phone)
		}
	}
}

func TestValidate_PhoneAbsentSkipped(t *testing.T) {
	t.Parallel()

	v := NewValidator(DefaultRatioTolerance)
	row := validRow()
	row[model.FieldPhone] = model.Absent()
	if violations := v.Validate(row); len(violations) != 0 {
		t.Fatalf("absent phone should not be checked, got %v", violations)
	}
}

func TestValidate_ReceiptRatio(t *testing.T) {
	t.Parallel()

	v := NewValidator(DefaultRatioTolerance)

	row := validRow()
	row[model.FieldActualReceived] = model.Number(50)
	row[model.FieldDealPrice] = model.Number(100)
	row[model.FieldReceiptRatioInput] = model.Number(0.5)
	if violations := v.Validate(row); len(violations) != 0 {
		t.Fatalf("consistent ratio should pass, got %v", violations)
	}

	row[model.FieldReceiptRatioInput] = model.Number(0.9)
	violations := v.Validate(row)
	if len(violations) != 1 {
		t.Fatalf("inconsistent ratio should be flagged once, got %v", violations)
	}
	if !strings.Contains(violations[0], "0.9") || !strings.Contains(violations[0], "0.5") {
		t.Fatalf("violation should cite both ratios, got %q", violations[0])
	}
}

func TestValidate_ReceiptRatioWithinTolerance(t *testing.T) {
	t.Parallel()

	v := NewValidator(DefaultRatioTolerance)
	row := validRow()
	row[model.FieldActualReceived] = model.Number(50.5)
	row[model.FieldDealPrice] = model.Number(100)
	row[model.FieldReceiptRatioInput] = model.Number(0.5)
	if violations := v.Validate(row); len(violations) != 0 {
		t.Fatalf("deviation within tolerance should pass, got %v", violations)
	}
}

func TestValidate_ReceiptRatioSkippedWhenIncomplete(t *testing.T) {
	t.Parallel()

	v := NewValidator(DefaultRatioTolerance)
	row := validRow()
	row[model.FieldActualReceived] = model.Number(50)
	row[model.FieldReceiptRatioInput] = model.Number(0.5)
	// 缺成交总价，规则不触发
	if violations := v.Validate(row); len(violations) != 0 {
		t.Fatalf("incomplete triple should skip the check, got %v", violations)
	}
}

func TestValidate_ReceiptRatioStringValues(t *testing.T) {
	t.Parallel()

	v := NewValidator(DefaultRatioTolerance)
	row := validRow()
	row[model.FieldActualReceived] = model.String("50")
	row[model.FieldDealPrice] = model.String("100")
	row[model.FieldReceiptRatioInput] = model.String("0.5")
	if violations := v.Validate(row); len(violations) != 0 {
		t.Fatalf("numeric strings should be parsed, got %v", violations)
	}

	row[model.FieldReceiptRatioInput] = model.String("一半")
	violations := v.Validate(row)
	if len(violations) != 1 || !strings.Contains(violations[0], "收款比例校验失败") {
		t.Fatalf("unparseable ratio should be flagged, got %v", violations)
	}
}

func TestValidate_ExternalUnits(t *testing.T) {
	t.Parallel()

	v := NewValidator(DefaultRatioTolerance)

	row := validRow()
	row[model.FieldInternalExternal] = model.String("外部")
	violations := v.Validate(row)
	if len(violations) != 2 {
		t.Fatalf("external row without units should get two violations, got %v", violations)
	}

	row[model.FieldConstructionUnit] = model.String("某建设集团")
	violations = v.Validate(row)
	if len(violations) != 1 || !strings.Contains(violations[0], "总包单位") {
		t.Fatalf("missing general contractor should remain flagged, got %v", violations)
	}

	row[model.FieldGeneralContractorUnit] = model.String("某总包公司")
	if violations := v.Validate(row); len(violations) != 0 {
		t.Fatalf("complete external row should pass, got %v", violations)
	}

	internal := validRow()
	internal[model.FieldInternalExternal] = model.String("内部")
	if violations := v.Validate(internal); len(violations) != 0 {
		t.Fatalf("internal row should skip the unit check, got %v", violations)
	}
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	t.Parallel()

	v := NewValidator(DefaultRatioTolerance)
	row := validRow()
	row[model.FieldSignDate] = model.String("2024")
	row[model.FieldPhone] = model.String("12345")
	row[model.FieldInternalExternal] = model.String("外部")
	violations := v.Validate(row)
	if len(violations) != 4 {
		t.Fatalf("expected 4 violations (date + phone + 2 units), got %v", violations)
	}
}
