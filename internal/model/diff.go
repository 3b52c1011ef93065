package model

// ActionType 行级比对结论
type ActionType string

const (
	ActionNew       ActionType = "NEW"       // 业务键在存量快照中不存在
	ActionChanged   ActionType = "CHANGED"   // 存在且有字段差异
	ActionUnchanged ActionType = "UNCHANGED" // 存在且无差异
	ActionError     ActionType = "ERROR"     // 校验未通过，不参与比对
)

// FieldDiff 单字段前后值
type FieldDiff struct {
	Before Value `json:"before"`
	After  Value `json:"after"`
}

// DiffRow 单行比对结果。每个输入行生成一条，生成后不再修改。
type DiffRow struct {
	RowNo        int                 `json:"rowNo"`
	ActionType   ActionType          `json:"actionType"`
	BusinessKey  string              `json:"businessKey"`
	EntityType   string              `json:"entityType"`
	BeforeData   Row                 `json:"beforeData"`
	AfterData    Row                 `json:"afterData"`
	FieldDiffs   map[Field]FieldDiff `json:"fieldDiffs"`
	ErrorMessage string              `json:"errorMessage,omitempty"`
}

// DiffSummary 比对汇总计数。TotalRows 恒等于四类行数之和。
type DiffSummary struct {
	TotalRows     int `json:"totalRows"`
	NewRows       int `json:"newRows"`
	ChangedRows   int `json:"changedRows"`
	UnchangedRows int `json:"unchangedRows"`
	ErrorRows     int `json:"errorRows"`
}

// DiffReport 一次比对的完整产物
type DiffReport struct {
	HeaderMapping map[string]Field `json:"headerMapping"`
	Rows          []DiffRow        `json:"rows"`
	Summary       DiffSummary      `json:"summary"`
}
