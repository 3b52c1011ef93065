package model

// ImportStatus 导入日志状态
type ImportStatus string

const (
	StatusDiffed     ImportStatus = "diffed"      // 已比对，待确认
	StatusConfirmed  ImportStatus = "confirmed"   // 已确认入账
	StatusRolledBack ImportStatus = "rolled_back" // 已回滚
)

// ImportLog 一次比对的持久化记录
type ImportLog struct {
	ID             string           `json:"id"`
	SourceFileName string           `json:"sourceFileName"`
	FilePath       string           `json:"filePath"`
	FileSHA256     string           `json:"fileSha256"`
	Status         ImportStatus     `json:"status"`
	Summary        DiffSummary      `json:"summary"`
	HeaderMapping  map[string]Field `json:"headerMapping"`
	CreatedAt      string           `json:"createdAt"`
	ConfirmedAt    string           `json:"confirmedAt,omitempty"`
	RolledBackAt   string           `json:"rolledBackAt,omitempty"`
}

// ChangeAudit 字段级变更审计记录
type ChangeAudit struct {
	RowNo        int    `json:"rowNo"`
	EntityType   string `json:"entityType"`
	BusinessKey  string `json:"businessKey"`
	FieldName    Field  `json:"fieldName"`
	BeforeValue  Value  `json:"beforeValue"`
	AfterValue   Value  `json:"afterValue"`
	Applied      bool   `json:"applied"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	CreatedAt    string `json:"createdAt"`
}
