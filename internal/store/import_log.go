package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/PerfectisXit/Intelligent-Project-Mortgage-Data-System-IPMDS-2.0/internal/model"
)

// SaveDiffReport 持久化一次比对结果：日志头与全部明细行写入同一事务
func (s *Store) SaveDiffReport(logID, fileName, filePath, fileSHA256 string, report *model.DiffReport) error {
	headerMapping, err := json.Marshal(report.HeaderMapping)
	if err != nil {
		return fmt.Errorf("failed to marshal header mapping: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO import_logs (
			id, source_file_name, file_path, file_sha256, status,
			total_rows, new_rows, changed_rows, unchanged_rows, error_rows,
			header_mapping
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, logID, fileName, filePath, fileSHA256, string(model.StatusDiffed),
		report.Summary.TotalRows, report.Summary.NewRows, report.Summary.ChangedRows,
		report.Summary.UnchangedRows, report.Summary.ErrorRows, string(headerMapping))
	if err != nil {
		return fmt.Errorf("failed to insert import log: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO import_log_rows (
			import_log_id, row_no, action_type, business_key, entity_type,
			before_data, after_data, field_diffs, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare row insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range report.Rows {
		beforeData, err := marshalNullableRow(row.BeforeData)
		if err != nil {
			return fmt.Errorf("failed to marshal before data: %w", err)
		}
		afterData, err := marshalNullableRow(row.AfterData)
		if err != nil {
			return fmt.Errorf("failed to marshal after data: %w", err)
		}
		fieldDiffs, err := json.Marshal(row.FieldDiffs)
		if err != nil {
			return fmt.Errorf("failed to marshal field diffs: %w", err)
		}

		if _, err := stmt.Exec(logID, row.RowNo, string(row.ActionType), row.BusinessKey,
			row.EntityType, beforeData, afterData, string(fieldDiffs),
			nullableString(row.ErrorMessage)); err != nil {
			return fmt.Errorf("failed to insert diff row %d: %w", row.RowNo, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit diff report: %w", err)
	}
	return nil
}

// GetImportLog 读取单条导入日志
func (s *Store) GetImportLog(logID string) (*model.ImportLog, error) {
	row := s.db.QueryRow(`
		SELECT id, source_file_name, file_path, file_sha256, status,
		       total_rows, new_rows, changed_rows, unchanged_rows, error_rows,
		       header_mapping, created_at,
		       COALESCE(confirmed_at, ''), COALESCE(rolled_back_at, '')
		FROM import_logs WHERE id = ?
	`, logID)
	return scanImportLog(row)
}

// ListImportLogs 按创建时间倒序列出导入日志
func (s *Store) ListImportLogs(limit int) ([]*model.ImportLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, source_file_name, file_path, file_sha256, status,
		       total_rows, new_rows, changed_rows, unchanged_rows, error_rows,
		       header_mapping, created_at,
		       COALESCE(confirmed_at, ''), COALESCE(rolled_back_at, '')
		FROM import_logs ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import logs: %w", err)
	}
	defer rows.Close()

	var logs []*model.ImportLog
	for rows.Next() {
		log, err := scanImportLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// GetImportRows 读取一次比对的全部明细行
func (s *Store) GetImportRows(logID string) ([]model.DiffRow, error) {
	if _, err := s.GetImportLog(logID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT row_no, action_type, business_key, entity_type,
		       before_data, after_data, field_diffs, COALESCE(error_message, '')
		FROM import_log_rows WHERE import_log_id = ? ORDER BY row_no ASC
	`, logID)
	if err != nil {
		return nil, fmt.Errorf("failed to query import rows: %w", err)
	}
	defer rows.Close()

	var result []model.DiffRow
	for rows.Next() {
		var diffRow model.DiffRow
		var actionType string
		var beforeData, afterData sql.NullString
		var fieldDiffs string
		if err := rows.Scan(&diffRow.RowNo, &actionType, &diffRow.BusinessKey,
			&diffRow.EntityType, &beforeData, &afterData, &fieldDiffs,
			&diffRow.ErrorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan import row: %w", err)
		}
		diffRow.ActionType = model.ActionType(actionType)
		if beforeData.Valid && beforeData.String != "" {
			if err := json.Unmarshal([]byte(beforeData.String), &diffRow.BeforeData); err != nil {
				return nil, fmt.Errorf("failed to decode before data: %w", err)
			}
		}
		if afterData.Valid && afterData.String != "" {
			if err := json.Unmarshal([]byte(afterData.String), &diffRow.AfterData); err != nil {
				return nil, fmt.Errorf("failed to decode after data: %w", err)
			}
		}
		if err := json.Unmarshal([]byte(fieldDiffs), &diffRow.FieldDiffs); err != nil {
			return nil, fmt.Errorf("failed to decode field diffs: %w", err)
		}
		result = append(result, diffRow)
	}
	return result, rows.Err()
}

// CommitImportLog 确认导入：diffed → confirmed，并为 NEW/CHANGED
// 行写入字段级审计。UNCHANGED/ERROR 行不产生审计。
func (s *Store) CommitImportLog(logID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	status, err := currentStatus(tx, logID)
	if err != nil {
		return err
	}
	if status != model.StatusDiffed {
		return fmt.Errorf("%w: %s", ErrBadStatus, status)
	}

	rows, err := tx.Query(`
		SELECT row_no, business_key, entity_type, field_diffs
		FROM import_log_rows
		WHERE import_log_id = ? AND action_type IN ('NEW', 'CHANGED')
		ORDER BY row_no ASC
	`, logID)
	if err != nil {
		return fmt.Errorf("failed to query committable rows: %w", err)
	}

	type auditSource struct {
		rowNo       int
		businessKey string
		entityType  string
		diffs       map[model.Field]model.FieldDiff
	}
	var sources []auditSource
	for rows.Next() {
		var src auditSource
		var fieldDiffs string
		if err := rows.Scan(&src.rowNo, &src.businessKey, &src.entityType, &fieldDiffs); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan committable row: %w", err)
		}
		if err := json.Unmarshal([]byte(fieldDiffs), &src.diffs); err != nil {
			rows.Close()
			return fmt.Errorf("failed to decode field diffs: %w", err)
		}
		sources = append(sources, src)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO import_change_audits (
			import_log_id, row_no, entity_type, business_key,
			field_name, before_value, after_value, applied
		) VALUES (?, ?, ?, ?, ?, ?, ?, 1)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare audit insert: %w", err)
	}
	defer stmt.Close()

	for _, src := range sources {
		for field, diff := range src.diffs {
			beforeValue, err := json.Marshal(diff.Before)
			if err != nil {
				return fmt.Errorf("failed to marshal audit before value: %w", err)
			}
			afterValue, err := json.Marshal(diff.After)
			if err != nil {
				return fmt.Errorf("failed to marshal audit after value: %w", err)
			}
			if _, err := stmt.Exec(logID, src.rowNo, src.entityType, src.businessKey,
				string(field), string(beforeValue), string(afterValue)); err != nil {
				return fmt.Errorf("failed to insert audit row: %w", err)
			}
		}
	}

	if _, err := tx.Exec(`
		UPDATE import_logs SET status = ?, confirmed_at = CURRENT_TIMESTAMP WHERE id = ?
	`, string(model.StatusConfirmed), logID); err != nil {
		return fmt.Errorf("failed to update import log status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import log: %w", err)
	}
	return nil
}

// RollbackImportLog 回滚已确认的导入：confirmed → rolled_back，
// 审计记录标记为未生效
func (s *Store) RollbackImportLog(logID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	status, err := currentStatus(tx, logID)
	if err != nil {
		return err
	}
	if status != model.StatusConfirmed {
		return fmt.Errorf("%w: %s", ErrBadStatus, status)
	}

	if _, err := tx.Exec(`
		UPDATE import_change_audits SET applied = 0 WHERE import_log_id = ?
	`, logID); err != nil {
		return fmt.Errorf("failed to unapply audits: %w", err)
	}
	if _, err := tx.Exec(`
		UPDATE import_logs SET status = ?, rolled_back_at = CURRENT_TIMESTAMP WHERE id = ?
	`, string(model.StatusRolledBack), logID); err != nil {
		return fmt.Errorf("failed to update import log status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to roll back import log: %w", err)
	}
	return nil
}

// GetChangeAudits 读取一次导入的字段级审计
func (s *Store) GetChangeAudits(logID string) ([]model.ChangeAudit, error) {
	if _, err := s.GetImportLog(logID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT row_no, entity_type, COALESCE(business_key, ''), field_name,
		       COALESCE(before_value, 'null'), COALESCE(after_value, 'null'),
		       applied, COALESCE(error_message, ''), created_at
		FROM import_change_audits
		WHERE import_log_id = ?
		ORDER BY row_no ASC, field_name ASC
	`, logID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audits: %w", err)
	}
	defer rows.Close()

	var audits []model.ChangeAudit
	for rows.Next() {
		var audit model.ChangeAudit
		var fieldName, beforeValue, afterValue string
		var applied int
		if err := rows.Scan(&audit.RowNo, &audit.EntityType, &audit.BusinessKey,
			&fieldName, &beforeValue, &afterValue, &applied,
			&audit.ErrorMessage, &audit.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		audit.FieldName = model.Field(fieldName)
		if err := json.Unmarshal([]byte(beforeValue), &audit.BeforeValue); err != nil {
			return nil, fmt.Errorf("failed to decode audit before value: %w", err)
		}
		if err := json.Unmarshal([]byte(afterValue), &audit.AfterValue); err != nil {
			return nil, fmt.Errorf("failed to decode audit after value: %w", err)
		}
		audit.Applied = applied != 0
		audits = append(audits, audit)
	}
	return audits, rows.Err()
}

// CountImportLogs 统计日志总数与最近一次导入时间
func (s *Store) CountImportLogs() (total int, lastImportAt string, err error) {
	row := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(MAX(created_at), '') FROM import_logs
	`)
	if err := row.Scan(&total, &lastImportAt); err != nil {
		return 0, "", fmt.Errorf("failed to count import logs: %w", err)
	}
	return total, lastImportAt, nil
}

// currentStatus 读取日志当前状态；不存在返回 ErrLogNotFound
func currentStatus(tx *sql.Tx, logID string) (model.ImportStatus, error) {
	var status string
	err := tx.QueryRow(`SELECT status FROM import_logs WHERE id = ?`, logID).Scan(&status)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: %s", ErrLogNotFound, logID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read import log status: %w", err)
	}
	return model.ImportStatus(status), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImportLog(scanner rowScanner) (*model.ImportLog, error) {
	var log model.ImportLog
	var status, headerMapping string
	err := scanner.Scan(&log.ID, &log.SourceFileName, &log.FilePath, &log.FileSHA256,
		&status, &log.Summary.TotalRows, &log.Summary.NewRows, &log.Summary.ChangedRows,
		&log.Summary.UnchangedRows, &log.Summary.ErrorRows, &headerMapping,
		&log.CreatedAt, &log.ConfirmedAt, &log.RolledBackAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w", ErrLogNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan import log: %w", err)
	}
	log.Status = model.ImportStatus(status)
	if err := json.Unmarshal([]byte(headerMapping), &log.HeaderMapping); err != nil {
		return nil, fmt.Errorf("failed to decode header mapping: %w", err)
	}
	return &log, nil
}

func marshalNullableRow(row model.Row) (any, error) {
	if row == nil {
		return nil, nil
	}
	data, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
