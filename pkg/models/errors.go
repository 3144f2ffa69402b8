package models

import (
	"fmt"
	"strings"
)

// FieldError 入力フィールド単位のエラー（該当フィールドの横に表示する）
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError ネットワーク呼び出し前に検出するローカル検証エラー
// 1つでも含まれる場合、送信処理は一切進めない
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// RetrievalError 読み取り系リモート操作の失敗
// 致命的ではなく、呼び出し側は空の結果に縮退して表示を継続する
type RetrievalError struct {
	Op  string
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("%s: retrieval failed: %v", e.Op, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// SubmissionError 書き込み系リモート操作の失敗
// リトライ可能：入力値は保持し、失敗通知だけを出す
type SubmissionError struct {
	Op  string
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("%s: submission failed: %v", e.Op, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
