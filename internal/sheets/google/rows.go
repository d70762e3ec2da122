package google

import (
	"fmt"
	"strings"

	"chitieu/internal/storage"
)

const sheetTimeLayout = "2006-01-02 15:04:05"

var journalHeader = []any{"Thời điểm", "Đối tượng", "Thao tác", "Mã", "Mô tả", "Mã nhật ký"}

var resourceLabels = map[string]string{
	"transaction": "Giao dịch",
	"wallet":      "Nguồn tiền",
	"category":    "Danh mục",
	"budget":      "Ngân sách",
}

var operationLabels = map[string]string{
	"create": "Thêm",
	"update": "Cập nhật",
	"delete": "Xóa",
}

func label(labels map[string]string, key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	return key
}

// activityRow lays an entry out in header order. Times are UTC.
func activityRow(e storage.ActivityEntry) []any {
	return []any{
		e.OccurredAt.UTC().Format(sheetTimeLayout),
		label(resourceLabels, e.Resource),
		label(operationLabels, e.Operation),
		e.ResourceID,
		e.Summary,
		e.ID,
	}
}

// hasHeader reports whether the first row already starts with the journal
// header.
func hasHeader(values [][]any) bool {
	if len(values) == 0 || len(values[0]) == 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(fmt.Sprint(values[0][0])), journalHeader[0].(string))
}
