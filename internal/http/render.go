package http

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"chitieu/internal/core"
	"chitieu/internal/log"
	"chitieu/internal/middleware/trace"
	"chitieu/internal/ui"
)

var tabLabels = map[core.TxKind]string{
	core.KindExpense:  "Chi tiêu",
	core.KindIncome:   "Thu nhập",
	core.KindTransfer: "Chuyển khoản",
}

var activityResources = map[string]string{
	"transaction": "Giao dịch",
	"wallet":      "Nguồn tiền",
	"category":    "Danh mục",
	"budget":      "Ngân sách",
}

var activityOperations = map[string]string{
	log.OpCreate: "Thêm",
	log.OpUpdate: "Cập nhật",
	log.OpDelete: "Xóa",
}

var confirmPrompts = map[string]string{
	"transaction": ui.ConfirmTxDelete,
	"wallet":      ui.ConfirmWalletDelete,
	"category":    ui.ConfirmCategoryDelete,
	"budget":      ui.ConfirmBudgetDelete,
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"tabLabel":     func(k core.TxKind) string { return tabLabels[k] },
		"clock":        func(t time.Time) string { return t.Local().Format("15:04 02/01") },
		"activity":     activityLabel,
		"chatGreeting": func() string { return ui.ChatGreeting },
		"noChartData":  func() string { return ui.MsgNoChartData },
		"confirm":      func(what string) string { return confirmPrompts[what] },
		"selected": func(a, b string) template.HTMLAttr {
			if a == b {
				return "selected"
			}
			return ""
		},
	}
}

// activityLabel words a journal entry, e.g. "Xóa Ngân sách".
func activityLabel(resource, op string) string {
	verb, ok := activityOperations[op]
	if !ok {
		verb = op
	}
	noun, ok := activityResources[resource]
	if !ok {
		noun = resource
	}
	return verb + " " + noun
}

// dict builds a map from alternating keys and values so one template can
// hand several values to another.
// fragment accumulates several named templates into one response body,
// typically a main target plus out-of-band swaps.
type fragment struct {
	s   *Server
	buf bytes.Buffer
	err error
}

func (s *Server) fragment() *fragment { return &fragment{s: s} }

func (f *fragment) add(name string, data any) *fragment {
	if f.err != nil {
		return f
	}
	f.err = f.s.templates.ExecuteTemplate(&f.buf, name, data)
	return f
}

// send writes the accumulated HTML through b, or a 500 when a template
// failed.
func (f *fragment) send(w http.ResponseWriter, r *http.Request, b *HTMXResponseBuilder) {
	if f.err != nil {
		f.s.logger.ErrorContext(r.Context(), "Template execution failed",
			log.FieldOperation, log.OpRender,
			log.FieldPath, r.URL.Path,
			log.FieldError, f.err)
		InternalServerError(renderFailure(r)).Write(w)
		return
	}
	if b == nil {
		b = NewHTMXResponse()
	}
	b.BodyHTML(f.buf.String()).Write(w)
}

// render writes a single template as a full response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	s.fragment().add(name, data).send(w, r, nil)
}

// expired answers a request whose view is gone; the page reloads and gets
// a fresh one.
func (s *Server) expired(w http.ResponseWriter, r *http.Request) {
	s.logger.DebugContext(r.Context(), "View expired", log.FieldPath, r.URL.Path)
	NewHTMXResponse().Refresh().Status(http.StatusOK).Write(w)
}

// renderFailure names the request id so a report from the user can be
// matched to the log line.
func renderFailure(r *http.Request) string {
	if id := trace.RequestID(r); id != "" {
		return "Lỗi hiển thị trang (mã " + id + ")"
	}
	return "Lỗi hiển thị trang"
}
