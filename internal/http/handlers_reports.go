package http

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chitieu/internal/core"
	"chitieu/internal/log"
	"chitieu/internal/ui"
)

const exportBasePath = "/reports/export/"

type reportsPageData struct {
	Page
	Filter  core.ReportFilter
	Wallets []core.Wallet
	AllLbl  string
}

type reportBodyData struct {
	View    ui.ReportView
	Exports []ui.ExportLink
}

func readReportFilter(src fieldSource) core.ReportFilter {
	return core.ReportFilter{
		TimeRange: core.TimeRange(src.Get("time_range")),
		WalletID:  src.Get("wallet_id"),
		Type:      core.TxKind(src.Get("type")),
	}.Normalize()
}

func (s *Server) handleReportsPage(w http.ResponseWriter, r *http.Request) {
	wallets, err := s.backend.ListWallets(r.Context())
	if err != nil {
		s.backendFailed(r.Context(), "Failed to load wallets", err)
	}
	v := reportView{Board: ui.NewReportBoard(), Wallets: wallets}

	page := Page{Title: "Báo cáo", Active: "reports"}
	page.ViewID = s.reportViews.open(v)
	page.ChatView = s.chatViews.open(ui.NewTranscript())
	s.render(w, r, "page_reports", reportsPageData{
		Page:    page,
		Filter:  v.Board.Filter,
		Wallets: wallets,
		AllLbl:  ui.AllWalletsLbl,
	})
}

// handleReportData fetches the dashboard for the submitted filter. Every
// fetch takes a sequence number; a response that lost the race to a newer
// one, or that failed, answers 204 so the charts on screen stay.
func (s *Server) handleReportData(w http.ResponseWriter, r *http.Request) {
	id := viewID(r)
	filter := readReportFilter(queryFields(r))

	var seq uint64
	if _, ok := s.reportViews.modify(id, func(v *reportView) {
		v.Board, seq = v.Board.Issue(filter)
	}); !ok {
		s.expired(w, r)
		return
	}

	rep, err := s.backend.ReportData(r.Context(), filter)
	if err != nil {
		s.backendFailed(r.Context(), "Failed to load report", err)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	accepted := false
	s.reportViews.modify(id, func(v *reportView) {
		v.Board, accepted = v.Board.Accept(seq)
	})
	if !accepted {
		s.appMetrics.staleReports.Inc()
		s.logger.DebugContext(r.Context(), "Discarding stale report response",
			log.FieldView, id, log.FieldSeq, seq)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.render(w, r, "report_body", reportBodyData{
		View:    ui.NewReportView(rep),
		Exports: ui.ExportLinks(exportBasePath, filter),
	})
}

// handleExportReport streams the backend document to the browser.
func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	kind, err := core.ParseExportKind(chi.URLParam(r, "kind"))
	if err != nil {
		NotFoundError("Không hỗ trợ định dạng này").Write(w)
		return
	}
	filter := readReportFilter(queryFields(r))

	doc, err := s.backend.ExportReport(r.Context(), kind, filter)
	if err != nil {
		s.backendFailed(r.Context(), "Failed to export report", err)
		ErrorResponse(http.StatusBadGateway, failureText(err, "Không thể xuất báo cáo.")).Write(w)
		return
	}
	defer doc.Body.Close()

	if doc.ContentType != "" {
		w.Header().Set("Content-Type", doc.ContentType)
	}
	if doc.ContentDisposition != "" {
		w.Header().Set("Content-Disposition", doc.ContentDisposition)
	}
	w.WriteHeader(http.StatusOK)
	n, err := io.Copy(w, doc.Body)
	if err != nil {
		s.logger.WarnContext(r.Context(), "Export stream interrupted",
			log.FieldOperation, log.OpExport, log.FieldCount, n, log.FieldError, err)
		return
	}
	s.logger.InfoContext(r.Context(), "Report exported",
		log.FieldOperation, log.OpExport, log.FieldResource, string(kind), log.FieldCount, n)
}
