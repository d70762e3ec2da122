// Package ui holds the state and view models of the finance pages. It is
// independent of HTTP: handlers load data, hand it to these types and render
// the result.
package ui

// User-facing notification texts.
const (
	MsgTxCreated        = "Thêm giao dịch thành công!"
	MsgUpdated          = "Cập nhật thành công!"
	MsgTxDeleteFailed   = "Xóa thất bại."
	MsgWalletCreated    = "Thêm ví thành công!"
	MsgCategoryCreated  = "Thêm danh mục thành công!"
	MsgGenericFailure   = "Lỗi xảy ra"
	MsgNoCategoryChosen = "Vui lòng chọn ít nhất 1 danh mục!"
	MsgBudgetCreateFail = "Không thể tạo ngân sách."
	MsgConnectionFailed = "Lỗi kết nối đến máy chủ."
	MsgBudgetDeleteFail = "Có lỗi xảy ra khi xóa."
	MsgBudgetLoadFail   = "Có lỗi xảy ra khi tải dữ liệu."
)

// Confirmation prompts for destructive actions.
const (
	ConfirmTxDelete       = "Bạn có chắc muốn xóa giao dịch này? Tiền sẽ được hoàn lại vào ví."
	ConfirmWalletDelete   = "Xóa ví này?"
	ConfirmCategoryDelete = "Xóa danh mục này?"
	ConfirmBudgetDelete   = "Bạn có chắc chắn muốn xóa ngân sách này?"
)

// ErrorPrefixed formats a backend failure as "Lỗi: <message>", falling back
// to fallback when the server gave no message.
func ErrorPrefixed(message, fallback string) string {
	if message == "" {
		message = fallback
	}
	return "Lỗi: " + message
}
