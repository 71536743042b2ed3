// Package locale holds the user-facing wording of the interview.
package locale

import (
	"fmt"
	"strings"
)

// Messages is the catalog of fixed strings shown to the user.
type Messages struct {
	Tag string

	Yes string
	No  string

	// Refusal is the advisory shown when the service cannot decide safely.
	Refusal string

	// ConclusionFormat is a fmt pattern receiving the conclusion label.
	ConclusionFormat string

	// FollowUp labels the terminal action pointing at the detailed result.
	FollowUp string

	TransportFailure string
	Retry            string

	NumberPrompt   string
	NumberInvalid  string
	NumberRange    string
	ChoicePrompt   string
	ChoiceInvalid  string
	BooleanPrompt  string
	BooleanInvalid string
	Submit         string

	// InputRejected is shown when a line fails sanitation (too long, invalid text).
	InputRejected string
}

// Vietnamese is the default catalog.
var Vietnamese = Messages{
	Tag:              "vi",
	Yes:              "Có",
	No:               "Không",
	Refusal:          "Xin lỗi, hiện tại hệ thống chưa đủ dữ liệu để đưa ra nhận định an toàn. Bạn nên trao đổi trực tiếp với bác sĩ để được thăm khám đầy đủ hơn.",
	ConclusionFormat: "Dựa trên các thông tin bạn cung cấp, mình đã tổng hợp được một kết luận sơ bộ: **%s**.",
	FollowUp:         "Xem giải thích chi tiết và khuyến nghị như bác sĩ tư vấn",
	TransportFailure: "Xin lỗi, mình chưa kết nối được với hệ thống. Bạn có thể thử lại.",
	Retry:            "Thử lại",
	NumberPrompt:     "Nhập số",
	NumberInvalid:    "Vui lòng nhập một số hợp lệ.",
	NumberRange:      "Giá trị phải nằm trong khoảng %s.",
	ChoicePrompt:     "Chọn một phương án",
	ChoiceInvalid:    "Vui lòng chọn một phương án trong danh sách.",
	BooleanPrompt:    "Có / Không",
	BooleanInvalid:   "Vui lòng trả lời Có hoặc Không.",
	Submit:           "Gửi",
	InputRejected:    "Câu trả lời quá dài hoặc chứa ký tự không hợp lệ. Vui lòng nhập lại.",
}

// English catalog.
var English = Messages{
	Tag:              "en",
	Yes:              "Yes",
	No:               "No",
	Refusal:          "Sorry, the system does not have enough information to give a safe assessment. Please talk to a doctor directly for a full examination.",
	ConclusionFormat: "Based on what you told me, here is a preliminary conclusion: **%s**.",
	FollowUp:         "See the detailed explanation and recommendations",
	TransportFailure: "Sorry, I could not reach the service. You can try again.",
	Retry:            "Try again",
	NumberPrompt:     "Enter a number",
	NumberInvalid:    "Please enter a valid number.",
	NumberRange:      "The value must be within %s.",
	ChoicePrompt:     "Pick one option",
	ChoiceInvalid:    "Please pick one of the listed options.",
	BooleanPrompt:    "Yes / No",
	BooleanInvalid:   "Please answer Yes or No.",
	Submit:           "Send",
	InputRejected:    "That answer is too long or contains invalid characters. Please try again.",
}

// Lookup returns the catalog for a language tag such as "vi" or "en-US".
func Lookup(tag string) (Messages, error) {
	lang, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(tag)), "-")
	switch lang {
	case "", "vi":
		return Vietnamese, nil
	case "en":
		return English, nil
	default:
		return Messages{}, fmt.Errorf("unsupported locale %q", tag)
	}
}

// Conclusion renders the conclusion sentence for label.
func (m Messages) Conclusion(label string) string {
	return fmt.Sprintf(m.ConclusionFormat, label)
}

// BoolText renders a boolean answer.
func (m Messages) BoolText(v bool) string {
	if v {
		return m.Yes
	}
	return m.No
}
