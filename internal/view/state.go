// Package view holds the per-screen state of the application: the policy
// listing with its filters, the policy detail with its share actions, and
// the feedback form. Each view exposes its state as a single State value so
// front ends render exactly one of loading, error, not-found, empty or ready.
package view

// State is the render state of a view.
type State int

const (
	// StateLoading means a fetch is pending.
	StateLoading State = iota
	// StateError means the last fetch failed; a retry is possible.
	StateError
	// StateNotFound means the requested record does not exist.
	StateNotFound
	// StateEmpty means the fetch succeeded but nothing is displayed.
	StateEmpty
	// StateReady means there is data to display.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateNotFound:
		return "not_found"
	case StateEmpty:
		return "empty"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// User-facing messages.
const (
	MsgFetchFailed     = "정책 정보를 불러오는 데 실패했습니다. 다시 시도해주세요."
	MsgNotFound        = "정책을 찾을 수 없습니다."
	MsgNoResults       = "검색 결과가 없습니다."
	MsgLinkCopied      = "링크가 복사되었습니다!"
	MsgLinkCopyFailed  = "링크 복사에 실패했습니다."
	MsgFeedbackEmpty   = "피드백 내용을 입력해주세요."
	MsgFeedbackFailed  = "피드백 제출에 실패했습니다. 다시 시도해주세요."
	MsgFeedbackSuccess = "피드백이 성공적으로 제출되었습니다. 감사합니다!"
)
