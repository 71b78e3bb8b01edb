package dto

// StartSessionRequest opens an exam session for a student.
type StartSessionRequest struct {
	TestID       uint   `json:"testId" binding:"required"`
	StudentName  string `json:"studentName" binding:"required"`
	StudentEmail string `json:"studentEmail" binding:"required"`
}

type RecordAnswerRequest struct {
	QuestionID uint `json:"questionId" binding:"required"`
	AnswerID   uint `json:"answerId" binding:"required"`
}

// FinishSessionRequest carries the client-observed exam time. Older clients
// send timeTakenSeconds instead of elapsedSeconds.
type FinishSessionRequest struct {
	ElapsedSeconds   *int `json:"elapsedSeconds"`
	TimeTakenSeconds *int `json:"timeTakenSeconds"`
}

// Seconds returns the reported elapsed time, 0 when the client sent none.
func (r FinishSessionRequest) Seconds() int {
	switch {
	case r.ElapsedSeconds != nil:
		return *r.ElapsedSeconds
	case r.TimeTakenSeconds != nil:
		return *r.TimeTakenSeconds
	default:
		return 0
	}
}
