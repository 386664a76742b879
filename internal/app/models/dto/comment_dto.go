package dto

// CreateCommentRequest carries a new comment. The author is always the
// authenticated caller.
type CreateCommentRequest struct {
	CurriculumID int64  `json:"curriculumId" binding:"required" example:"1"`
	Content      string `json:"content" binding:"required" example:"The weighting seems off."`
}

// UpdateCommentRequest carries the replacement comment content.
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required" example:"The weighting looks fine after the fix."`
}
