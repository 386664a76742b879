package dto

// CreateCategoryRequest carries a new category name.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required" example:"Information Technology"`
}

// CreateCourseRequest carries a new course.
type CreateCourseRequest struct {
	Name       string `json:"name" binding:"required" example:"Modern Web Technologies"`
	Credits    int    `json:"credits" binding:"required,gt=0" example:"3"`
	CategoryID int64  `json:"categoryId" binding:"required" example:"1"`
}

// UpdateCourseRequest carries course fields to change.
type UpdateCourseRequest struct {
	Name       *string `json:"name"`
	Credits    *int    `json:"credits"`
	CategoryID *int64  `json:"categoryId"`
}

// CourseFilter narrows course listings. Zero values mean "no filter".
type CourseFilter struct {
	Query      string // case-insensitive name substring
	CategoryID int64
}

// CreateCurriculumRequest carries a new curriculum. The owner is the
// authenticated caller.
type CreateCurriculumRequest struct {
	CourseID    int64  `json:"courseId" binding:"required" example:"1"`
	Title       string `json:"title" binding:"required" example:"Web Technologies 2024-2028"`
	Description string `json:"description" binding:"required"`
	StartYear   int    `json:"startYear" binding:"required" example:"2024"`
	EndYear     int    `json:"endYear" binding:"required" example:"2028"`
}

// UpdateCurriculumRequest carries curriculum fields to change.
type UpdateCurriculumRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	StartYear   *int    `json:"startYear"`
	EndYear     *int    `json:"endYear"`
}

// CreateSyllabusRequest is bound from the multipart syllabus form; the
// attachment file is read separately.
type CreateSyllabusRequest struct {
	Title        string `form:"title" binding:"required" example:"Week-by-week plan"`
	Content      string `form:"content" binding:"required"`
	CurriculumID *int64 `form:"curriculumId"`
}

// UpdateSyllabusRequest carries syllabus fields to change.
type UpdateSyllabusRequest struct {
	Title        *string `form:"title"`
	Content      *string `form:"content"`
	CurriculumID *int64  `form:"curriculumId"`
}

// SyllabusFilter narrows syllabus listings across the curriculum and
// course relations. Zero values mean "no filter".
type SyllabusFilter struct {
	Title         string
	CourseName    string
	CourseCredits int
	OwnerUsername string
	StartYear     int
	EndYear       int
}
