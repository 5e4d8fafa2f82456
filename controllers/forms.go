package controllers

type RegistrationForm struct {
	Name            string `form:"name" binding:"required,notblank,min=2,max=100"`
	Email           string `form:"email" binding:"required,email"`
	Password        string `form:"password" binding:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" binding:"required,eqfield=Password"`
	IsAdmin         bool   `form:"is_admin"`
}

type LoginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

type SubjectForm struct {
	SubjectName string `form:"subject_name" binding:"required,notblank,min=2,max=100"`
}

type BatchForm struct {
	BatchName string `form:"batch_name" binding:"required,notblank,min=2,max=50"`
}

type StudentForm struct {
	StudentName      string `form:"student_name" binding:"required,notblank,min=2,max=100"`
	EnrollmentNumber string `form:"enrollment_number" binding:"required,len=12,enrollment"`
	Batch            uint   `form:"batch" binding:"required"`
}

// LectureForm also backs the attendance report filter.
type LectureForm struct {
	Subject uint `form:"subject" binding:"required"`
	Batch   uint `form:"batch" binding:"required"`
}

type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Phone   string `json:"phone"`
	Message string `json:"message" binding:"required"`
}
