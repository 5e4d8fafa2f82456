package models

import "time"

// User is a teacher account. Admins additionally manage batches, students and users.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	Email     string `gorm:"size:100;uniqueIndex;not null"`
	Password  string `gorm:"size:100;not null"`
	IsAdmin   bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Subjects []Subject `gorm:"foreignKey:TeacherID"`
	Lectures []Lecture `gorm:"foreignKey:TeacherID"`
}

type Batch struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:50;uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Students []Student
}

type Student struct {
	ID               uint   `gorm:"primaryKey"`
	StudentName      string `gorm:"size:100;not null"`
	EnrollmentNumber string `gorm:"size:20;uniqueIndex;not null"`
	BatchID          uint   `gorm:"not null;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Batch Batch
}

type Subject struct {
	ID          uint   `gorm:"primaryKey"`
	SubjectName string `gorm:"size:100;not null"`
	TeacherID   uint   `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Teacher User
}

type Lecture struct {
	ID        uint      `gorm:"primaryKey"`
	Timestamp time.Time `gorm:"not null;index"`
	SubjectID uint      `gorm:"not null;index"`
	TeacherID uint      `gorm:"not null;index"`
	BatchID   uint      `gorm:"not null;index"`

	Subject    Subject
	Teacher    User
	Batch      Batch
	Attendance []Attendance
}

// Attendance is one presence record; (lecture, student) is unique.
type Attendance struct {
	ID        uint `gorm:"primaryKey"`
	Status    bool `gorm:"not null"`
	LectureID uint `gorm:"not null;uniqueIndex:idx_attendance_lecture_student"`
	StudentID uint `gorm:"not null;uniqueIndex:idx_attendance_lecture_student;index"`

	Student Student
}

func (Attendance) TableName() string {
	return "attendance"
}

// All lists every model in migration order.
func All() []any {
	return []any{&User{}, &Batch{}, &Student{}, &Subject{}, &Lecture{}, &Attendance{}}
}
