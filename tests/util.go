package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tailcraft/avialearn/core/assignment"
	"github.com/tailcraft/avialearn/core/enrollment"
	"github.com/tailcraft/avialearn/core/instructor"
	"github.com/tailcraft/avialearn/core/quiz"
	"github.com/tailcraft/avialearn/core/student"
	"github.com/tailcraft/avialearn/core/ticket"
)

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	name, email, licenseGoal, status string,
	createdAt ...time.Time,
) student.Student {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	std, err := repo.CreateStudent(student.Student{
		Name:        name,
		Email:       email,
		LicenseGoal: licenseGoal,
		Status:      status,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

func CreateInstructor(
	t *testing.T,
	repo instructor.Repository,
	name, email string,
	ratings []string,
	status string,
) instructor.Instructor {
	tstamp := time.Now().UTC()
	ins, err := repo.CreateInstructor(instructor.Instructor{
		Name:      name,
		Email:     email,
		Ratings:   ratings,
		Status:    status,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateInstructor() failed: %v", err)
	}
	return ins
}

func CreateEnrollment(
	t *testing.T,
	repo enrollment.Repository,
	studentID int,
	courseID, courseTitle, status string,
) enrollment.Enrollment {
	tstamp := time.Now().UTC()
	enr, err := repo.CreateEnrollment(enrollment.Enrollment{
		StudentID:   studentID,
		CourseID:    courseID,
		CourseTitle: courseTitle,
		Status:      status,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	})
	if err != nil {
		t.Fatalf("CreateEnrollment() failed: %v", err)
	}
	return enr
}

func CreateAssignment(
	t *testing.T,
	repo assignment.Repository,
	courseID, title, status string,
	maxPoints int,
) assignment.Assignment {
	tstamp := time.Now().UTC()
	asg, err := repo.CreateAssignment(assignment.Assignment{
		CourseID:  courseID,
		Title:     title,
		MaxPoints: maxPoints,
		Status:    status,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return asg
}

// NewMCQuestion is a minimal valid multiple-choice question for fixtures.
func NewMCQuestion(prompt string, points int) *quiz.Question {
	return &quiz.Question{
		ID:     uuid.NewString(),
		Type:   quiz.QuestionMultipleChoice,
		Prompt: prompt,
		Points: points,
		Body:   quiz.MultipleChoice{Options: []string{"A", "B", "C", "D"}, CorrectIndex: 0},
	}
}

func CreateQuiz(
	t *testing.T,
	repo quiz.Repository,
	courseID, title, status string,
	questions ...*quiz.Question,
) quiz.Quiz {
	tstamp := time.Now().UTC()
	var total int
	for _, q := range questions {
		total += q.Points
	}
	qz, err := repo.CreateQuiz(quiz.Quiz{
		CourseID:    courseID,
		Title:       title,
		Status:      status,
		Questions:   questions,
		TotalPoints: total,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	})
	if err != nil {
		t.Fatalf("CreateQuiz() failed: %v", err)
	}
	return qz
}

func CreateTicket(
	t *testing.T,
	repo ticket.Repository,
	subject, requesterName, requesterEmail, priority, status string,
) ticket.Ticket {
	tstamp := time.Now().UTC()
	tkt, err := repo.CreateTicket(ticket.Ticket{
		Subject:        subject,
		Message:        "help needed",
		RequesterName:  requesterName,
		RequesterEmail: requesterEmail,
		Category:       ticket.CategoryOther,
		Priority:       priority,
		Status:         status,
		CreatedAt:      tstamp,
		UpdatedAt:      tstamp,
	})
	if err != nil {
		t.Fatalf("CreateTicket() failed: %v", err)
	}
	return tkt
}
