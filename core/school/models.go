package school

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Roles. The set is closed: every role-dependent rule in this package
// switches exhaustively over these four values.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleFaculty Role = "faculty"
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
)

var AllRoles = []Role{RoleAdmin, RoleFaculty, RoleStudent, RoleParent}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFaculty, RoleStudent, RoleParent:
		return true
	}
	return false
}

type (
	// User is any portal account. Exactly one of the profile pointers is set,
	// matching Role; admins carry none.
	User struct {
		ID              string    `json:"id"`
		Username        string    `json:"username"`
		PasswordHash    []byte    `json:"-"`
		FirstName       string    `json:"first_name"`
		LastName        string    `json:"last_name"`
		Email           string    `json:"email,omitempty"`
		Phone           string    `json:"phone,omitempty"`
		Role            Role      `json:"role"`
		InstitutionCode string    `json:"institution_code"`
		IsFirstLogin    bool      `json:"is_first_login"`
		CreatedAt       time.Time `json:"created_at"` // UTC

		Faculty *FacultyProfile `json:"faculty,omitempty"`
		Student *StudentProfile `json:"student,omitempty"`
		Parent  *ParentProfile  `json:"parent,omitempty"`
	}

	FacultyProfile struct {
		ClassIDs []string `json:"class_ids"`
		Subjects []string `json:"subjects"`
	}

	StudentProfile struct {
		ClassID          string   `json:"class_id"`
		ParentIDs        []string `json:"parent_ids"`
		EnrollmentNumber string   `json:"enrollment_number"`
	}

	ParentProfile struct {
		StudentIDs []string `json:"student_ids"`
		Relation   string   `json:"relation"` // Father, Mother, Guardian, ...
	}

	Institution struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Code    string `json:"code"` // unique
		Address string `json:"address"`
		AdminID string `json:"admin_id"`
		// ClassIDs are ids only; records are owned by the store and looked up
		// on demand, never cached.
		ClassIDs []string `json:"class_ids"`
	}

	Class struct {
		ID              string   `json:"id"`
		Name            string   `json:"name"` // e.g. "10th Grade A"
		Grade           string   `json:"grade"`
		Section         string   `json:"section"`
		InstitutionCode string   `json:"institution_code"`
		FacultyIDs      []string `json:"faculty_ids"`
		StudentIDs      []string `json:"student_ids"`
	}

	// Message is immutable after creation except the Read flag.
	Message struct {
		ID           string    `json:"id"`
		SenderID     string    `json:"sender_id"`
		RecipientIDs []string  `json:"recipient_ids"`
		Content      string    `json:"content"`
		Timestamp    time.Time `json:"timestamp"`
		Read         bool      `json:"read"`
	}

	MeetingStatus string

	Meeting struct {
		ID             string        `json:"id"`
		Title          string        `json:"title"`
		Description    string        `json:"description,omitempty"`
		CreatorID      string        `json:"creator_id"`
		ParticipantIDs []string      `json:"participant_ids"`
		StartTime      time.Time     `json:"start_time"`
		EndTime        time.Time     `json:"end_time"`
		Location       string        `json:"location"`
		IsOnline       bool          `json:"is_online"`
		Link           string        `json:"link,omitempty"`
		Status         MeetingStatus `json:"status"`
	}

	// TargetGroups is the audience descriptor attached to an Announcement:
	// role flags plus an explicit class list.
	TargetGroups struct {
		Faculty  bool     `json:"faculty"`
		Students bool     `json:"students"`
		Parents  bool     `json:"parents"`
		ClassIDs []string `json:"class_ids"`
	}

	Announcement struct {
		ID           string       `json:"id"`
		Title        string       `json:"title"`
		Content      string       `json:"content"`
		CreatorID    string       `json:"creator_id"`
		TargetGroups TargetGroups `json:"target_groups"`
		Timestamp    time.Time    `json:"timestamp"`
		Important    bool         `json:"important"`
	}
)

const (
	MeetingScheduled MeetingStatus = "scheduled"
	MeetingCancelled MeetingStatus = "cancelled"
	MeetingCompleted MeetingStatus = "completed"
)

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u User) IsFaculty() bool { return u.Role == RoleFaculty }
func (u User) IsStudent() bool { return u.Role == RoleStudent }
func (u User) IsParent() bool  { return u.Role == RoleParent }

func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// HasRecipient reports whether the message was addressed to the given user.
func (m Message) HasRecipient(userID string) bool {
	for _, id := range m.RecipientIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// TargetsClass reports whether the announcement explicitly targets the given class.
func (a Announcement) TargetsClass(classID string) bool {
	for _, id := range a.TargetGroups.ClassIDs {
		if id == classID {
			return true
		}
	}
	return false
}
