package school

import "errors"

var (
	// errors
	ErrNotFound       = errors.New("record not found")
	ErrUsernameExists = errors.New("a user with this username already exists")
)

// Store owns all entity records. Creates are single-step appends that assign
// fresh ids; lookups return ErrNotFound rather than raising. There are no
// delete operations. Implementations must preserve insertion order on
// filtered reads.
type Store interface {
	// users
	CreateUser(usr User) (User, error)
	UserByID(id string) (User, error)
	UserByUsername(username string) (User, error)
	// UsersByRole filters by exact role and institution match, preserving the
	// relative insertion order of matching users.
	UsersByRole(role Role, institutionCode string) ([]User, error)
	UsernameExists(username string) (bool, error)
	// UpdateUserPassword sets the password hash and clears IsFirstLogin.
	UpdateUserPassword(id string, hash []byte) (User, error)

	// institutions & classes
	CreateInstitution(inst Institution) (Institution, error)
	InstitutionByCode(code string) (Institution, error)
	// CreateClass appends the class and records its id on the owning institution.
	CreateClass(cls Class) (Class, error)
	ClassByID(id string) (Class, error)
	ClassesByInstitution(institutionCode string) ([]Class, error)
	// relationship links; both sides are kept consistent
	AssignFacultyToClass(classID, facultyID string) error
	EnrollStudent(classID, studentID string) error
	LinkParent(parentID, studentID string) error

	// messages
	CreateMessage(msg Message) (Message, error)
	MessagesForUser(userID string) ([]Message, error)
	MarkMessageRead(id string) (Message, error)

	// meetings
	CreateMeeting(m Meeting) (Meeting, error)
	MeetingsForUser(userID string) ([]Meeting, error)
	UpdateMeetingStatus(id string, status MeetingStatus) (Meeting, error)

	// announcements
	CreateAnnouncement(a Announcement) (Announcement, error)
	Announcements() ([]Announcement, error)
}
