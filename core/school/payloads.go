package school

import (
	"time"

	"github.com/trezcool/darasa/core"
)

// NewInstitution contains information needed to register a new Institution.
// Registering an institution also provisions its admin account.
type NewInstitution struct {
	Name    string `json:"name" validate:"required"`
	Code    string `json:"code" validate:"required,min=4,alphanum"`
	Address string `json:"address"`
}

func (ni *NewInstitution) Validate(svc *Service) error {
	ni.Name = core.CleanString(ni.Name)
	ni.Code = normalizeCode(ni.Code)
	ni.Address = core.CleanString(ni.Address)

	if err := core.Validate.Struct(ni); err != nil {
		return err
	}
	return svc.checkCodeUniqueness(ni.Code)
}

// NewUser contains information needed to create a new User.
// Username is generated from the role, institution and names when omitted;
// Password falls back to the configured first-login default.
type NewUser struct {
	Username        string `json:"username" validate:"omitempty,min=6,alphanum_"`
	Password        string `json:"password" validate:"omitempty,min=8"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone"`
	Role            Role   `json:"role" validate:"required,role"`
	InstitutionCode string `json:"institution_code" validate:"required"`

	// role-specific fields
	Subjects         []string `json:"subjects,omitempty"`          // faculty
	ClassID          string   `json:"class_id,omitempty"`          // student
	EnrollmentNumber string   `json:"enrollment_number,omitempty"` // student
	Relation         string   `json:"relation,omitempty"`          // parent
}

func (nu *NewUser) Validate(svc *Service) error {
	nu.Username = core.CleanString(nu.Username)
	nu.FirstName = core.CleanString(nu.FirstName)
	nu.LastName = core.CleanString(nu.LastName)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.InstitutionCode = normalizeCode(nu.InstitutionCode)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	if _, err := svc.store.InstitutionByCode(nu.InstitutionCode); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "institution_code", Error: "unknown institution"})
	}
	if nu.Role == RoleStudent {
		if nu.ClassID == "" {
			return core.NewValidationError(nil, core.FieldError{Field: "class_id", Error: "a student must belong to a class"})
		}
		// the class must exist before the user record is appended, so a
		// failed enrollment can never strand a created user
		cls, err := svc.store.ClassByID(nu.ClassID)
		if err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "class_id", Error: "unknown class"})
		}
		if cls.InstitutionCode != nu.InstitutionCode {
			return core.NewValidationError(nil, core.FieldError{Field: "class_id", Error: "class belongs to another institution"})
		}
	}
	if nu.Username != "" {
		return svc.checkUsernameUniqueness(nu.Username)
	}
	return nil
}

// NewClass contains information needed to open a new Class in an institution.
type NewClass struct {
	Name            string `json:"name" validate:"required"`
	Grade           string `json:"grade" validate:"required"`
	Section         string `json:"section" validate:"required"`
	InstitutionCode string `json:"institution_code" validate:"required"`
}

func (nc *NewClass) Validate(svc *Service) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Grade = core.CleanString(nc.Grade)
	nc.Section = core.CleanString(nc.Section)
	nc.InstitutionCode = normalizeCode(nc.InstitutionCode)

	if err := core.Validate.Struct(nc); err != nil {
		return err
	}
	if _, err := svc.store.InstitutionByCode(nc.InstitutionCode); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "institution_code", Error: "unknown institution"})
	}
	return nil
}

// NewMessage contains information needed to send a Message.
type NewMessage struct {
	SenderID     string   `json:"sender_id" validate:"required"`
	RecipientIDs []string `json:"recipient_ids" validate:"required,min=1,dive,required"`
	Content      string   `json:"content" validate:"required"`
}

func (nm *NewMessage) Validate() error {
	nm.Content = core.CleanString(nm.Content)
	return core.Validate.Struct(nm)
}

// NewMeeting contains information needed to schedule a Meeting.
type NewMeeting struct {
	Title          string    `json:"title" validate:"required"`
	Description    string    `json:"description"`
	CreatorID      string    `json:"creator_id" validate:"required"`
	ParticipantIDs []string  `json:"participant_ids" validate:"required,min=1,dive,required"`
	StartTime      time.Time `json:"start_time" validate:"required"`
	EndTime        time.Time `json:"end_time" validate:"required,gtefield=StartTime"`
	Location       string    `json:"location"`
	IsOnline       bool      `json:"is_online"`
	Link           string    `json:"link" validate:"omitempty,url"`
}

func (nm *NewMeeting) Validate() error {
	nm.Title = core.CleanString(nm.Title)
	nm.Description = core.CleanString(nm.Description)
	nm.Location = core.CleanString(nm.Location)
	return core.Validate.Struct(nm)
}

// NewAnnouncement contains information needed to publish an Announcement.
type NewAnnouncement struct {
	Title        string       `json:"title" validate:"required"`
	Content      string       `json:"content" validate:"required"`
	CreatorID    string       `json:"creator_id" validate:"required"`
	TargetGroups TargetGroups `json:"target_groups"`
	Important    bool         `json:"important"`
}

func (na *NewAnnouncement) Validate() error {
	na.Title = core.CleanString(na.Title)
	na.Content = core.CleanString(na.Content)
	return core.Validate.Struct(na)
}
