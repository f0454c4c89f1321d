package school

import (
	"fmt"

	"github.com/trezcool/darasa/core"
)

// Service is the application-facing surface of the entity store: it turns
// validated payloads into records, generates usernames and hashes passwords.
// All reads degrade to ErrNotFound, never panics.
type Service struct {
	store Store
	conf  *core.Config
	log   core.Logger
}

func NewService(store Store, conf *core.Config, log core.Logger) *Service {
	return &Service{store: store, conf: conf, log: log}
}

// Store exposes the underlying entity store for read-only collaborators.
func (svc *Service) Store() Store { return svc.store }

func (svc *Service) checkUsernameUniqueness(uname string) error {
	exists, err := svc.store.UsernameExists(uname)
	if err != nil {
		return err
	}
	if exists {
		return core.NewValidationError(ErrUsernameExists, core.FieldError{Field: "username", Error: ErrUsernameExists.Error()})
	}
	return nil
}

func (svc *Service) checkCodeUniqueness(code string) error {
	if _, err := svc.store.InstitutionByCode(code); err == nil {
		return core.NewValidationError(nil, core.FieldError{Field: "code", Error: "an institution with this code already exists"})
	}
	return nil
}

// RegisterInstitution creates the institution and provisions its admin
// account with the configured first-login password.
func (svc *Service) RegisterInstitution(ni NewInstitution) (Institution, User, error) {
	if err := ni.Validate(svc); err != nil {
		return Institution{}, User{}, err
	}

	admin := User{
		Username:        GenerateUsername(RoleAdmin, ni.Code, "", "", ""),
		FirstName:       "Admin",
		LastName:        "User",
		Role:            RoleAdmin,
		InstitutionCode: ni.Code,
		IsFirstLogin:    true,
	}
	if err := admin.SetPassword(svc.conf.DefaultPassword); err != nil {
		return Institution{}, User{}, err
	}
	admin, err := svc.store.CreateUser(admin)
	if err != nil {
		return Institution{}, User{}, err
	}

	inst, err := svc.store.CreateInstitution(Institution{
		Name:    ni.Name,
		Code:    ni.Code,
		Address: ni.Address,
		AdminID: admin.ID,
	})
	if err != nil {
		return Institution{}, User{}, err
	}
	return inst, admin, nil
}

// CreateUser validates the payload and appends the new account. Accounts
// start with IsFirstLogin set until their password is changed.
func (svc *Service) CreateUser(nu NewUser) (User, error) {
	if err := nu.Validate(svc); err != nil {
		return User{}, err
	}

	uname := nu.Username
	if uname == "" {
		var err error
		if uname, err = svc.generateUniqueUsername(nu); err != nil {
			return User{}, err
		}
	}

	usr := User{
		Username:        uname,
		FirstName:       nu.FirstName,
		LastName:        nu.LastName,
		Email:           nu.Email,
		Phone:           nu.Phone,
		Role:            nu.Role,
		InstitutionCode: nu.InstitutionCode,
		IsFirstLogin:    true,
	}
	switch nu.Role {
	case RoleAdmin:
	case RoleFaculty:
		usr.Faculty = &FacultyProfile{Subjects: nu.Subjects}
	case RoleStudent:
		usr.Student = &StudentProfile{ClassID: nu.ClassID, EnrollmentNumber: nu.EnrollmentNumber}
	case RoleParent:
		usr.Parent = &ParentProfile{Relation: nu.Relation}
	}

	pwd := nu.Password
	if pwd == "" {
		pwd = svc.conf.DefaultPassword
	}
	if err := usr.SetPassword(pwd); err != nil {
		return User{}, err
	}

	usr, err := svc.store.CreateUser(usr)
	if err != nil {
		return User{}, err
	}
	if nu.Role == RoleStudent {
		if err := svc.store.EnrollStudent(nu.ClassID, usr.ID); err != nil {
			return User{}, err
		}
		return svc.store.UserByID(usr.ID)
	}
	return usr, nil
}

func (svc *Service) generateUniqueUsername(nu NewUser) (string, error) {
	uname := GenerateUsername(nu.Role, nu.InstitutionCode, nu.FirstName, nu.LastName, "")
	for i := 0; ; i++ {
		if i > 0 {
			uname = GenerateUsername(nu.Role, nu.InstitutionCode, nu.FirstName, nu.LastName, fmt.Sprintf("%03d", i))
		}
		exists, err := svc.store.UsernameExists(uname)
		if err != nil {
			return "", err
		}
		if !exists {
			return uname, nil
		}
	}
}

// OpenClass creates a class in the institution.
func (svc *Service) OpenClass(nc NewClass) (Class, error) {
	if err := nc.Validate(svc); err != nil {
		return Class{}, err
	}
	return svc.store.CreateClass(Class{
		Name:            nc.Name,
		Grade:           nc.Grade,
		Section:         nc.Section,
		InstitutionCode: nc.InstitutionCode,
	})
}

// Authenticate returns the unique user matching both credentials exactly;
// ErrNotFound otherwise. Used only for login.
func (svc *Service) Authenticate(username, password string) (User, error) {
	usr, err := svc.store.UserByUsername(core.CleanString(username))
	if err != nil {
		return User{}, ErrNotFound
	}
	if err := usr.CheckPassword(password); err != nil {
		return User{}, ErrNotFound
	}
	return usr, nil
}

func (svc *Service) UserByID(id string) (User, error) {
	return svc.store.UserByID(id)
}

func (svc *Service) UsernameExists(username string) (bool, error) {
	return svc.store.UsernameExists(username)
}

// UpdatePassword hashes and stores the new password, clearing the
// first-login flag. Idempotent for repeated calls with the same password.
func (svc *Service) UpdatePassword(id, newPassword string) (User, error) {
	var usr User
	if err := usr.SetPassword(newPassword); err != nil {
		return User{}, err
	}
	return svc.store.UpdateUserPassword(id, usr.PasswordHash)
}

func (svc *Service) SendMessage(nm NewMessage) (Message, error) {
	if err := nm.Validate(); err != nil {
		return Message{}, err
	}
	return svc.store.CreateMessage(Message{
		SenderID:     nm.SenderID,
		RecipientIDs: nm.RecipientIDs,
		Content:      nm.Content,
	})
}

func (svc *Service) ScheduleMeeting(nm NewMeeting) (Meeting, error) {
	if err := nm.Validate(); err != nil {
		return Meeting{}, err
	}
	return svc.store.CreateMeeting(Meeting{
		Title:          nm.Title,
		Description:    nm.Description,
		CreatorID:      nm.CreatorID,
		ParticipantIDs: nm.ParticipantIDs,
		StartTime:      nm.StartTime,
		EndTime:        nm.EndTime,
		Location:       nm.Location,
		IsOnline:       nm.IsOnline,
		Link:           nm.Link,
		Status:         MeetingScheduled,
	})
}

func (svc *Service) PublishAnnouncement(na NewAnnouncement) (Announcement, error) {
	if err := na.Validate(); err != nil {
		return Announcement{}, err
	}
	return svc.store.CreateAnnouncement(Announcement{
		Title:        na.Title,
		Content:      na.Content,
		CreatorID:    na.CreatorID,
		TargetGroups: na.TargetGroups,
		Important:    na.Important,
	})
}
