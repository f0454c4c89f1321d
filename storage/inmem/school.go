package inmem

import (
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core/school"
)

var nowFunc = time.Now // mockable

type schoolStore struct {
	db *DB
}

var _ school.Store = (*schoolStore)(nil) // interface compliance check

func NewSchoolStore(db *DB) school.Store {
	return &schoolStore{db: db}
}

// users

func (st *schoolStore) CreateUser(usr school.User) (school.User, error) {
	st.db.mu.Lock()
	defer st.db.mu.Unlock()

	usr = cloneUser(usr)
	usr.ID = uuid.NewString()
	usr.CreatedAt = nowFunc().UTC()
	st.db.users = append(st.db.users, &usr)
	return cloneUser(usr), nil
}

func (st *schoolStore) UserByID(id string) (school.User, error) {
	st.db.mu.RLock()
	defer st.db.mu.RUnlock()

	for _, usr := range st.db.users {
		if usr.ID == id {
			return cloneUser(*usr), nil
		}
	}
	return school.User{}, school.ErrNotFound
}

func (st *schoolStore) UserByUsername(username string) (school.User, error) {
	st.db.mu.RLock()
	defer st.db.mu.RUnlock()

	for _, usr := range st.db.users {
		if usr.Username == username {
			return cloneUser(*usr), nil
		}
	}
	return school.User{}, school.ErrNotFound
}

func (st *schoolStore) UsersByRole(role school.Role, institutionCode string) ([]school.User, error) {
	st.db.mu.RLock()
	defer st.db.mu.RUnlock()

	users := make([]school.User, 0)
	for _, usr := range st.db.users {
		if usr.Role == role && usr.InstitutionCode == institutionCode {
			users = append(users, cloneUser(*usr))
		}
	}
	return users, nil
}

func (st *schoolStore) UsernameExists(username string) (bool, error) {
	st.db.mu.RLock()
	defer st.db.mu.RUnlock()

	for _, usr := range st.db.users {
		if usr.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (st *schoolStore) UpdateUserPassword(id string, hash []byte) (school.User, error) {
	st.db.mu.Lock()
	defer st.db.mu.Unlock()

	for _, usr := range st.db.users {
		if usr.ID == id {
			usr.PasswordHash = hash
			usr.IsFirstLogin = false
			return cloneUser(*usr), nil
		}
	}
	return school.User{}, school.ErrNotFound
}

// institutions & classes

func (st *schoolStore) CreateInstitution(inst school.Institution) (school.Institution, error) {
	st.db.mu.Lock()
	defer st.db.mu.Unlock()

	inst = cloneInstitution(inst)
	inst.ID = uuid.NewString()
	st.db.institutions = append(st.db.institutions, &inst)
	return cloneInstitution(inst), nil
}

func (st *schoolStore) InstitutionByCode(code string) (school.Institution, error) {
	st.db.mu.RLock()
	defer st.db.mu.RUnlock()

	for _, inst := range st.db.institutions {
		if inst.Code == code {
			return cloneInstitution(*inst), nil
		}
	}
	return school.Institution{}, school.ErrNotFound
}

func (st *schoolStore) CreateClass(cls school.Class) (school.Class, error) {
	st.db.mu.Lock()
	defer st.db.mu.Unlock()

	inst, err := st.institutionByCodeLocked(cls.InstitutionCode)
	if err != nil {
		return school.Class{}, err
	}

	cls = cloneClass(cls)
	cls.ID = uuid.NewString()
	st.db.classes = append(st.db.classes, &cls)
	inst.ClassIDs = append(inst.ClassIDs, cls.ID)
	return cloneClass(cls), nil
}

func (st *schoolStore) ClassByID(id string) (school.Class, error) {
	st.db.mu.RLock()
	defer st.db.mu.RUnlock()

	cls, err := st.classByIDLocked(id)
	if err != nil {
		return school.Class{}, err
	}
	return cloneClass(*cls), nil
}

func (st *schoolStore) ClassesByInstitution(institutionCode string) ([]school.Class, error) {
	st.db.mu.RLock()
	defer st.db.mu.RUnlock()

	classes := make([]school.Class, 0)
	for _, cls := range st.db.classes {
		if cls.InstitutionCode == institutionCode {
			classes = append(classes, cloneClass(*cls))
		}
	}
	return classes, nil
}

func (st *schoolStore) AssignFacultyToClass(classID, facultyID string) error {
	st.db.mu.Lock()
	defer st.db.mu.Unlock()

	cls, err := st.classByIDLocked(classID)
	if err != nil {
		return err
	}
	usr, err := st.userByIDLocked(facultyID)
	if err != nil {
		return err
	}
	if usr.Faculty == nil {
		usr.Faculty = &school.FacultyProfile{}
	}
	cls.FacultyIDs = addUnique(cls.FacultyIDs, facultyID)
	usr.Faculty.ClassIDs = addUnique(usr.Faculty.ClassIDs, classID)
	return nil
}

func (st *schoolStore) EnrollStudent(classID, studentID string) error {
	st.db.mu.Lock()
	defer st.db.mu.Unlock()

	cls, err := st.classByIDLocked(classID)
	if err != nil {
		return err
	}
	usr, err := st.userByIDLocked(studentID)
	if err != nil {
		return err
	}
	if usr.Student == nil {
		usr.Student = &school.StudentProfile{}
	}
	cls.StudentIDs = addUnique(cls.StudentIDs, studentID)
	usr.Student.ClassID = classID
	return nil
}

func (st *schoolStore) LinkParent(parentID, studentID string) error {
	st.db.mu.Lock()
	defer st.db.mu.Unlock()

	parent, err := st.userByIDLocked(parentID)
	if err != nil {
		return err
	}
	student, err := st.userByIDLocked(studentID)
	if err != nil {
		return err
	}
	if parent.Parent == nil {
		parent.Parent = &school.ParentProfile{}
	}
	if student.Student == nil {
		student.Student = &school.StudentProfile{}
	}
	parent.Parent.StudentIDs = addUnique(parent.Parent.StudentIDs, studentID)
	student.Student.ParentIDs = addUnique(student.Student.ParentIDs, parentID)
	return nil
}

// messages

func (st *schoolStore) CreateMessage(msg school.Message) (school.Message, error) {
	st.db.mu.Lock()
	defer st.db.mu.Unlock()

	msg = cloneMessage(msg)
	msg.ID = uuid.NewString()
	msg.Timestamp = nowFunc().UTC()
	msg.Read = false
	st.db.messages = append(st.db.messages, &msg)
	return cloneMessage(msg), nil
}

func (st *schoolStore) MessagesForUser(userID string) ([]school.Message, error) {
	st.db.mu.RLock()
	defer st.db.mu.RUnlock()

	msgs := make([]school.Message, 0)
	for _, msg := range st.db.messages {
		if msg.SenderID == userID || msg.HasRecipient(userID) {
			msgs = append(msgs, cloneMessage(*msg))
		}
	}
	return msgs, nil
}

func (st *schoolStore) MarkMessageRead(id string) (school.Message, error) {
	st.db.mu.Lock()
	defer st.db.mu.Unlock()

	for _, msg := range st.db.messages {
		if msg.ID == id {
			msg.Read = true
			return cloneMessage(*msg), nil
		}
	}
	return school.Message{}, school.ErrNotFound
}

// meetings

func (st *schoolStore) CreateMeeting(m school.Meeting) (school.Meeting, error) {
	st.db.mu.Lock()
	defer st.db.mu.Unlock()

	m = cloneMeeting(m)
	m.ID = uuid.NewString()
	if m.Status == "" {
		m.Status = school.MeetingScheduled
	}
	st.db.meetings = append(st.db.meetings, &m)
	return cloneMeeting(m), nil
}

func (st *schoolStore) MeetingsForUser(userID string) ([]school.Meeting, error) {
	st.db.mu.RLock()
	defer st.db.mu.RUnlock()

	meetings := make([]school.Meeting, 0)
	for _, m := range st.db.meetings {
		if m.CreatorID == userID || hasID(m.ParticipantIDs, userID) {
			meetings = append(meetings, cloneMeeting(*m))
		}
	}
	return meetings, nil
}

func (st *schoolStore) UpdateMeetingStatus(id string, status school.MeetingStatus) (school.Meeting, error) {
	st.db.mu.Lock()
	defer st.db.mu.Unlock()

	for _, m := range st.db.meetings {
		if m.ID == id {
			m.Status = status
			return cloneMeeting(*m), nil
		}
	}
	return school.Meeting{}, school.ErrNotFound
}

// announcements

func (st *schoolStore) CreateAnnouncement(a school.Announcement) (school.Announcement, error) {
	st.db.mu.Lock()
	defer st.db.mu.Unlock()

	a = cloneAnnouncement(a)
	a.ID = uuid.NewString()
	a.Timestamp = nowFunc().UTC()
	st.db.announcements = append(st.db.announcements, &a)
	return cloneAnnouncement(a), nil
}

func (st *schoolStore) Announcements() ([]school.Announcement, error) {
	st.db.mu.RLock()
	defer st.db.mu.RUnlock()

	anns := make([]school.Announcement, 0, len(st.db.announcements))
	for _, a := range st.db.announcements {
		anns = append(anns, cloneAnnouncement(*a))
	}
	return anns, nil
}

// locked helpers; callers hold db.mu

func (st *schoolStore) userByIDLocked(id string) (*school.User, error) {
	for _, usr := range st.db.users {
		if usr.ID == id {
			return usr, nil
		}
	}
	return nil, school.ErrNotFound
}

func (st *schoolStore) classByIDLocked(id string) (*school.Class, error) {
	for _, cls := range st.db.classes {
		if cls.ID == id {
			return cls, nil
		}
	}
	return nil, school.ErrNotFound
}

func (st *schoolStore) institutionByCodeLocked(code string) (*school.Institution, error) {
	for _, inst := range st.db.institutions {
		if inst.Code == code {
			return inst, nil
		}
	}
	return nil, school.ErrNotFound
}

func cloneUser(usr school.User) school.User {
	if usr.Faculty != nil {
		f := *usr.Faculty
		f.ClassIDs = append([]string(nil), f.ClassIDs...)
		f.Subjects = append([]string(nil), f.Subjects...)
		usr.Faculty = &f
	}
	if usr.Student != nil {
		s := *usr.Student
		s.ParentIDs = append([]string(nil), s.ParentIDs...)
		usr.Student = &s
	}
	if usr.Parent != nil {
		p := *usr.Parent
		p.StudentIDs = append([]string(nil), p.StudentIDs...)
		usr.Parent = &p
	}
	return usr
}

func cloneInstitution(inst school.Institution) school.Institution {
	inst.ClassIDs = append([]string(nil), inst.ClassIDs...)
	return inst
}

func cloneClass(cls school.Class) school.Class {
	cls.FacultyIDs = append([]string(nil), cls.FacultyIDs...)
	cls.StudentIDs = append([]string(nil), cls.StudentIDs...)
	return cls
}

func cloneMessage(msg school.Message) school.Message {
	msg.RecipientIDs = append([]string(nil), msg.RecipientIDs...)
	return msg
}

func cloneMeeting(m school.Meeting) school.Meeting {
	m.ParticipantIDs = append([]string(nil), m.ParticipantIDs...)
	return m
}

func cloneAnnouncement(a school.Announcement) school.Announcement {
	a.TargetGroups.ClassIDs = append([]string(nil), a.TargetGroups.ClassIDs...)
	return a
}

func addUnique(ids []string, id string) []string {
	if hasID(ids, id) {
		return ids
	}
	return append(ids, id)
}

func hasID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
