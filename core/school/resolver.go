package school

import (
	"errors"
	"sort"

	"github.com/trezcool/darasa/core"
)

// Resolver answers "who may X" queries by deriving indirect relationships
// (class ⇄ faculty ⇄ students ⇄ parents) from the entity store. It never
// mutates state and never caches: every answer is re-derived per call.
// Dangling references degrade to omission.
type Resolver struct {
	store Store
	log   core.Logger
}

func NewResolver(store Store, log core.Logger) *Resolver {
	return &Resolver{store: store, log: log}
}

// MessagingCandidates returns the users the given user may message, per the
// role whitelist: admin → faculty+students+parents, faculty →
// students+parents, student → faculty, parent → faculty. Same institution
// only; a user never appears in its own list.
func (r *Resolver) MessagingCandidates(usr User) ([]User, error) {
	var roles []Role
	switch usr.Role {
	case RoleAdmin:
		roles = []Role{RoleFaculty, RoleStudent, RoleParent}
	case RoleFaculty:
		roles = []Role{RoleStudent, RoleParent}
	case RoleStudent, RoleParent:
		roles = []Role{RoleFaculty}
	default:
		return []User{}, nil
	}

	candidates := make([]User, 0)
	for _, role := range roles {
		users, err := r.store.UsersByRole(role, usr.InstitutionCode)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			if u.ID == usr.ID {
				continue
			}
			candidates = append(candidates, u)
		}
	}
	return candidates, nil
}

// ConversationThread returns all messages exchanged between the two users,
// ascending by timestamp; insertion order breaks ties.
func (r *Resolver) ConversationThread(usr, peer User) ([]Message, error) {
	msgs, err := r.store.MessagesForUser(usr.ID)
	if err != nil {
		return nil, err
	}

	thread := make([]Message, 0, len(msgs))
	for _, msg := range msgs {
		sent := msg.SenderID == usr.ID && msg.HasRecipient(peer.ID)
		received := msg.SenderID == peer.ID && msg.HasRecipient(usr.ID)
		if sent || received {
			thread = append(thread, msg)
		}
	}
	sort.SliceStable(thread, func(i, j int) bool { return thread[i].Timestamp.Before(thread[j].Timestamp) })
	return thread, nil
}

// VisibleAnnouncements returns the announcements the user may see: own
// announcements, announcements targeting the user's role (admins and faculty
// both honor the faculty flag), and class-targeted announcements matching a
// student's class or any of a parent's children's classes. Ordering is the
// caller's responsibility.
func (r *Resolver) VisibleAnnouncements(usr User) ([]Announcement, error) {
	anns, err := r.store.Announcements()
	if err != nil {
		return nil, err
	}

	classIDs, err := r.associatedClassIDs(usr)
	if err != nil {
		return nil, err
	}

	visible := make([]Announcement, 0, len(anns))
	for _, ann := range anns {
		if r.announcementVisible(ann, usr, classIDs) {
			visible = append(visible, ann)
		}
	}
	return visible, nil
}

func (r *Resolver) announcementVisible(ann Announcement, usr User, classIDs []string) bool {
	if ann.CreatorID == usr.ID {
		return true
	}
	switch usr.Role {
	case RoleAdmin, RoleFaculty:
		if ann.TargetGroups.Faculty {
			return true
		}
	case RoleStudent:
		if ann.TargetGroups.Students {
			return true
		}
	case RoleParent:
		if ann.TargetGroups.Parents {
			return true
		}
	}
	for _, classID := range classIDs {
		if ann.TargetsClass(classID) {
			return true
		}
	}
	return false
}

// associatedClassIDs resolves the classes a user is tied to for class-targeted
// announcements: a student's own class, or each of a parent's children's
// classes.
func (r *Resolver) associatedClassIDs(usr User) ([]string, error) {
	switch usr.Role {
	case RoleStudent:
		if usr.Student == nil || usr.Student.ClassID == "" {
			return nil, nil
		}
		return []string{usr.Student.ClassID}, nil
	case RoleParent:
		children, err := r.ChildrenOf(usr)
		if err != nil {
			return nil, err
		}
		var ids []string
		for _, child := range children {
			if child.Student != nil && child.Student.ClassID != "" {
				ids = append(ids, child.Student.ClassID)
			}
		}
		return ids, nil
	}
	return nil, nil
}

// ChildrenOf returns a parent's students; empty when no relations exist.
func (r *Resolver) ChildrenOf(parent User) ([]User, error) {
	children := make([]User, 0)
	if parent.Parent == nil {
		return children, nil
	}
	for _, id := range parent.Parent.StudentIDs {
		child, err := r.store.UserByID(id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				r.log.Debug("resolver: skipping dangling student ref", id)
				continue
			}
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

// TeachersOf returns the faculty teaching the student's class.
func (r *Resolver) TeachersOf(student User) ([]User, error) {
	if student.Student == nil || student.Student.ClassID == "" {
		return []User{}, nil
	}
	cls, err := r.store.ClassByID(student.Student.ClassID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			r.log.Debug("resolver: skipping dangling class ref", student.Student.ClassID)
			return []User{}, nil
		}
		return nil, err
	}
	return r.TeachersOfClass(cls)
}

// TeachersOfClass returns the faculty assigned to the class.
func (r *Resolver) TeachersOfClass(cls Class) ([]User, error) {
	teachers := make([]User, 0, len(cls.FacultyIDs))
	for _, id := range cls.FacultyIDs {
		usr, err := r.store.UserByID(id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				r.log.Debug("resolver: skipping dangling faculty ref", id)
				continue
			}
			return nil, err
		}
		teachers = append(teachers, usr)
	}
	return teachers, nil
}

// StudentsOfClass returns the students enrolled in the class.
func (r *Resolver) StudentsOfClass(cls Class) ([]User, error) {
	students := make([]User, 0, len(cls.StudentIDs))
	for _, id := range cls.StudentIDs {
		usr, err := r.store.UserByID(id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				r.log.Debug("resolver: skipping dangling student ref", id)
				continue
			}
			return nil, err
		}
		students = append(students, usr)
	}
	return students, nil
}

// ClassesOf returns the classes assigned to the faculty member.
func (r *Resolver) ClassesOf(faculty User) ([]Class, error) {
	classes := make([]Class, 0)
	if faculty.Faculty == nil {
		return classes, nil
	}
	for _, id := range faculty.Faculty.ClassIDs {
		cls, err := r.store.ClassByID(id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				r.log.Debug("resolver: skipping dangling class ref", id)
				continue
			}
			return nil, err
		}
		classes = append(classes, cls)
	}
	return classes, nil
}
