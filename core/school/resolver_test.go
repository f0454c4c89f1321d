package school_test

import (
	"testing"

	"github.com/trezcool/darasa/core/school"
)

func seedResolverData(t *testing.T) (*school.Service, *school.Resolver, *school.DemoData) {
	t.Helper()
	svc := newTestService(t)
	data, err := school.SeedDemo(svc)
	if err != nil {
		t.Fatalf("SeedDemo() failed, %v", err)
	}
	return svc, school.NewResolver(svc.Store(), nopLogger{}), data
}

func containsUser(users []school.User, id string) bool {
	for _, u := range users {
		if u.ID == id {
			return true
		}
	}
	return false
}

func TestResolver_MessagingCandidates(t *testing.T) {
	_, res, data := seedResolverData(t)

	tests := []struct {
		name    string
		usr     school.User
		wantIDs []string
	}{
		{
			name: "admin messages faculty, students and parents",
			usr:  data.Admin,
			wantIDs: []string{
				data.Faculty1.ID, data.Faculty2.ID,
				data.Student1.ID, data.Student2.ID,
				data.Parent1.ID, data.Parent2.ID,
			},
		},
		{
			name: "faculty messages students and parents",
			usr:  data.Faculty1,
			wantIDs: []string{
				data.Student1.ID, data.Student2.ID,
				data.Parent1.ID, data.Parent2.ID,
			},
		},
		{
			name:    "student messages faculty only",
			usr:     data.Student1,
			wantIDs: []string{data.Faculty1.ID, data.Faculty2.ID},
		},
		{
			name:    "parent messages faculty only",
			usr:     data.Parent1,
			wantIDs: []string{data.Faculty1.ID, data.Faculty2.ID},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := res.MessagingCandidates(tt.usr)
			if err != nil {
				t.Fatalf("MessagingCandidates() failed, %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("len(candidates) = %d, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("candidates[%d] = %s, want %s", i, got[i].ID, id)
				}
			}
			if containsUser(got, tt.usr.ID) {
				t.Error("user appears in its own candidate list")
			}
		})
	}
}

func TestResolver_MessagingCandidates_excludesSelf(t *testing.T) {
	svc, res, data := seedResolverData(t)

	// a second faculty-visible faculty member never shows up for peers
	fac3, err := svc.CreateUser(school.NewUser{
		FirstName: "Paul", LastName: "Brown", Role: school.RoleFaculty, InstitutionCode: data.Institution.Code,
	})
	if err != nil {
		t.Fatalf("CreateUser() failed, %v", err)
	}
	got, err := res.MessagingCandidates(fac3)
	if err != nil {
		t.Fatalf("MessagingCandidates() failed, %v", err)
	}
	if containsUser(got, fac3.ID) {
		t.Error("faculty appears in its own candidate list")
	}
}

func TestResolver_ConversationThread(t *testing.T) {
	svc, res, data := seedResolverData(t)

	// extend the seeded faculty1<->student1 exchange
	reply, err := svc.SendMessage(school.NewMessage{
		SenderID: data.Student1.ID, RecipientIDs: []string{data.Faculty1.ID},
		Content: "Will do, thank you for the reminder.",
	})
	if err != nil {
		t.Fatalf("SendMessage() failed, %v", err)
	}

	thread, err := res.ConversationThread(data.Faculty1, data.Student1)
	if err != nil {
		t.Fatalf("ConversationThread() failed, %v", err)
	}
	if len(thread) != 2 {
		t.Fatalf("len(thread) = %d, want 2", len(thread))
	}
	// ascending by timestamp, ties broken by insertion order
	if thread[0].SenderID != data.Faculty1.ID {
		t.Errorf("thread[0].SenderID = %s, want faculty", thread[0].SenderID)
	}
	if thread[1].ID != reply.ID {
		t.Errorf("thread[1].ID = %s, want reply %s", thread[1].ID, reply.ID)
	}

	// the parent1<->faculty1 exchange stays out of this thread
	for _, msg := range thread {
		if msg.SenderID == data.Parent1.ID || msg.HasRecipient(data.Parent1.ID) {
			t.Error("thread leaks a third party's message")
		}
	}

	// both participants see the same thread
	mirror, err := res.ConversationThread(data.Student1, data.Faculty1)
	if err != nil {
		t.Fatalf("ConversationThread() failed, %v", err)
	}
	if len(mirror) != len(thread) {
		t.Errorf("mirrored thread length = %d, want %d", len(mirror), len(thread))
	}
}

func TestResolver_VisibleAnnouncements(t *testing.T) {
	svc, res, data := seedResolverData(t)

	// class-only announcement: no role flags, 10A only
	classOnly, err := svc.PublishAnnouncement(school.NewAnnouncement{
		Title:     "10A Field Trip",
		Content:   "Permission slips due Monday.",
		CreatorID: data.Faculty1.ID,
		TargetGroups: school.TargetGroups{
			ClassIDs: []string{data.Class10A.ID},
		},
	})
	if err != nil {
		t.Fatalf("PublishAnnouncement() failed, %v", err)
	}

	visibleTo := func(t *testing.T, usr school.User, annID string) bool {
		t.Helper()
		anns, err := res.VisibleAnnouncements(usr)
		if err != nil {
			t.Fatalf("VisibleAnnouncements() failed, %v", err)
		}
		for _, a := range anns {
			if a.ID == annID {
				return true
			}
		}
		return false
	}

	tests := []struct {
		name string
		usr  school.User
		want bool
	}{
		{name: "creator sees it", usr: data.Faculty1, want: true},
		{name: "student in the class sees it", usr: data.Student1, want: true},
		{name: "student in another class does not", usr: data.Student2, want: false},
		{name: "parent of a child in the class sees it", usr: data.Parent1, want: true},
		{name: "parent of a child in another class does not", usr: data.Parent2, want: false},
		{name: "other faculty does not", usr: data.Faculty2, want: false},
		{name: "admin does not", usr: data.Admin, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := visibleTo(t, tt.usr, classOnly.ID); got != tt.want {
				t.Errorf("visible = %t, want %t", got, tt.want)
			}
		})
	}

	t.Run("role flags", func(t *testing.T) {
		// the seeded welcome announcement targets every role
		anns, err := res.VisibleAnnouncements(data.Faculty2)
		if err != nil {
			t.Fatalf("VisibleAnnouncements() failed, %v", err)
		}
		var sawWelcome bool
		for _, a := range anns {
			if a.Title == "Welcome to the New School Year" {
				sawWelcome = true
			}
		}
		if !sawWelcome {
			t.Error("faculty flag announcement not visible to faculty")
		}
	})
}

func TestResolver_relationshipQueries(t *testing.T) {
	_, res, data := seedResolverData(t)

	t.Run("ChildrenOf", func(t *testing.T) {
		children, err := res.ChildrenOf(data.Parent1)
		if err != nil {
			t.Fatalf("ChildrenOf() failed, %v", err)
		}
		if len(children) != 1 || children[0].ID != data.Student1.ID {
			t.Errorf("children = %v, want [%s]", children, data.Student1.ID)
		}
	})

	t.Run("TeachersOf", func(t *testing.T) {
		teachers, err := res.TeachersOf(data.Student1)
		if err != nil {
			t.Fatalf("TeachersOf() failed, %v", err)
		}
		if len(teachers) != 1 || teachers[0].ID != data.Faculty1.ID {
			t.Errorf("teachers = %v, want [%s]", teachers, data.Faculty1.ID)
		}
	})

	t.Run("ClassesOf", func(t *testing.T) {
		classes, err := res.ClassesOf(data.Faculty2)
		if err != nil {
			t.Fatalf("ClassesOf() failed, %v", err)
		}
		if len(classes) != 1 || classes[0].ID != data.Class11B.ID {
			t.Errorf("classes = %v, want [%s]", classes, data.Class11B.ID)
		}
	})

	t.Run("StudentsOfClass", func(t *testing.T) {
		students, err := res.StudentsOfClass(data.Class10A)
		if err != nil {
			t.Fatalf("StudentsOfClass() failed, %v", err)
		}
		if len(students) != 1 || students[0].ID != data.Student1.ID {
			t.Errorf("students = %v, want [%s]", students, data.Student1.ID)
		}
	})

	t.Run("dangling refs are omitted", func(t *testing.T) {
		ghostParent := school.User{
			Role:   school.RoleParent,
			Parent: &school.ParentProfile{StudentIDs: []string{"no-such-student"}},
		}
		children, err := res.ChildrenOf(ghostParent)
		if err != nil {
			t.Fatalf("ChildrenOf() failed, %v", err)
		}
		if len(children) != 0 {
			t.Errorf("children = %v, want empty", children)
		}

		ghostStudent := school.User{
			Role:    school.RoleStudent,
			Student: &school.StudentProfile{ClassID: "no-such-class"},
		}
		teachers, err := res.TeachersOf(ghostStudent)
		if err != nil {
			t.Fatalf("TeachersOf() failed, %v", err)
		}
		if len(teachers) != 0 {
			t.Errorf("teachers = %v, want empty", teachers)
		}
	})

	t.Run("no relations yields empty non-nil slices", func(t *testing.T) {
		children, err := res.ChildrenOf(school.User{Role: school.RoleParent})
		if err != nil {
			t.Fatalf("ChildrenOf() failed, %v", err)
		}
		if children == nil {
			t.Error("children slice is nil")
		}
	})
}
