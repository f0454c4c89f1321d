package school

import "time"

// DemoData holds the records seeded by SeedDemo, for dev runs and tests.
type DemoData struct {
	Institution Institution
	Admin       User
	Class10A    Class
	Class11B    Class
	Faculty1    User // teaches 10A
	Faculty2    User // teaches 11B
	Student1    User // in 10A, child of Parent1
	Student2    User // in 11B, child of Parent2
	Parent1     User
	Parent2     User
}

// SeedDemo populates the store with the Void Academy demo data set:
// one institution, two classes, two faculty, two student/parent pairs,
// two announcements, two messages and a meeting.
func SeedDemo(svc *Service) (*DemoData, error) {
	inst, admin, err := svc.RegisterInstitution(NewInstitution{
		Name:    "Void Academy",
		Code:    "VOID01",
		Address: "123 Education St, Learning City",
	})
	if err != nil {
		return nil, err
	}

	class10A, err := svc.OpenClass(NewClass{Name: "10th Grade A", Grade: "10th", Section: "A", InstitutionCode: inst.Code})
	if err != nil {
		return nil, err
	}
	class11B, err := svc.OpenClass(NewClass{Name: "11th Grade B", Grade: "11th", Section: "B", InstitutionCode: inst.Code})
	if err != nil {
		return nil, err
	}

	faculty1, err := svc.CreateUser(NewUser{
		FirstName: "John", LastName: "Smith", Role: RoleFaculty,
		InstitutionCode: inst.Code, Subjects: []string{"Mathematics", "Physics"},
	})
	if err != nil {
		return nil, err
	}
	faculty2, err := svc.CreateUser(NewUser{
		FirstName: "Mary", LastName: "Davis", Role: RoleFaculty,
		InstitutionCode: inst.Code, Subjects: []string{"English", "History"},
	})
	if err != nil {
		return nil, err
	}
	if err = svc.store.AssignFacultyToClass(class10A.ID, faculty1.ID); err != nil {
		return nil, err
	}
	if err = svc.store.AssignFacultyToClass(class11B.ID, faculty2.ID); err != nil {
		return nil, err
	}

	student1, err := svc.CreateUser(NewUser{
		FirstName: "Alex", LastName: "Johnson", Role: RoleStudent,
		InstitutionCode: inst.Code, ClassID: class10A.ID, EnrollmentNumber: "ST001",
	})
	if err != nil {
		return nil, err
	}
	student2, err := svc.CreateUser(NewUser{
		FirstName: "Maya", LastName: "Miller", Role: RoleStudent,
		InstitutionCode: inst.Code, ClassID: class11B.ID, EnrollmentNumber: "ST002",
	})
	if err != nil {
		return nil, err
	}

	parent1, err := svc.CreateUser(NewUser{
		FirstName: "Robert", LastName: "Johnson", Role: RoleParent,
		InstitutionCode: inst.Code, Relation: "Father",
	})
	if err != nil {
		return nil, err
	}
	parent2, err := svc.CreateUser(NewUser{
		FirstName: "Sarah", LastName: "Miller", Role: RoleParent,
		InstitutionCode: inst.Code, Relation: "Mother",
	})
	if err != nil {
		return nil, err
	}
	if err = svc.store.LinkParent(parent1.ID, student1.ID); err != nil {
		return nil, err
	}
	if err = svc.store.LinkParent(parent2.ID, student2.ID); err != nil {
		return nil, err
	}

	if _, err = svc.PublishAnnouncement(NewAnnouncement{
		Title:     "Welcome to the New School Year",
		Content:   "We are excited to welcome all students back to Void Academy for the new academic year.",
		CreatorID: admin.ID,
		TargetGroups: TargetGroups{Faculty: true, Students: true, Parents: true},
		Important: true,
	}); err != nil {
		return nil, err
	}
	if _, err = svc.PublishAnnouncement(NewAnnouncement{
		Title:     "10th Grade Mathematics Test",
		Content:   "A mathematics test will be held next Friday. Please prepare chapters 1-5 from your textbook.",
		CreatorID: faculty1.ID,
		TargetGroups: TargetGroups{Students: true, Parents: true, ClassIDs: []string{class10A.ID}},
	}); err != nil {
		return nil, err
	}

	if _, err = svc.SendMessage(NewMessage{
		SenderID: faculty1.ID, RecipientIDs: []string{student1.ID},
		Content: "Alex, please complete your homework assignment by Friday.",
	}); err != nil {
		return nil, err
	}
	if _, err = svc.SendMessage(NewMessage{
		SenderID: parent1.ID, RecipientIDs: []string{faculty1.ID},
		Content: "When is the next parent-teacher meeting scheduled?",
	}); err != nil {
		return nil, err
	}

	start := time.Now().Add(7 * 24 * time.Hour)
	if _, err = svc.ScheduleMeeting(NewMeeting{
		Title:       "Parent-Teacher Conference",
		Description: "Discussion about student progress and upcoming curriculum",
		CreatorID:   faculty1.ID, ParticipantIDs: []string{parent1.ID},
		StartTime: start, EndTime: start.Add(time.Hour),
		Location: "Room 101",
	}); err != nil {
		return nil, err
	}

	// refresh records whose relationship fields were linked after creation
	refresh := func(usr *User) error {
		refreshed, err := svc.store.UserByID(usr.ID)
		if err != nil {
			return err
		}
		*usr = refreshed
		return nil
	}
	for _, usr := range []*User{&faculty1, &faculty2, &student1, &student2, &parent1, &parent2} {
		if err = refresh(usr); err != nil {
			return nil, err
		}
	}
	if class10A, err = svc.store.ClassByID(class10A.ID); err != nil {
		return nil, err
	}
	if class11B, err = svc.store.ClassByID(class11B.ID); err != nil {
		return nil, err
	}

	return &DemoData{
		Institution: inst,
		Admin:       admin,
		Class10A:    class10A,
		Class11B:    class11B,
		Faculty1:    faculty1,
		Faculty2:    faculty2,
		Student1:    student1,
		Student2:    student2,
		Parent1:     parent1,
		Parent2:     parent2,
	}, nil
}
