package school_test

import (
	"testing"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/school"
	"github.com/trezcool/darasa/storage/inmem"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func newTestService(t *testing.T) *school.Service {
	t.Helper()
	conf := &core.Config{DefaultPassword: "12345678", TestMode: true}
	return school.NewService(inmem.NewSchoolStore(inmem.Open()), conf, nopLogger{})
}

func registerTestInstitution(t *testing.T, svc *school.Service) (school.Institution, school.User) {
	t.Helper()
	inst, admin, err := svc.RegisterInstitution(school.NewInstitution{
		Name: "Void Academy",
		Code: "VOID01",
	})
	if err != nil {
		t.Fatalf("RegisterInstitution() failed, %v", err)
	}
	return inst, admin
}

func TestService_RegisterInstitution(t *testing.T) {
	svc := newTestService(t)
	inst, admin := registerTestInstitution(t, svc)

	if inst.AdminID != admin.ID {
		t.Errorf("inst.AdminID = %s, want %s", inst.AdminID, admin.ID)
	}
	if admin.Username != "ADMVOID01VOID" {
		t.Errorf("admin.Username = %s, want ADMVOID01VOID", admin.Username)
	}
	if !admin.IsFirstLogin {
		t.Error("admin.IsFirstLogin not set")
	}

	// the admin can log in with the default password
	if _, err := svc.Authenticate(admin.Username, "12345678"); err != nil {
		t.Errorf("Authenticate() failed, %v", err)
	}

	// duplicate code rejected
	_, _, err := svc.RegisterInstitution(school.NewInstitution{Name: "Other", Code: "void01"})
	if _, ok := err.(*core.ValidationError); !ok {
		t.Errorf("RegisterInstitution() error = %v, want *core.ValidationError", err)
	}
}

func TestService_CreateUser(t *testing.T) {
	svc := newTestService(t)
	registerTestInstitution(t, svc)

	cls, err := svc.OpenClass(school.NewClass{Name: "10th Grade A", Grade: "10th", Section: "A", InstitutionCode: "VOID01"})
	if err != nil {
		t.Fatalf("OpenClass() failed, %v", err)
	}

	t.Run("faculty", func(t *testing.T) {
		usr, err := svc.CreateUser(school.NewUser{
			FirstName: "John", LastName: "Smith", Role: school.RoleFaculty,
			InstitutionCode: "VOID01", Subjects: []string{"Mathematics"},
		})
		if err != nil {
			t.Fatalf("CreateUser() failed, %v", err)
		}
		if usr.Username != "FACVOID01JS" {
			t.Errorf("Username = %s, want FACVOID01JS", usr.Username)
		}
		if usr.Faculty == nil || len(usr.Faculty.Subjects) != 1 {
			t.Errorf("Faculty profile = %+v, want 1 subject", usr.Faculty)
		}
		if usr.Student != nil || usr.Parent != nil {
			t.Error("unexpected extra profile set")
		}
	})

	t.Run("colliding initials get a suffix", func(t *testing.T) {
		usr, err := svc.CreateUser(school.NewUser{
			FirstName: "Jane", LastName: "Stone", Role: school.RoleFaculty, InstitutionCode: "VOID01",
		})
		if err != nil {
			t.Fatalf("CreateUser() failed, %v", err)
		}
		if usr.Username != "FACVOID01JS001" {
			t.Errorf("Username = %s, want FACVOID01JS001", usr.Username)
		}
	})

	t.Run("student is enrolled on creation", func(t *testing.T) {
		usr, err := svc.CreateUser(school.NewUser{
			FirstName: "Alex", LastName: "Johnson", Role: school.RoleStudent,
			InstitutionCode: "VOID01", ClassID: cls.ID, EnrollmentNumber: "ST001",
		})
		if err != nil {
			t.Fatalf("CreateUser() failed, %v", err)
		}
		if usr.Student == nil || usr.Student.ClassID != cls.ID {
			t.Errorf("Student profile = %+v, want class %s", usr.Student, cls.ID)
		}
		refreshed, err := svc.Store().ClassByID(cls.ID)
		if err != nil {
			t.Fatalf("ClassByID() failed, %v", err)
		}
		if len(refreshed.StudentIDs) != 1 || refreshed.StudentIDs[0] != usr.ID {
			t.Errorf("class.StudentIDs = %v, want [%s]", refreshed.StudentIDs, usr.ID)
		}
	})

	t.Run("student without class rejected", func(t *testing.T) {
		_, err := svc.CreateUser(school.NewUser{
			FirstName: "Maya", LastName: "Miller", Role: school.RoleStudent, InstitutionCode: "VOID01",
		})
		if _, ok := err.(*core.ValidationError); !ok {
			t.Errorf("CreateUser() error = %v, want *core.ValidationError", err)
		}
	})

	t.Run("student with unknown class rejected before creation", func(t *testing.T) {
		_, err := svc.CreateUser(school.NewUser{
			FirstName: "Nina", LastName: "Kane", Role: school.RoleStudent,
			InstitutionCode: "VOID01", ClassID: "no-such-class",
		})
		if _, ok := err.(*core.ValidationError); !ok {
			t.Fatalf("CreateUser() error = %v, want *core.ValidationError", err)
		}
		// no orphaned user, no consumed username
		if exists, _ := svc.UsernameExists("STUVOID01NK"); exists {
			t.Error("user created despite failed class lookup")
		}
	})

	t.Run("class of another institution rejected", func(t *testing.T) {
		if _, _, err := svc.RegisterInstitution(school.NewInstitution{Name: "Other Academy", Code: "OTH001"}); err != nil {
			t.Fatalf("RegisterInstitution() failed, %v", err)
		}
		otherCls, err := svc.OpenClass(school.NewClass{Name: "9th Grade A", Grade: "9th", Section: "A", InstitutionCode: "OTH001"})
		if err != nil {
			t.Fatalf("OpenClass() failed, %v", err)
		}

		_, err = svc.CreateUser(school.NewUser{
			FirstName: "Omar", LastName: "Reed", Role: school.RoleStudent,
			InstitutionCode: "VOID01", ClassID: otherCls.ID,
		})
		if _, ok := err.(*core.ValidationError); !ok {
			t.Fatalf("CreateUser() error = %v, want *core.ValidationError", err)
		}
		if exists, _ := svc.UsernameExists("STUVOID01OR"); exists {
			t.Error("user created despite cross-institution class")
		}
	})

	t.Run("unknown institution rejected", func(t *testing.T) {
		_, err := svc.CreateUser(school.NewUser{
			FirstName: "John", LastName: "Doe", Role: school.RoleParent, InstitutionCode: "NOPE01",
		})
		if _, ok := err.(*core.ValidationError); !ok {
			t.Errorf("CreateUser() error = %v, want *core.ValidationError", err)
		}
	})

	t.Run("explicit username must be unique", func(t *testing.T) {
		if _, err := svc.CreateUser(school.NewUser{
			Username: "customuser", FirstName: "A", LastName: "B",
			Role: school.RoleParent, InstitutionCode: "VOID01",
		}); err != nil {
			t.Fatalf("CreateUser() failed, %v", err)
		}
		_, err := svc.CreateUser(school.NewUser{
			Username: "customuser", FirstName: "C", LastName: "D",
			Role: school.RoleParent, InstitutionCode: "VOID01",
		})
		if _, ok := err.(*core.ValidationError); !ok {
			t.Errorf("CreateUser() error = %v, want *core.ValidationError", err)
		}
	})
}

func TestService_Authenticate(t *testing.T) {
	svc := newTestService(t)
	_, admin := registerTestInstitution(t, svc)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "ok", username: admin.Username, password: "12345678"},
		{name: "username is trimmed", username: "  " + admin.Username + "  ", password: "12345678"},
		{name: "wrong password", username: admin.Username, password: "nope", wantErr: school.ErrNotFound},
		{name: "unknown username", username: "ghost", password: "12345678", wantErr: school.ErrNotFound},
		{name: "empty credentials", wantErr: school.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := svc.Authenticate(tt.username, tt.password)
			if err != tt.wantErr {
				t.Fatalf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && usr.ID != admin.ID {
				t.Errorf("Authenticate() user = %s, want %s", usr.ID, admin.ID)
			}
		})
	}
}

func TestService_UpdatePassword(t *testing.T) {
	svc := newTestService(t)
	_, admin := registerTestInstitution(t, svc)

	usr, err := svc.UpdatePassword(admin.ID, "newpassword")
	if err != nil {
		t.Fatalf("UpdatePassword() failed, %v", err)
	}
	if usr.IsFirstLogin {
		t.Error("IsFirstLogin still set after password change")
	}

	if _, err = svc.Authenticate(admin.Username, "12345678"); err != school.ErrNotFound {
		t.Errorf("old password still accepted, error = %v", err)
	}
	if _, err = svc.Authenticate(admin.Username, "newpassword"); err != nil {
		t.Errorf("new password rejected, %v", err)
	}

	if _, err = svc.UpdatePassword("ghost", "whatever"); err != school.ErrNotFound {
		t.Errorf("UpdatePassword() error = %v, want ErrNotFound", err)
	}
}
