package unit

import "testing"

func TestValidateUnitName(t *testing.T) {
	cases := []struct {
		name    string
		wantErr bool
	}{
		{"myapp.service", false},
		{"my-app_2.service", false},
		{"user@1000.service", false},
		{"", true},
		{"myapp", true},
		{"../etc/passwd.service", true},
		{"my app.service", true},
	}
	for _, c := range cases {
		err := ValidateUnitName(c.name)
		if (err != nil) != c.wantErr {
			t.Errorf("ValidateUnitName(%q) error = %v, wantErr %v", c.name, err, c.wantErr)
		}
	}
}

func TestNewRejectsInvalidName(t *testing.T) {
	if _, err := New("not-a-unit"); err == nil {
		t.Error("expected an error for a unit name missing .service")
	}
}

func TestNewAcceptsValidName(t *testing.T) {
	s, err := New("myapp.service")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Name != "myapp.service" {
		t.Errorf("Name = %q, want myapp.service", s.Name)
	}
}

func TestDropInPath(t *testing.T) {
	s, _ := New("myapp.service")
	got := s.dropInPath(profilingFragment)
	want := "/etc/systemd/system/myapp.service.d/10-unitharden-profiling.conf"
	if got != want {
		t.Errorf("dropInPath = %q, want %q", got, want)
	}
}
