package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "01-01-2023", "2023/01/01", "not-a-date", ""}
	for _, s := range valid {
		if _, ok := IsValidDate(s); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"sick", "casual", "annual"}
	if !IsInSlice("sick", slice) {
		t.Error("IsInSlice(sick) = false, want true")
	}
	if IsInSlice("vacation", slice) {
		t.Error("IsInSlice(vacation) = true, want false")
	}
}

func TestIsValidImageExt(t *testing.T) {
	valid := []string{"photo.jpg", "photo.JPEG", "photo.png", "a.b.PNG"}
	invalid := []string{"photo.gif", "photo.pdf", "photo", ""}
	for _, name := range valid {
		if !IsValidImageExt(name) {
			t.Errorf("IsValidImageExt(%q) = false, want true", name)
		}
	}
	for _, name := range invalid {
		if IsValidImageExt(name) {
			t.Errorf("IsValidImageExt(%q) = true, want false", name)
		}
	}
}

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "a valid email is required"},
		{Field: "password", Message: "password is required"},
	}
	m := errs.ToMap()
	if len(m) != 2 {
		t.Fatalf("ToMap() has %d entries, want 2", len(m))
	}
	if m["email"] != "a valid email is required" {
		t.Errorf("ToMap()[email] = %q", m["email"])
	}
	if errs.Error() == "" {
		t.Error("Error() should not be empty")
	}
}
