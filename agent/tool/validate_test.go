package tool

import "testing"

func TestValidPhone(t *testing.T) {
	t.Parallel()

	valid := []string{
		"555-123-4567",
		"(555) 123-4567",
		"+1 555 123 4567",
		"15551234567",
		"555.123.4567",
	}
	for _, phone := range valid {
		if !ValidPhone(phone) {
			t.Errorf("expected %q to be valid", phone)
		}
	}

	invalid := []string{"abc", "", "123", "555-123", "call me maybe"}
	for _, phone := range invalid {
		if ValidPhone(phone) {
			t.Errorf("expected %q to be invalid", phone)
		}
	}
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	if !ValidEmail("jane.doe+orders@example.co") {
		t.Error("expected address to be valid")
	}
	for _, email := range []string{"jane", "jane@", "jane@example", "jane@example.c", ""} {
		if ValidEmail(email) {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"555-123-4567", "+15551234567"},
		{"(555) 123-4567", "+15551234567"},
		{"1-555-123-4567", "+15551234567"},
		{"+15551234567", "+15551234567"},
		{"12345", "12345"},
	}
	for _, tc := range cases {
		if got := NormalizePhone(tc.in); got != tc.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFindPhoneAndEmailInUtterance(t *testing.T) {
	t.Parallel()

	text := "you can reach me at 555-123-4567 or jane@example.com thanks"

	phone, ok := FindPhone(text)
	if !ok || phone != "555-123-4567" {
		t.Fatalf("expected phone match, got %q ok=%v", phone, ok)
	}

	email, ok := FindEmail(text)
	if !ok || email != "jane@example.com" {
		t.Fatalf("expected email match, got %q ok=%v", email, ok)
	}

	if _, ok := FindPhone("no numbers here"); ok {
		t.Fatal("expected no phone match")
	}
}

func TestTitleCase(t *testing.T) {
	t.Parallel()

	if got := TitleCase("  jane   doe "); got != "Jane Doe" {
		t.Fatalf("got %q", got)
	}
	if got := TitleCase("JANE"); got != "Jane" {
		t.Fatalf("got %q", got)
	}
	if got := TitleCase(""); got != "" {
		t.Fatalf("got %q", got)
	}
	if got := TitleCase("émile zola"); got != "Émile Zola" {
		t.Fatalf("got %q", got)
	}
}
