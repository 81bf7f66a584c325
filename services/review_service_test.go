package services

import "testing"

func TestValidateReview(t *testing.T) {
	if err := ValidateReview(5, "great courier"); err != nil {
		t.Fatalf("valid review rejected: %v", err)
	}
	if err := ValidateReview(0, "great courier"); err == nil {
		t.Fatal("zero rating accepted")
	}
	if err := ValidateReview(6, "great courier"); err == nil {
		t.Fatal("rating above 5 accepted")
	}
	if err := ValidateReview(-1, "great courier"); err == nil {
		t.Fatal("negative rating accepted")
	}
	if err := ValidateReview(3, ""); err == nil {
		t.Fatal("empty description accepted")
	}
}

func TestValidateProfileUpdate(t *testing.T) {
	if err := ValidateProfileUpdate("Abel T", "short bio"); err != nil {
		t.Fatalf("valid update rejected: %v", err)
	}
	if err := ValidateProfileUpdate("", "bio"); err == nil {
		t.Fatal("empty fullname accepted")
	}

	long := make([]byte, maxBioLen+1)
	for i := range long {
		long[i] = 'x'
	}
	if err := ValidateProfileUpdate("Abel T", string(long)); err == nil {
		t.Fatal("over-long bio accepted")
	}
}
