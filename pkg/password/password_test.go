package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	h, err := Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if h == "correct horse battery staple" {
		t.Fatal("hash equals plaintext")
	}

	if !Verify("correct horse battery staple", h) {
		t.Fatal("Verify rejected the original password")
	}
	if Verify("wrong password", h) {
		t.Fatal("Verify accepted a wrong password")
	}
}

func TestVerify_InvalidHash(t *testing.T) {
	t.Parallel()

	if Verify("anything", "not-a-bcrypt-hash") {
		t.Fatal("Verify accepted an invalid stored hash")
	}
}

func TestVerifyDummy_DoesNotPanic(t *testing.T) {
	t.Parallel()

	VerifyDummy("anything")
}
