package security

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("HashPassword returned the plaintext password")
	}

	if !CheckPasswordHash("secret123", hash) {
		t.Error("CheckPasswordHash rejected the correct password")
	}
	if CheckPasswordHash("wrong-password", hash) {
		t.Error("CheckPasswordHash accepted a wrong password")
	}
}

func TestCheckPasswordHashInvalidHash(t *testing.T) {
	t.Parallel()
	if CheckPasswordHash("anything", "not-a-bcrypt-hash") {
		t.Error("CheckPasswordHash accepted a malformed hash")
	}
}

func TestSetHashCostIgnoresOutOfRange(t *testing.T) {
	prev := hashCost
	defer func() { hashCost = prev }()

	SetHashCost(1000)
	if hashCost == 1000 {
		t.Error("SetHashCost accepted an out-of-range cost")
	}
	SetHashCost(6)
	if hashCost != 6 {
		t.Errorf("SetHashCost(6): hashCost is %d, want 6", hashCost)
	}
}
