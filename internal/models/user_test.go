package models

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/trungtung03/sicbo-test/cmd/db"
)

// requireDB skips tests that need a live postgres instance. The connection
// comes from the POSTGRES_* environment variables, same as the server.
func requireDB(t *testing.T) {
	t.Helper()
	if db.DB == nil {
		t.Skip("postgres not configured, set the POSTGRES_* environment variables")
	}
}

func createTestUser(t *testing.T, balance int64) *User {
	t.Helper()
	user := User{
		Username: fmt.Sprintf("debit-test-%d", time.Now().UnixNano()),
		Balance:  balance,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() {
		db.DB.Delete(&User{}, user.ID)
	})
	return &user
}

func TestDebitUserBalanceInsufficient(t *testing.T) {
	requireDB(t)
	if err := db.DB.AutoMigrate(&User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	user := createTestUser(t, 10000)

	ok, err := DebitUserBalance(nil, user.ID, 20000)
	if err != nil {
		t.Fatalf("DebitUserBalance: %v", err)
	}
	if ok {
		t.Fatal("debit above balance should be refused")
	}

	after, err := GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if after.Balance != 10000 {
		t.Fatalf("balance = %d after refused debit, want 10000", after.Balance)
	}
}

func TestDebitUserBalanceConcurrent(t *testing.T) {
	requireDB(t)
	if err := db.DB.AutoMigrate(&User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	user := createTestUser(t, 10000)

	// Two debits race for a balance that covers only one of them. Exactly
	// one must go through.
	var wg sync.WaitGroup
	results := make([]bool, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := DebitUserBalance(nil, user.ID, 10000)
			if err != nil {
				t.Errorf("DebitUserBalance: %v", err)
				return
			}
			results[i] = ok
		}(i)
	}
	wg.Wait()

	if results[0] == results[1] {
		t.Fatalf("debit results = %v, want exactly one success", results)
	}

	after, err := GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if after.Balance != 0 {
		t.Fatalf("balance = %d after racing debits, want 0", after.Balance)
	}
}
