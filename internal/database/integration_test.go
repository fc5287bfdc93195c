package database

import (
	"os"
	"testing"
)

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := "test_integration.db"
	defer os.Remove(dbPath)

	db, err := InitializeSQLite(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// Test that tables were created by migrations
	tables := []string{
		"guardians", "sessions", "password_reset_tokens", "taxonomy_values",
		"children", "child_attributes", "child_likes", "meetings",
	}

	for _, table := range tables {
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		var name string
		err := db.QueryRow(query, table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// The taxonomy seed migration should have populated the attribute values
	var taxonomyCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM taxonomy_values").Scan(&taxonomyCount); err != nil {
		t.Fatalf("Failed to count taxonomy values: %v", err)
	}
	if taxonomyCount == 0 {
		t.Error("Expected taxonomy_values to be seeded by migrations")
	}
}

// TestDatabaseTransactions tests transaction support
func TestDatabaseTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := "test_transactions.db"
	defer os.Remove(dbPath)

	db, err := InitializeSQLite(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// Test successful transaction
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}

	_, err = tx.Exec("INSERT INTO guardians (email, password_hash, name) VALUES (?, ?, ?)",
		"test@example.com", "hashedpass", "Test Guardian")
	if err != nil {
		tx.Rollback()
		t.Fatalf("Failed to insert in transaction: %v", err)
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit transaction: %v", err)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM guardians WHERE email = ?", "test@example.com").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query after commit: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 guardian, got %d", count)
	}

	// Test rollback
	tx2, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin second transaction: %v", err)
	}

	_, err = tx2.Exec("INSERT INTO guardians (email, password_hash, name) VALUES (?, ?, ?)",
		"test2@example.com", "hashedpass", "Second Guardian")
	if err != nil {
		tx2.Rollback()
		t.Fatalf("Failed to insert in second transaction: %v", err)
	}

	if err := tx2.Rollback(); err != nil {
		t.Fatalf("Failed to rollback transaction: %v", err)
	}

	err = db.QueryRow("SELECT COUNT(*) FROM guardians WHERE email = ?", "test2@example.com").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query after rollback: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 guardians after rollback, got %d", count)
	}
}

// TestConcurrentAccess tests concurrent database access
func TestConcurrentAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := "test_concurrent.db"
	defer os.Remove(dbPath)

	db, err := InitializeSQLite(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	_, err = db.Exec("INSERT INTO guardians (email, password_hash, name) VALUES (?, ?, ?)",
		"concurrent@example.com", "hashedpass", "Concurrent Guardian")
	if err != nil {
		t.Fatalf("Failed to create test guardian: %v", err)
	}

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			var name string
			err := db.QueryRow("SELECT name FROM guardians WHERE email = ?", "concurrent@example.com").Scan(&name)
			if err != nil {
				t.Errorf("Concurrent read failed: %v", err)
			}
			if name != "Concurrent Guardian" {
				t.Errorf("Expected name 'Concurrent Guardian', got '%s'", name)
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
