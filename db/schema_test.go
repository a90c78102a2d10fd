// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"testing"
	"time"
)

func TestCreateSchema_Idempotent(t *testing.T) {
	conn, err := Open(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	for i := 0; i < 2; i++ {
		if err := CreateSchema(conn); err != nil {
			t.Fatalf("CreateSchema() call %d error = %v", i+1, err)
		}
	}

	var count int
	if err := conn.QueryRow("SELECT COUNT(*) FROM household").Scan(&count); err != nil {
		t.Fatalf("household table missing: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty table, got %d rows", count)
	}
}

func TestCreateSchema_Constraints(t *testing.T) {
	conn, err := Open(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	if err := CreateSchema(conn); err != nil {
		t.Fatalf("CreateSchema() error = %v", err)
	}

	insert := `
		INSERT INTO household (id, province, municipality, geo_type, household_size,
			access_score, access_category, created_at, updated_at)
		VALUES ($1, 'GP', 'Johannesburg', $2, $3, $4, $5, $6, $6)
	`
	now := time.Now().UTC()

	if _, err := conn.Exec(insert, "ok", "urban", 3, 42.5, "medium", now); err != nil {
		t.Fatalf("valid insert failed: %v", err)
	}

	tests := []struct {
		name     string
		id       string
		geoType  string
		size     int
		score    float64
		category string
	}{
		{"zero household size", "bad-size", "urban", 0, 10, "low"},
		{"unknown geo type", "bad-geo", "suburban", 2, 10, "low"},
		{"score above 100", "bad-score", "rural", 2, 101, "high"},
		{"unknown category", "bad-cat", "rural", 2, 10, "none"},
		{"duplicate id", "ok", "urban", 3, 42.5, "medium"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := conn.Exec(insert, tt.id, tt.geoType, tt.size, tt.score, tt.category, now); err == nil {
				t.Error("expected constraint violation")
			}
		})
	}
}

func TestOpen_UnsupportedType(t *testing.T) {
	if _, err := Open("mysql", "whatever"); err == nil {
		t.Error("expected error for unsupported database type")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	conn, err := Open(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	if err := CreateSchema(conn); err != nil {
		t.Fatalf("CreateSchema() error = %v", err)
	}

	insert := `
		INSERT INTO household (id, province, municipality, geo_type, household_size,
			access_score, access_category, created_at, updated_at)
		VALUES ('dup', 'WC', 'Cape Town', 'metro', 2, 0, 'low', $1, $1)
	`
	now := time.Now().UTC()

	if _, err := conn.Exec(insert, now); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}

	_, err = conn.Exec(insert, now)
	if err == nil {
		t.Fatal("expected duplicate insert to fail")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation(%v) = false, want true", err)
	}

	// Check constraint failures are not unique violations
	_, err = conn.Exec(`
		INSERT INTO household (id, province, municipality, geo_type, household_size,
			access_score, access_category, created_at, updated_at)
		VALUES ('other', 'WC', 'Cape Town', 'metro', 0, 0, 'low', $1, $1)
	`, now)
	if err == nil {
		t.Fatal("expected check constraint failure")
	}
	if IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation(%v) = true for a check constraint", err)
	}

	if IsUniqueViolation(nil) {
		t.Error("IsUniqueViolation(nil) = true")
	}
}

func TestPersonForeignKey(t *testing.T) {
	conn, err := Open(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	if err := CreateSchema(conn); err != nil {
		t.Fatalf("CreateSchema() error = %v", err)
	}

	now := time.Now().UTC()
	_, err = conn.Exec(`
		INSERT INTO household (id, province, municipality, geo_type, household_size,
			access_score, access_category, created_at, updated_at)
		VALUES ('hh-1', 'LP', 'Polokwane', 'rural', 3, 0, 'low', $1, $1)
	`, now)
	if err != nil {
		t.Fatalf("household insert failed: %v", err)
	}

	insertPerson := `
		INSERT INTO person (id, household_id, age, gender, education_level,
			digital_literacy_score, created_at, updated_at)
		VALUES ($1, $2, 15, 'F', 'SECO', 0.3, $3, $3)
	`

	if _, err := conn.Exec(insertPerson, "p-1", "hh-1", now); err != nil {
		t.Fatalf("person insert failed: %v", err)
	}

	t.Run("unknown household rejected", func(t *testing.T) {
		_, err := conn.Exec(insertPerson, "p-2", "missing", now)
		if err == nil {
			t.Fatal("expected foreign key violation")
		}
		if !IsForeignKeyViolation(err) {
			t.Errorf("IsForeignKeyViolation(%v) = false, want true", err)
		}
		if IsUniqueViolation(err) {
			t.Errorf("IsUniqueViolation(%v) = true for a foreign key failure", err)
		}
	})

	t.Run("deleting household removes members", func(t *testing.T) {
		if _, err := conn.Exec("DELETE FROM household WHERE id = 'hh-1'"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}

		var count int
		if err := conn.QueryRow("SELECT COUNT(*) FROM person").Scan(&count); err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count != 0 {
			t.Errorf("expected cascade to remove persons, %d left", count)
		}
	})

	if IsForeignKeyViolation(nil) {
		t.Error("IsForeignKeyViolation(nil) = true")
	}
}
