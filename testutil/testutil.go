// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/digital-access/cliparse"
	"github.com/danielhkuo/digital-access/dai"
	"github.com/danielhkuo/digital-access/db"
)

// TestDBURL is the connection string for the test database
const TestDBURL = ":memory:"

// SetupTestDB creates a fresh in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.DriverSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  TestDBURL,
		DatabaseType: cliparse.DatabaseSQLite,
		LogLevel:     "error",
		LogFormat:    "text",
		CacheTTL:     time.Minute,
	}
}

// HouseholdFixture describes a household row for CreateTestHousehold.
// Empty location fields default to an urban Gauteng household of four.
type HouseholdFixture struct {
	ID                string
	Province          string
	Municipality      string
	GeoType           string
	HouseholdSize     int
	HasInternetAccess bool
	HasComputer       bool
	HasSmartphone     bool
	NumComputers      int
	NumSmartphones    int
}

// CreateTestHousehold inserts a household with its index computed and returns its ID
func CreateTestHousehold(t *testing.T, conn *sql.DB, f HouseholdFixture) string {
	t.Helper()

	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Province == "" {
		f.Province = "GP"
	}
	if f.Municipality == "" {
		f.Municipality = "Johannesburg"
	}
	if f.GeoType == "" {
		f.GeoType = string(dai.GeoUrban)
	}
	if f.HouseholdSize == 0 {
		f.HouseholdSize = 4
	}

	result, err := dai.Compute(dai.Profile{
		HasInternetAccess: f.HasInternetAccess,
		HasComputer:       f.HasComputer,
		HasSmartphone:     f.HasSmartphone,
		NumSmartphones:    f.NumSmartphones,
		NumComputers:      f.NumComputers,
		HouseholdSize:     f.HouseholdSize,
		GeoType:           dai.GeoType(f.GeoType),
	})
	if err != nil {
		t.Fatalf("Invalid test household: %v", err)
	}

	internetType := "none"
	if f.HasInternetAccess {
		internetType = "fiber"
	}

	now := time.Now().UTC()
	_, err = conn.Exec(`
		INSERT INTO household (id, province, municipality, geo_type, household_size,
			has_electricity, has_internet_access, internet_type, has_computer, has_smartphone,
			num_computers, num_smartphones, access_score, access_category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $15)
	`, f.ID, f.Province, f.Municipality, f.GeoType, f.HouseholdSize,
		true, f.HasInternetAccess, internetType, f.HasComputer, f.HasSmartphone,
		f.NumComputers, f.NumSmartphones, result.Score, string(result.Category), now)
	if err != nil {
		t.Fatalf("Failed to create test household: %v", err)
	}

	return f.ID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
