// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/digital-access/models"
	"github.com/danielhkuo/digital-access/testutil"
)

// TestConcurrentHouseholdCreates verifies that simultaneous creates with
// distinct IDs all land exactly once
func TestConcurrentHouseholdCreates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewHouseholdHandler(db, NewReadCache(time.Minute))

	numHouseholds := 20
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numHouseholds; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			reqBody := validHouseholdRequest()
			reqBody.HouseholdID = fmt.Sprintf("concurrent-%02d", idx)
			reqBody.NumSmartphones = idx % 5

			req := testutil.MakeRequest("POST", "/households", reqBody, nil)
			w := httptest.NewRecorder()

			handler.CreateHousehold(w, req)

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numHouseholds {
		t.Errorf("Expected %d successful creates, got %d", numHouseholds, successCount.Load())
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM household").Scan(&count); err != nil {
		t.Fatalf("Failed to count households: %v", err)
	}
	if count != numHouseholds {
		t.Errorf("Expected %d households in database, got %d", numHouseholds, count)
	}
}

// TestConcurrentDuplicateCreates verifies that when several goroutines
// create the same household ID, exactly one succeeds and the rest conflict
func TestConcurrentDuplicateCreates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewHouseholdHandler(db, NewReadCache(time.Minute))

	numAttempts := 5
	var created, conflicts atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			reqBody := validHouseholdRequest()
			reqBody.HouseholdID = "contested"

			req := testutil.MakeRequest("POST", "/households", reqBody, nil)
			w := httptest.NewRecorder()

			handler.CreateHousehold(w, req)

			switch w.Code {
			case http.StatusCreated:
				created.Add(1)
			case http.StatusConflict:
				conflicts.Add(1)
			}
		}()
	}

	wg.Wait()

	if created.Load() != 1 {
		t.Errorf("Expected exactly 1 successful create, got %d", created.Load())
	}
	if conflicts.Load() != int32(numAttempts-1) {
		t.Errorf("Expected %d conflicts, got %d", numAttempts-1, conflicts.Load())
	}
}

// TestConcurrentIndexRequests verifies the index endpoint returns identical
// results under concurrent load
func TestConcurrentIndexRequests(t *testing.T) {
	handler := newTestIndexHandler()

	body := models.AccessIndexRequest{
		HasInternetAccess: true,
		HasComputer:       true,
		HasSmartphone:     true,
		NumSmartphones:    2,
		NumComputers:      1,
		HouseholdSize:     4,
		GeoType:           "urban",
	}

	numRequests := 50
	var mismatches atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/digital-access-index", body, nil)
			w := httptest.NewRecorder()

			handler.ComputeIndex(w, req)

			if w.Code != http.StatusOK || w.Body.String() != "{\"score\":78.75,\"category\":\"high\"}\n" {
				mismatches.Add(1)
			}
		}()
	}

	wg.Wait()

	if mismatches.Load() != 0 {
		t.Errorf("Expected identical responses, got %d mismatches", mismatches.Load())
	}
}

// TestConcurrentReadsDuringWrites verifies cached reads stay consistent
// while the cache is being flushed by writes
func TestConcurrentReadsDuringWrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewHouseholdHandler(db, NewReadCache(time.Minute))
	id := testutil.CreateTestHousehold(t, db, testutil.HouseholdFixture{ID: "shared"})

	var failures atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			req := httptest.NewRequest("GET", "/households/"+id, nil)
			req.SetPathValue("id", id)
			w := httptest.NewRecorder()
			handler.GetHousehold(w, req)
			if w.Code != http.StatusOK {
				failures.Add(1)
			}
		}()

		go func(n int) {
			defer wg.Done()
			reqBody := validHouseholdRequest()
			reqBody.NumComputers = n
			req := testutil.MakeRequest("PUT", "/households/"+id, reqBody, nil)
			req.SetPathValue("id", id)
			w := httptest.NewRecorder()
			handler.UpdateHousehold(w, req)
			if w.Code != http.StatusOK {
				failures.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if failures.Load() != 0 {
		t.Errorf("Expected no failures, got %d", failures.Load())
	}
}
