// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/digital-access/dai"
	"github.com/danielhkuo/digital-access/db"
	"github.com/danielhkuo/digital-access/metrics"
	"github.com/danielhkuo/digital-access/middleware"
	"github.com/danielhkuo/digital-access/models"
)

const maxAge = 120

var schoolTypes = map[string]bool{
	models.SchoolNone:    true,
	models.SchoolPublic:  true,
	models.SchoolPrivate: true,
	models.SchoolTVET:    true,
	models.SchoolUni:     true,
}

var genders = map[string]bool{
	models.GenderMale:   true,
	models.GenderFemale: true,
	models.GenderOther:  true,
}

// has_internet_access comes from the owning household and feeds has_digital_access
const personColumns = `
	p.id, p.household_id, p.age, p.gender, p.education_level, p.currently_studying, p.school_type,
	p.has_own_device, p.device_type, p.internet_usage_hours, p.uses_internet_for_education,
	p.average_academic_score, p.digital_literacy_score, p.created_at, p.updated_at,
	h.has_internet_access
`

const personFrom = " FROM person p JOIN household h ON h.id = p.household_id"

type PersonHandler struct {
	db    *sql.DB
	cache *ReadCache
}

func NewPersonHandler(db *sql.DB, cache *ReadCache) *PersonHandler {
	return &PersonHandler{db: db, cache: cache}
}

// CreatePerson handles POST /households/{id}/persons
func (h *PersonHandler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	householdID := r.PathValue("id")
	if householdID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "household_id is required")
		return
	}

	var req models.PersonRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalidJSON, "Invalid JSON")
		return
	}

	req.PersonID = strings.TrimSpace(req.PersonID)
	if req.PersonID == "" {
		req.PersonID = uuid.NewString()
	}
	if len(req.PersonID) > maxRecordID {
		middleware.FieldErrorResponse(w, http.StatusBadRequest, models.CodeInvalidField,
			"person_id", fmt.Sprintf("person_id must be at most %d characters", maxRecordID))
		return
	}

	literacy, ok := validateAndScorePerson(w, &req)
	if !ok {
		return
	}

	now := time.Now().UTC()
	_, err := h.db.ExecContext(r.Context(), `
		INSERT INTO person (id, household_id, age, gender, education_level, currently_studying, school_type,
			has_own_device, device_type, internet_usage_hours, uses_internet_for_education,
			average_academic_score, digital_literacy_score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
	`, req.PersonID, householdID, req.Age, req.Gender, req.EducationLevel, req.CurrentlyStudying, req.SchoolType,
		req.HasOwnDevice, req.DeviceType, req.InternetUsageHours, req.UsesInternetForEducation,
		req.AverageAcademicScore, literacy.Score, now)

	if db.IsForeignKeyViolation(err) {
		middleware.CodedErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Household not found")
		return
	}
	if db.IsUniqueViolation(err) {
		middleware.CodedErrorResponse(w, http.StatusConflict, models.CodeConflict, "Person already exists")
		return
	}
	if err != nil {
		slog.Error("failed to insert person", "household_id", householdID, "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to create person")
		return
	}

	h.cache.Invalidate()
	metrics.ObserveLiteracy(literacy.Score)

	person, err := h.loadPerson(r.Context(), req.PersonID)
	if err != nil {
		slog.Error("failed to reload person", "person_id", req.PersonID, "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	slog.Info("person created",
		"person_id", req.PersonID,
		"household_id", householdID,
		"literacy", literacy.Score,
	)

	middleware.JSONResponse(w, http.StatusCreated, person)
}

// ListPersons handles GET /households/{id}/persons
func (h *PersonHandler) ListPersons(w http.ResponseWriter, r *http.Request) {
	householdID := r.PathValue("id")
	if householdID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "household_id is required")
		return
	}

	key := cacheKey("persons", householdID)
	cached, gen, found := h.cache.Get(key)
	if found {
		middleware.JSONResponse(w, http.StatusOK, cached)
		return
	}

	var exists int
	err := h.db.QueryRowContext(r.Context(), "SELECT 1 FROM household WHERE id = $1", householdID).Scan(&exists)
	if err == sql.ErrNoRows {
		middleware.CodedErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Household not found")
		return
	}
	if err != nil {
		slog.Error("failed to query household", "household_id", householdID, "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	rows, err := h.db.QueryContext(r.Context(),
		"SELECT "+personColumns+personFrom+" WHERE p.household_id = $1 ORDER BY p.age, p.id", householdID)
	if err != nil {
		slog.Error("failed to query persons", "household_id", householdID, "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}
	defer rows.Close()

	persons := []models.Person{}
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			slog.Error("failed to scan person", "error", err)
			middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
			return
		}
		persons = append(persons, person)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate persons", "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	resp := models.PersonListResponse{HouseholdID: householdID, Persons: persons}
	h.cache.Fill(gen, key, resp)

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetPerson handles GET /persons/{id}
func (h *PersonHandler) GetPerson(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "person_id is required")
		return
	}

	key := cacheKey("person", id)
	cached, gen, found := h.cache.Get(key)
	if found {
		middleware.JSONResponse(w, http.StatusOK, cached)
		return
	}

	person, err := h.loadPerson(r.Context(), id)
	if err == sql.ErrNoRows {
		middleware.CodedErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Person not found")
		return
	}
	if err != nil {
		slog.Error("failed to query person", "person_id", id, "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	h.cache.Fill(gen, key, person)

	middleware.JSONResponse(w, http.StatusOK, person)
}

// UpdatePerson handles PUT /persons/{id}
// Replaces every attribute except the household link and recomputes literacy.
func (h *PersonHandler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "person_id is required")
		return
	}

	var req models.PersonRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalidJSON, "Invalid JSON")
		return
	}

	literacy, ok := validateAndScorePerson(w, &req)
	if !ok {
		return
	}

	res, err := h.db.ExecContext(r.Context(), `
		UPDATE person
		SET age = $1, gender = $2, education_level = $3, currently_studying = $4, school_type = $5,
			has_own_device = $6, device_type = $7, internet_usage_hours = $8,
			uses_internet_for_education = $9, average_academic_score = $10,
			digital_literacy_score = $11, updated_at = $12
		WHERE id = $13
	`, req.Age, req.Gender, req.EducationLevel, req.CurrentlyStudying, req.SchoolType,
		req.HasOwnDevice, req.DeviceType, req.InternetUsageHours,
		req.UsesInternetForEducation, req.AverageAcademicScore,
		literacy.Score, time.Now().UTC(), id)

	if err != nil {
		slog.Error("failed to update person", "person_id", id, "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to update person")
		return
	}

	affected, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to update person")
		return
	}
	if affected == 0 {
		middleware.CodedErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Person not found")
		return
	}

	h.cache.Invalidate()
	metrics.ObserveLiteracy(literacy.Score)

	person, err := h.loadPerson(r.Context(), id)
	if err != nil {
		slog.Error("failed to reload person", "person_id", id, "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	slog.Info("person updated", "person_id", id, "literacy", literacy.Score)

	middleware.JSONResponse(w, http.StatusOK, person)
}

// DeletePerson handles DELETE /persons/{id}
func (h *PersonHandler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "person_id is required")
		return
	}

	res, err := h.db.ExecContext(r.Context(), "DELETE FROM person WHERE id = $1", id)
	if err != nil {
		slog.Error("failed to delete person", "person_id", id, "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to delete person")
		return
	}

	affected, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to delete person")
		return
	}
	if affected == 0 {
		middleware.CodedErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Person not found")
		return
	}

	h.cache.Invalidate()

	slog.Info("person deleted", "person_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// GetEducationStats handles GET /persons/stats
// Groups persons by education level, optionally within one province.
func (h *PersonHandler) GetEducationStats(w http.ResponseWriter, r *http.Request) {
	province := r.URL.Query().Get("province")
	if province != "" {
		if _, ok := models.Provinces[province]; !ok {
			middleware.FieldErrorResponse(w, http.StatusBadRequest, models.CodeInvalidFilter,
				"province", fmt.Sprintf("unknown province %q", province))
			return
		}
	}

	key := cacheKey("education_stats", province)
	cached, gen, found := h.cache.Get(key)
	if found {
		middleware.JSONResponse(w, http.StatusOK, cached)
		return
	}

	where := ""
	var args []any
	if province != "" {
		where = " WHERE h.province = $1"
		args = append(args, province)
	}

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT p.education_level,
			COUNT(*),
			SUM(CASE WHEN p.currently_studying AND p.school_type <> 'NONE' THEN 1 ELSE 0 END),
			AVG(p.digital_literacy_score),
			AVG(p.average_academic_score),
			SUM(CASE WHEN p.has_own_device AND h.has_internet_access AND p.internet_usage_hours > 0 THEN 1 ELSE 0 END),
			SUM(CASE WHEN p.uses_internet_for_education THEN 1 ELSE 0 END)`+
		personFrom+where+`
		GROUP BY p.education_level
		ORDER BY p.education_level`, args...)
	if err != nil {
		slog.Error("failed to query education stats", "province", province, "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}
	defer rows.Close()

	groups := []models.EducationStats{}
	for rows.Next() {
		var g models.EducationStats
		var academic sql.NullFloat64
		if err := rows.Scan(&g.EducationLevel, &g.PersonCount, &g.StudentCount, &g.MeanLiteracy,
			&academic, &g.DigitalAccess, &g.EducationUsers); err != nil {
			slog.Error("failed to scan education stats", "error", err)
			middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
			return
		}
		g.MeanLiteracy = roundTo(g.MeanLiteracy, 3)
		if academic.Valid {
			v := roundTo(academic.Float64, 2)
			g.MeanAcademicScore = &v
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate education stats", "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	resp := models.EducationStatsResponse{Groups: groups}
	h.cache.Fill(gen, key, resp)

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// validateAndScorePerson checks record fields, then computes literacy.
// It writes the error response itself and reports false on failure.
func validateAndScorePerson(w http.ResponseWriter, req *models.PersonRequest) (dai.LiteracyResult, bool) {
	if req.SchoolType == "" {
		req.SchoolType = models.SchoolNone
	}
	if req.DeviceType != nil {
		if v := strings.TrimSpace(*req.DeviceType); v == "" {
			req.DeviceType = nil
		} else {
			req.DeviceType = &v
		}
	}

	if field, msg := validatePerson(req); field != "" {
		middleware.FieldErrorResponse(w, http.StatusBadRequest, models.CodeInvalidField, field, msg)
		return dai.LiteracyResult{}, false
	}

	result, err := dai.Literacy(dai.PersonUsage{
		HasOwnDevice:             req.HasOwnDevice,
		InternetUsageHours:       req.InternetUsageHours,
		UsesInternetForEducation: req.UsesInternetForEducation,
	})
	if err != nil {
		writeCalculatorError(w, err)
		return dai.LiteracyResult{}, false
	}

	return result, true
}

// validatePerson returns the first invalid field and a message, or "" if valid
func validatePerson(req *models.PersonRequest) (string, string) {
	if req.Age < 0 || req.Age > maxAge {
		return "age", fmt.Sprintf("age must be between 0 and %d", maxAge)
	}
	if !genders[req.Gender] {
		return "gender", "gender must be one of M, F, O"
	}
	if _, ok := models.EducationLevels[req.EducationLevel]; !ok {
		return "education_level", "education_level must be one of NONE, PRIM, SECO, MATR, DIPL, DEGR, POST"
	}
	if !schoolTypes[req.SchoolType] {
		return "school_type", "school_type must be one of NONE, PUB, PRI, TVET, UNI"
	}
	if s := req.AverageAcademicScore; s != nil && (math.IsNaN(*s) || *s < 0 || *s > 100) {
		return "average_academic_score", "average_academic_score must be between 0 and 100"
	}
	return "", ""
}

func (h *PersonHandler) loadPerson(ctx context.Context, id string) (models.Person, error) {
	row := h.db.QueryRowContext(ctx, "SELECT "+personColumns+personFrom+" WHERE p.id = $1", id)
	return scanPerson(row)
}

func scanPerson(s rowScanner) (models.Person, error) {
	var p models.Person
	var device sql.NullString
	var academic sql.NullFloat64
	var householdInternet bool
	err := s.Scan(
		&p.ID, &p.HouseholdID, &p.Age, &p.Gender, &p.EducationLevel, &p.CurrentlyStudying, &p.SchoolType,
		&p.HasOwnDevice, &device, &p.InternetUsageHours, &p.UsesInternetForEducation,
		&academic, &p.DigitalLiteracyScore, &p.CreatedAt, &p.UpdatedAt,
		&householdInternet,
	)
	if err != nil {
		return models.Person{}, err
	}
	if device.Valid {
		v := device.String
		p.DeviceType = &v
	}
	if academic.Valid {
		v := academic.Float64
		p.AverageAcademicScore = &v
	}

	p.IsStudent = p.CurrentlyStudying && p.SchoolType != models.SchoolNone
	p.HasDigitalAccess = p.HasOwnDevice && householdInternet && p.InternetUsageHours > 0
	return p, nil
}
