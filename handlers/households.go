// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/digital-access/dai"
	"github.com/danielhkuo/digital-access/db"
	"github.com/danielhkuo/digital-access/metrics"
	"github.com/danielhkuo/digital-access/middleware"
	"github.com/danielhkuo/digital-access/models"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
	maxRecordID      = 64
)

// Whitelisted stats grouping columns
var groupColumns = map[string]string{
	models.GroupByGeoType:  "geo_type",
	models.GroupByProvince: "province",
}

var internetTypes = map[string]bool{
	models.InternetNone:      true,
	models.InternetFiber:     true,
	models.InternetADSL:      true,
	models.InternetMobile:    true,
	models.InternetSatellite: true,
}

const householdColumns = `
	id, province, municipality, geo_type, household_size, monthly_income,
	has_electricity, has_internet_access, internet_type, has_computer, has_smartphone,
	num_computers, num_smartphones, access_score, access_category, created_at, updated_at
`

type HouseholdHandler struct {
	db    *sql.DB
	cache *ReadCache
}

func NewHouseholdHandler(db *sql.DB, cache *ReadCache) *HouseholdHandler {
	return &HouseholdHandler{db: db, cache: cache}
}

// CreateHousehold handles POST /households
func (h *HouseholdHandler) CreateHousehold(w http.ResponseWriter, r *http.Request) {
	var req models.HouseholdRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalidJSON, "Invalid JSON")
		return
	}

	req.HouseholdID = strings.TrimSpace(req.HouseholdID)
	if req.HouseholdID == "" {
		req.HouseholdID = uuid.NewString()
	}
	if len(req.HouseholdID) > maxRecordID {
		middleware.FieldErrorResponse(w, http.StatusBadRequest, models.CodeInvalidField,
			"household_id", fmt.Sprintf("household_id must be at most %d characters", maxRecordID))
		return
	}

	result, ok := h.validateAndScore(w, &req)
	if !ok {
		return
	}

	now := time.Now().UTC()
	_, err := h.db.ExecContext(r.Context(), `
		INSERT INTO household (id, province, municipality, geo_type, household_size, monthly_income,
			has_electricity, has_internet_access, internet_type, has_computer, has_smartphone,
			num_computers, num_smartphones, access_score, access_category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)
	`, req.HouseholdID, req.Province, req.Municipality, req.GeoType, req.HouseholdSize, req.MonthlyIncome,
		req.HasElectricity, req.HasInternetAccess, req.InternetType, req.HasComputer, req.HasSmartphone,
		req.NumComputers, req.NumSmartphones, result.Score, string(result.Category), now)

	if db.IsUniqueViolation(err) {
		middleware.CodedErrorResponse(w, http.StatusConflict, models.CodeConflict, "Household already exists")
		return
	}
	if err != nil {
		slog.Error("failed to insert household", "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to create household")
		return
	}

	h.cache.Invalidate()
	metrics.ObserveScore(string(result.Category), result.Score)

	slog.Info("household created",
		"household_id", req.HouseholdID,
		"province", req.Province,
		"score", result.Score,
	)

	middleware.JSONResponse(w, http.StatusCreated, householdFromRequest(req, result, now, now))
}

// GetHousehold handles GET /households/{id}
func (h *HouseholdHandler) GetHousehold(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "household_id is required")
		return
	}

	key := cacheKey("household", id)
	cached, gen, found := h.cache.Get(key)
	if found {
		middleware.JSONResponse(w, http.StatusOK, cached)
		return
	}

	household, err := h.loadHousehold(r.Context(), id)
	if err == sql.ErrNoRows {
		middleware.CodedErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Household not found")
		return
	}
	if err != nil {
		slog.Error("failed to query household", "household_id", id, "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	h.cache.Fill(gen, key, household)

	middleware.JSONResponse(w, http.StatusOK, household)
}

// UpdateHousehold handles PUT /households/{id}
// Replaces every attribute and recomputes the index.
func (h *HouseholdHandler) UpdateHousehold(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "household_id is required")
		return
	}

	var req models.HouseholdRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalidJSON, "Invalid JSON")
		return
	}

	result, ok := h.validateAndScore(w, &req)
	if !ok {
		return
	}

	now := time.Now().UTC()
	res, err := h.db.ExecContext(r.Context(), `
		UPDATE household
		SET province = $1, municipality = $2, geo_type = $3, household_size = $4, monthly_income = $5,
			has_electricity = $6, has_internet_access = $7, internet_type = $8, has_computer = $9,
			has_smartphone = $10, num_computers = $11, num_smartphones = $12,
			access_score = $13, access_category = $14, updated_at = $15
		WHERE id = $16
	`, req.Province, req.Municipality, req.GeoType, req.HouseholdSize, req.MonthlyIncome,
		req.HasElectricity, req.HasInternetAccess, req.InternetType, req.HasComputer,
		req.HasSmartphone, req.NumComputers, req.NumSmartphones,
		result.Score, string(result.Category), now, id)

	if err != nil {
		slog.Error("failed to update household", "household_id", id, "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to update household")
		return
	}

	affected, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to update household")
		return
	}
	if affected == 0 {
		middleware.CodedErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Household not found")
		return
	}

	h.cache.Invalidate()
	metrics.ObserveScore(string(result.Category), result.Score)

	household, err := h.loadHousehold(r.Context(), id)
	if err != nil {
		slog.Error("failed to reload household", "household_id", id, "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	slog.Info("household updated", "household_id", id, "score", result.Score)

	middleware.JSONResponse(w, http.StatusOK, household)
}

// DeleteHousehold handles DELETE /households/{id}
func (h *HouseholdHandler) DeleteHousehold(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "household_id is required")
		return
	}

	res, err := h.db.ExecContext(r.Context(), "DELETE FROM household WHERE id = $1", id)
	if err != nil {
		slog.Error("failed to delete household", "household_id", id, "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to delete household")
		return
	}

	affected, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to delete household")
		return
	}
	if affected == 0 {
		middleware.CodedErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Household not found")
		return
	}

	h.cache.Invalidate()

	slog.Info("household deleted", "household_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// ListHouseholds handles GET /households
func (h *HouseholdHandler) ListHouseholds(w http.ResponseWriter, r *http.Request) {
	f, field, err := parseListFilter(r.URL.Query())
	if err != nil {
		middleware.FieldErrorResponse(w, http.StatusBadRequest, models.CodeInvalidFilter, field, err.Error())
		return
	}

	where, args := f.where()

	var total int
	err = h.db.QueryRowContext(r.Context(), "SELECT COUNT(*) FROM household"+where, args...).Scan(&total)
	if err != nil {
		slog.Error("failed to count households", "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	query := "SELECT " + householdColumns + " FROM household" + where +
		fmt.Sprintf(" ORDER BY province, municipality, id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, f.limit, f.offset)

	rows, err := h.db.QueryContext(r.Context(), query, args...)
	if err != nil {
		slog.Error("failed to query households", "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}
	defer rows.Close()

	households := []models.Household{}
	for rows.Next() {
		household, err := scanHousehold(rows)
		if err != nil {
			slog.Error("failed to scan household", "error", err)
			middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
			return
		}
		households = append(households, household)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate households", "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.HouseholdListResponse{
		Households: households,
		Total:      total,
		Limit:      f.limit,
		Offset:     f.offset,
	})
}

// GetStats handles GET /households/stats
func (h *HouseholdHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	groupBy := r.URL.Query().Get("group_by")
	if groupBy == "" {
		groupBy = models.GroupByGeoType
	}
	column, ok := groupColumns[groupBy]
	if !ok {
		middleware.FieldErrorResponse(w, http.StatusBadRequest, models.CodeInvalidFilter,
			"group_by", "group_by must be geo_type or province")
		return
	}

	key := cacheKey("stats", groupBy)
	cached, gen, found := h.cache.Get(key)
	if found {
		middleware.JSONResponse(w, http.StatusOK, cached)
		return
	}

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT `+column+`,
			COUNT(*),
			AVG(access_score),
			SUM(CASE WHEN has_internet_access THEN 1 ELSE 0 END),
			SUM(CASE WHEN access_category = 'low' THEN 1 ELSE 0 END),
			SUM(CASE WHEN access_category = 'medium' THEN 1 ELSE 0 END),
			SUM(CASE WHEN access_category = 'high' THEN 1 ELSE 0 END)
		FROM household
		GROUP BY `+column+`
		ORDER BY `+column)
	if err != nil {
		slog.Error("failed to query stats", "group_by", groupBy, "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}
	defer rows.Close()

	groups := []models.GroupStats{}
	for rows.Next() {
		var g models.GroupStats
		var mean float64
		var withInternet int
		if err := rows.Scan(&g.Group, &g.HouseholdCount, &mean, &withInternet,
			&g.LowCount, &g.MediumCount, &g.HighCount); err != nil {
			slog.Error("failed to scan stats", "error", err)
			middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
			return
		}
		g.MeanScore = roundTo(mean, 2)
		if g.HouseholdCount > 0 {
			g.InternetShare = roundTo(float64(withInternet)/float64(g.HouseholdCount), 4)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate stats", "error", err)
		middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Database error")
		return
	}

	resp := models.HouseholdStatsResponse{GroupBy: groupBy, Groups: groups}
	h.cache.Fill(gen, key, resp)

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// validateAndScore checks record-level fields, then runs the calculator.
// It writes the error response itself and reports false on failure.
func (h *HouseholdHandler) validateAndScore(w http.ResponseWriter, req *models.HouseholdRequest) (dai.Result, bool) {
	req.Municipality = strings.TrimSpace(req.Municipality)
	if req.InternetType == "" {
		req.InternetType = models.InternetNone
	}

	if field, msg := validateHousehold(req); field != "" {
		middleware.FieldErrorResponse(w, http.StatusBadRequest, models.CodeInvalidField, field, msg)
		return dai.Result{}, false
	}

	result, err := dai.Compute(dai.Profile{
		HasInternetAccess: req.HasInternetAccess,
		HasComputer:       req.HasComputer,
		HasSmartphone:     req.HasSmartphone,
		NumSmartphones:    req.NumSmartphones,
		NumComputers:      req.NumComputers,
		HouseholdSize:     req.HouseholdSize,
		GeoType:           dai.GeoType(req.GeoType),
	})
	if err != nil {
		writeCalculatorError(w, err)
		return dai.Result{}, false
	}

	return result, true
}

// validateHousehold returns the first invalid field and a message, or "" if valid
func validateHousehold(req *models.HouseholdRequest) (string, string) {
	if _, ok := models.Provinces[req.Province]; !ok {
		return "province", "province must be one of EC, FS, GP, KZN, LP, MP, NC, NW, WC"
	}
	if req.Municipality == "" {
		return "municipality", "municipality is required"
	}
	if !dai.GeoType(req.GeoType).Valid() {
		return "geo_type", "geo_type must be one of urban, rural, metro, informal"
	}
	if req.MonthlyIncome != nil && (*req.MonthlyIncome < 0 || math.IsNaN(*req.MonthlyIncome) || math.IsInf(*req.MonthlyIncome, 0)) {
		return "monthly_income", "monthly_income must not be negative"
	}
	if !internetTypes[req.InternetType] {
		return "internet_type", "internet_type must be one of none, fiber, adsl, mobile, satellite"
	}
	return "", ""
}

func householdFromRequest(req models.HouseholdRequest, result dai.Result, created, updated time.Time) models.Household {
	return models.Household{
		ID:                 req.HouseholdID,
		Province:           req.Province,
		Municipality:       req.Municipality,
		GeoType:            req.GeoType,
		HouseholdSize:      req.HouseholdSize,
		MonthlyIncome:      req.MonthlyIncome,
		HasElectricity:     req.HasElectricity,
		HasInternetAccess:  req.HasInternetAccess,
		InternetType:       req.InternetType,
		HasComputer:        req.HasComputer,
		HasSmartphone:      req.HasSmartphone,
		NumComputers:       req.NumComputers,
		NumSmartphones:     req.NumSmartphones,
		DigitalAccessIndex: result.Score,
		AccessCategory:     string(result.Category),
		CreatedAt:          created,
		UpdatedAt:          updated,
	}
}

func (h *HouseholdHandler) loadHousehold(ctx context.Context, id string) (models.Household, error) {
	row := h.db.QueryRowContext(ctx, "SELECT "+householdColumns+" FROM household WHERE id = $1", id)
	return scanHousehold(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHousehold(s rowScanner) (models.Household, error) {
	var hh models.Household
	var income sql.NullFloat64
	err := s.Scan(
		&hh.ID, &hh.Province, &hh.Municipality, &hh.GeoType, &hh.HouseholdSize, &income,
		&hh.HasElectricity, &hh.HasInternetAccess, &hh.InternetType, &hh.HasComputer, &hh.HasSmartphone,
		&hh.NumComputers, &hh.NumSmartphones, &hh.DigitalAccessIndex, &hh.AccessCategory,
		&hh.CreatedAt, &hh.UpdatedAt,
	)
	if err != nil {
		return models.Household{}, err
	}
	if income.Valid {
		v := income.Float64
		hh.MonthlyIncome = &v
	}
	return hh, nil
}

// listFilter holds the validated query parameters for ListHouseholds
type listFilter struct {
	province    string
	geoType     string
	category    string
	hasInternet *bool
	minScore    *float64
	maxScore    *float64
	limit       int
	offset      int
}

// parseListFilter validates query parameters. On failure it returns the
// offending parameter name alongside the error.
func parseListFilter(q url.Values) (listFilter, string, error) {
	f := listFilter{limit: defaultListLimit}

	if v := q.Get("province"); v != "" {
		if _, ok := models.Provinces[v]; !ok {
			return f, "province", fmt.Errorf("unknown province %q", v)
		}
		f.province = v
	}

	if v := q.Get("geo_type"); v != "" {
		if !dai.GeoType(v).Valid() {
			return f, "geo_type", fmt.Errorf("unknown geo_type %q", v)
		}
		f.geoType = v
	}

	if v := q.Get("category"); v != "" {
		switch dai.Category(v) {
		case dai.CategoryLow, dai.CategoryMedium, dai.CategoryHigh:
			f.category = v
		default:
			return f, "category", fmt.Errorf("unknown category %q", v)
		}
	}

	if v := q.Get("has_internet"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, "has_internet", fmt.Errorf("has_internet must be true or false")
		}
		f.hasInternet = &b
	}

	for _, p := range []struct {
		name string
		dest **float64
	}{
		{"min_score", &f.minScore},
		{"max_score", &f.maxScore},
	} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(n) || n < 0 || n > 100 {
			return f, p.name, fmt.Errorf("%s must be a number between 0 and 100", p.name)
		}
		*p.dest = &n
	}
	if f.minScore != nil && f.maxScore != nil && *f.minScore > *f.maxScore {
		return f, "min_score", errors.New("min_score must not exceed max_score")
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return f, "limit", errors.New("limit must be a positive integer")
		}
		f.limit = min(n, maxListLimit)
	}

	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, "offset", errors.New("offset must be a non-negative integer")
		}
		f.offset = n
	}

	return f, "", nil
}

// where builds the WHERE clause and its positional arguments
func (f listFilter) where() (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.province != "" {
		add("province = $%d", f.province)
	}
	if f.geoType != "" {
		add("geo_type = $%d", f.geoType)
	}
	if f.category != "" {
		add("access_category = $%d", f.category)
	}
	if f.hasInternet != nil {
		add("has_internet_access = $%d", *f.hasInternet)
	}
	if f.minScore != nil {
		add("access_score >= $%d", *f.minScore)
	}
	if f.maxScore != nil {
		add("access_score <= $%d", *f.maxScore)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
