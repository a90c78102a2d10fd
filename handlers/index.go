// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/digital-access/dai"
	"github.com/danielhkuo/digital-access/metrics"
	"github.com/danielhkuo/digital-access/middleware"
	"github.com/danielhkuo/digital-access/models"
)

// IndexHandler serves the stateless scoring endpoints
type IndexHandler struct{}

func NewIndexHandler() *IndexHandler {
	return &IndexHandler{}
}

// ComputeIndex handles POST /digital-access-index
func (h *IndexHandler) ComputeIndex(w http.ResponseWriter, r *http.Request) {
	var req models.AccessIndexRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalidJSON, "Invalid JSON")
		return
	}

	result, err := dai.Compute(profileFromRequest(req))
	if err != nil {
		writeCalculatorError(w, err)
		return
	}

	metrics.ObserveScore(string(result.Category), result.Score)

	middleware.JSONResponse(w, http.StatusOK, models.AccessIndexResponse{
		Score:    result.Score,
		Category: string(result.Category),
	})
}

// ComputeLiteracy handles POST /digital-literacy
func (h *IndexHandler) ComputeLiteracy(w http.ResponseWriter, r *http.Request) {
	var req models.LiteracyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.CodedErrorResponse(w, http.StatusBadRequest, models.CodeInvalidJSON, "Invalid JSON")
		return
	}

	result, err := dai.Literacy(dai.PersonUsage{
		HasOwnDevice:             req.HasOwnDevice,
		InternetUsageHours:       req.InternetUsageHours,
		UsesInternetForEducation: req.UsesInternetForEducation,
	})
	if err != nil {
		writeCalculatorError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LiteracyResponse{Score: result.Score})
}

func profileFromRequest(req models.AccessIndexRequest) dai.Profile {
	return dai.Profile{
		HasInternetAccess: req.HasInternetAccess,
		HasComputer:       req.HasComputer,
		HasSmartphone:     req.HasSmartphone,
		NumSmartphones:    req.NumSmartphones,
		NumComputers:      req.NumComputers,
		HouseholdSize:     req.HouseholdSize,
		GeoType:           dai.GeoType(req.GeoType),
	}
}

// writeCalculatorError maps calculator failures to a 400 naming the field.
// Anything else is unexpected and becomes a 500.
func writeCalculatorError(w http.ResponseWriter, err error) {
	var invalid *dai.InvalidProfileError
	if errors.As(err, &invalid) {
		metrics.ObserveInvalidProfile(invalid.Field)
		middleware.FieldErrorResponse(w, http.StatusBadRequest, models.CodeInvalidProfile,
			invalid.Field, invalid.Field+" "+invalid.Reason)
		return
	}

	slog.Error("calculator failed", "error", err)
	middleware.CodedErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to compute index")
}
