// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - AccessIndexRequest: household access profile for the index calculator
  - LiteracyRequest: has_own_device, internet_usage_hours, uses_internet_for_education
  - HouseholdRequest: a full household survey record (create and replace)
  - PersonRequest: a household member with education and usage details

# Response Types

Types for JSON responses:

  - AccessIndexResponse: score, category
  - LiteracyResponse: score
  - HouseholdListResponse: households, total, limit, offset
  - HouseholdStatsResponse: group_by, groups
  - PersonListResponse: household_id, persons
  - EducationStatsResponse: groups
  - ErrorResponse: error, code, field, message

# Domain Types

  - Household: persisted survey record with its computed index
  - GroupStats: aggregate index figures for one province or geo type
  - Person: household member with computed literacy, is_student and
    has_digital_access
  - EducationStats: persons, students, mean literacy and academic score
    for one education level

# Constants

Province codes (EC, FS, GP, KZN, LP, MP, NC, NW, WC) with display names
in Provinces.

Internet types:

	InternetNone      = "none"
	InternetFiber     = "fiber"
	InternetADSL      = "adsl"
	InternetMobile    = "mobile"
	InternetSatellite = "satellite"

Education levels (NONE, PRIM, SECO, MATR, DIPL, DEGR, POST) with display
names in EducationLevels. School types NONE, PUB, PRI, TVET, UNI. Genders
M, F, O.

Error codes:

	CodeInvalidJSON    = "invalid_json"
	CodeInvalidProfile = "invalid_profile"
	CodeInvalidField   = "invalid_field"
	CodeInvalidFilter  = "invalid_filter"
	CodeNotFound       = "not_found"
	CodeConflict       = "conflict"
	CodeInternal       = "internal"
*/
package models
