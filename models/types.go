package models

import "time"

// Province codes
const (
	ProvinceEasternCape  = "EC"
	ProvinceFreeState    = "FS"
	ProvinceGauteng      = "GP"
	ProvinceKwaZuluNatal = "KZN"
	ProvinceLimpopo      = "LP"
	ProvinceMpumalanga   = "MP"
	ProvinceNorthernCape = "NC"
	ProvinceNorthWest    = "NW"
	ProvinceWesternCape  = "WC"
)

// Provinces maps province codes to display names
var Provinces = map[string]string{
	ProvinceEasternCape:  "Eastern Cape",
	ProvinceFreeState:    "Free State",
	ProvinceGauteng:      "Gauteng",
	ProvinceKwaZuluNatal: "KwaZulu-Natal",
	ProvinceLimpopo:      "Limpopo",
	ProvinceMpumalanga:   "Mpumalanga",
	ProvinceNorthernCape: "Northern Cape",
	ProvinceNorthWest:    "North West",
	ProvinceWesternCape:  "Western Cape",
}

// Internet connection types
const (
	InternetNone      = "none"
	InternetFiber     = "fiber"
	InternetADSL      = "adsl"
	InternetMobile    = "mobile"
	InternetSatellite = "satellite"
)

// Stats grouping columns
const (
	GroupByGeoType  = "geo_type"
	GroupByProvince = "province"
)

// Highest completed education level
const (
	EducationNone         = "NONE"
	EducationPrimary      = "PRIM"
	EducationSecondary    = "SECO"
	EducationMatric       = "MATR"
	EducationDiploma      = "DIPL"
	EducationDegree       = "DEGR"
	EducationPostgraduate = "POST"
)

// EducationLevels maps education codes to display names
var EducationLevels = map[string]string{
	EducationNone:         "No Formal Education",
	EducationPrimary:      "Primary School",
	EducationSecondary:    "Secondary School",
	EducationMatric:       "Matric Completed",
	EducationDiploma:      "Diploma/Certificate",
	EducationDegree:       "University Degree",
	EducationPostgraduate: "Postgraduate Degree",
}

// Institution currently attended
const (
	SchoolNone    = "NONE"
	SchoolPublic  = "PUB"
	SchoolPrivate = "PRI"
	SchoolTVET    = "TVET"
	SchoolUni     = "UNI"
)

// Gender codes
const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "O"
)

// Machine-readable error codes
const (
	CodeInvalidJSON    = "invalid_json"
	CodeInvalidProfile = "invalid_profile"
	CodeInvalidField   = "invalid_field"
	CodeInvalidFilter  = "invalid_filter"
	CodeNotFound       = "not_found"
	CodeConflict       = "conflict"
	CodeInternal       = "internal"
)

// Request types

type AccessIndexRequest struct {
	HasInternetAccess bool   `json:"has_internet_access"`
	HasComputer       bool   `json:"has_computer"`
	HasSmartphone     bool   `json:"has_smartphone"`
	NumSmartphones    int    `json:"num_smartphones"`
	NumComputers      int    `json:"num_computers"`
	HouseholdSize     int    `json:"household_size"`
	GeoType           string `json:"geo_type"`
}

type LiteracyRequest struct {
	HasOwnDevice             bool    `json:"has_own_device"`
	InternetUsageHours       float64 `json:"internet_usage_hours"`
	UsesInternetForEducation bool    `json:"uses_internet_for_education"`
}

// Used for both create and replace. HouseholdID is ignored on replace.
type HouseholdRequest struct {
	HouseholdID       string   `json:"household_id"`
	Province          string   `json:"province"`
	Municipality      string   `json:"municipality"`
	GeoType           string   `json:"geo_type"`
	HouseholdSize     int      `json:"household_size"`
	MonthlyIncome     *float64 `json:"monthly_income"`
	HasElectricity    bool     `json:"has_electricity"`
	HasInternetAccess bool     `json:"has_internet_access"`
	InternetType      string   `json:"internet_type"`
	HasComputer       bool     `json:"has_computer"`
	HasSmartphone     bool     `json:"has_smartphone"`
	NumComputers      int      `json:"num_computers"`
	NumSmartphones    int      `json:"num_smartphones"`
}

// Used for both create and replace. PersonID is ignored on replace.
type PersonRequest struct {
	PersonID                 string   `json:"person_id"`
	Age                      int      `json:"age"`
	Gender                   string   `json:"gender"`
	EducationLevel           string   `json:"education_level"`
	CurrentlyStudying        bool     `json:"currently_studying"`
	SchoolType               string   `json:"school_type"`
	HasOwnDevice             bool     `json:"has_own_device"`
	DeviceType               *string  `json:"device_type"`
	InternetUsageHours       float64  `json:"internet_usage_hours"`
	UsesInternetForEducation bool     `json:"uses_internet_for_education"`
	AverageAcademicScore     *float64 `json:"average_academic_score"`
}

// Response types

type AccessIndexResponse struct {
	Score    float64 `json:"score"`
	Category string  `json:"category"`
}

type LiteracyResponse struct {
	Score float64 `json:"score"`
}

type HouseholdListResponse struct {
	Households []Household `json:"households"`
	Total      int         `json:"total"`
	Limit      int         `json:"limit"`
	Offset     int         `json:"offset"`
}

type HouseholdStatsResponse struct {
	GroupBy string       `json:"group_by"`
	Groups  []GroupStats `json:"groups"`
}

type PersonListResponse struct {
	HouseholdID string   `json:"household_id"`
	Persons     []Person `json:"persons"`
}

type EducationStatsResponse struct {
	Groups []EducationStats `json:"groups"`
}

// Domain types

type Household struct {
	ID                 string    `json:"household_id"`
	Province           string    `json:"province"`
	Municipality       string    `json:"municipality"`
	GeoType            string    `json:"geo_type"`
	HouseholdSize      int       `json:"household_size"`
	MonthlyIncome      *float64  `json:"monthly_income,omitempty"`
	HasElectricity     bool      `json:"has_electricity"`
	HasInternetAccess  bool      `json:"has_internet_access"`
	InternetType       string    `json:"internet_type"`
	HasComputer        bool      `json:"has_computer"`
	HasSmartphone      bool      `json:"has_smartphone"`
	NumComputers       int       `json:"num_computers"`
	NumSmartphones     int       `json:"num_smartphones"`
	DigitalAccessIndex float64   `json:"digital_access_index"`
	AccessCategory     string    `json:"access_category"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type Person struct {
	ID                       string    `json:"person_id"`
	HouseholdID              string    `json:"household_id"`
	Age                      int       `json:"age"`
	Gender                   string    `json:"gender"`
	EducationLevel           string    `json:"education_level"`
	CurrentlyStudying        bool      `json:"currently_studying"`
	SchoolType               string    `json:"school_type"`
	HasOwnDevice             bool      `json:"has_own_device"`
	DeviceType               *string   `json:"device_type,omitempty"`
	InternetUsageHours       float64   `json:"internet_usage_hours"`
	UsesInternetForEducation bool      `json:"uses_internet_for_education"`
	AverageAcademicScore     *float64  `json:"average_academic_score,omitempty"`
	DigitalLiteracyScore     float64   `json:"digital_literacy_score"`
	IsStudent                bool      `json:"is_student"`
	HasDigitalAccess         bool      `json:"has_digital_access"` // own device, household internet, some usage
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// EducationStats summarises persons sharing an education level
type EducationStats struct {
	EducationLevel    string   `json:"education_level"`
	PersonCount       int      `json:"person_count"`
	StudentCount      int      `json:"student_count"`
	MeanLiteracy      float64  `json:"mean_literacy"`
	MeanAcademicScore *float64 `json:"mean_academic_score,omitempty"` // nil when no one reports a score
	DigitalAccess     int      `json:"digital_access_count"`
	EducationUsers    int      `json:"education_internet_users"`
}

type GroupStats struct {
	Group          string  `json:"group"`
	HouseholdCount int     `json:"household_count"`
	MeanScore      float64 `json:"mean_score"`
	InternetShare  float64 `json:"internet_share"` // fraction of households with internet access
	LowCount       int     `json:"low_count"`
	MediumCount    int     `json:"medium_count"`
	HighCount      int     `json:"high_count"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}
