// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Digital Access API.

# Route Registration

NewRouter creates a configured handler with all endpoints, wrapped in
panic recovery and CORS:

	handler := router.NewRouter(db, cfg)

# Endpoints

Operational:

	GET /health  - Database ping ("OK" or 503)
	GET /metrics - Prometheus exposition
	GET /        - Banner

Scoring (stateless):

	POST /digital-access-index - Household index {score, category}
	POST /digital-literacy     - Per-person literacy {score}

Household records:

	POST   /households       - Create record
	GET    /households       - Filtered, paged list
	GET    /households/stats - Aggregates by geo_type or province
	GET    /households/{id}  - Single record
	PUT    /households/{id}  - Replace record
	DELETE /households/{id}  - Remove record (and its persons)

Persons and education outcomes:

	POST   /households/{id}/persons - Add a member
	GET    /households/{id}/persons - Members of one household
	GET    /persons/stats           - Aggregates by education level
	GET    /persons/{id}            - Single member
	PUT    /persons/{id}            - Replace member
	DELETE /persons/{id}            - Remove member

# Handler Initialization

The router creates handler instances with dependency injection:

	readCache := handlers.NewReadCache(cfg.CacheTTL)
	householdHandler := handlers.NewHouseholdHandler(db, readCache)
	personHandler := handlers.NewPersonHandler(db, readCache)

Record handlers share the read cache so household writes also drop cached
members.
*/
package router
