// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Digital Access API.

# Handler Types

  - IndexHandler: Stateless Digital Access Index and literacy scoring
  - HouseholdHandler: Household survey records, listing, and statistics
  - PersonHandler: Household members and their education outcomes

Record handlers take the database and a shared ReadCache:

	readCache := handlers.NewReadCache(cfg.CacheTTL)
	householdHandler := handlers.NewHouseholdHandler(db, readCache)
	personHandler := handlers.NewPersonHandler(db, readCache)

# Index Computation

	POST /digital-access-index → ComputeIndex ({score, category})
	POST /digital-literacy     → ComputeLiteracy ({score})

Calculator validation failures become 400 responses with code
"invalid_profile" and the offending field.

# Household Records

	POST   /households       → CreateHousehold
	GET    /households       → ListHouseholds (filters, paging)
	GET    /households/stats → GetStats (group_by=geo_type|province)
	GET    /households/{id}  → GetHousehold
	PUT    /households/{id}  → UpdateHousehold
	DELETE /households/{id}  → DeleteHousehold

The stored index is recomputed on every create and update.

# Persons

	POST   /households/{id}/persons → CreatePerson
	GET    /households/{id}/persons → ListPersons (ordered by age)
	GET    /persons/stats           → GetEducationStats (?province=)
	GET    /persons/{id}            → GetPerson
	PUT    /persons/{id}            → UpdatePerson
	DELETE /persons/{id}            → DeletePerson

The literacy score is recomputed on every create and update. Deleting a
household deletes its persons.

# Caching

Single-record reads, member lists and stats are served from a go-cache
read cache. Every write invalidates it and bumps a generation, and a fill
carrying an older generation is dropped. Entries expire after
Config.CacheTTL.
*/
package handlers
