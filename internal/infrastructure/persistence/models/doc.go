// Package models holds the GORM persistence models behind the repositories.
// Domain entities stay free of ORM tags; each model here carries the column
// definitions and converts to and from its domain counterpart.
//
// One file per bounded context: identity.go for users, roles and property
// access grants, property.go for properties, outlets and cost categories,
// cost.go for daily entries and financial summaries, audit.go for the
// append-only audit trail.
package models
