// Package models contains GORM persistence models that map to database tables.
// They are kept apart from the domain types, which carry no ORM tags; each
// aggregate model has ToDomain/FromDomain mappers used by the repositories.
//
// The referential rules between these tables (RESTRICT, SET NULL, CASCADE on
// users.id) live in the SQL migrations, not in GORM associations.
package models
