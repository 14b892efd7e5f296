// Package pgtesthelpers builds the SQL that integration tests use to set up and seed events tables.
//
// Tables get unique names per test, so tests against a shared database can run in parallel.
package pgtesthelpers
