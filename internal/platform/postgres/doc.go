// Package postgres implements the store interfaces on PostgreSQL through the
// pgx database/sql driver.
//
// Rows read for a review completion are locked with SELECT ... FOR UPDATE so
// concurrent completions of the same card serialize on the card row.
package postgres
