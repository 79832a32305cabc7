// Package models defines the journal's entities as the client sees them:
// trades, ledger entries, challenges, partial exits and user profiles.
// Money and quantities are decimal.Decimal; IDs are UUID strings.
package models
