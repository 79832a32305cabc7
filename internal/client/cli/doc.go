// Package cli provides the interactive trading journal client.
//
// Terminal renders the UI state the session bridge drives (signed-in name,
// page, theme, clock and connection indicator) and prints notifications.
// App holds the commands, which call the data facades and leave success and
// failure messages to their notifications.
//
// Commands:
//
//	register | login | logout
//	trades [list|add|edit <id>|delete <id>|delete-many <ids>|delete-all]
//	ledger [list|add|delete <id>]
//	challenges [list|add|complete <id>|delete <id>]
//	exits list|add <trade-id> | exits delete <exit-id>
//	attach <trade-id> <file>
//	calendar [YYYY-MM]
//	profile [name <new name>]
//	page <name> | theme light|dark | status | reload | exit
//
// Record fields are typed as name=value lines ending with an empty line.
package cli
