// Package remote bounds calls to the journal's remote collaborators (the
// Postgres tables, the auth provider and the attachment store) with a
// deadline and turns their failures into classified *Error values.
//
// Retry decisions downstream are made on Kind, never on message text:
//
//	trades, err := remote.Call(ctx, "Fetch trades", 10*time.Second, func(ctx context.Context) ([]models.Trade, error) {
//	    return repo.List(ctx, userID)
//	})
//	if errors.Is(err, remote.ErrTimeout) { ... }
package remote
