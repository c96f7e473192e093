/*
Package database provides a client for the platform's document store.

Documents are schemaless JSON records grouped into named collections.
Every call authenticates with the project token, so the client belongs in
backend code, never in anything served to users.

	db, err := database.New(database.Config{SDKConfig: sdk.Config()})
	if err != nil {
		// handle error
	}

	doc, err := db.Get(ctx, "scores", "player-1")

Query operations filter with a Predicate, for example:

	winners, err := db.GetAllWhere(ctx, "scores", database.Predicate{
		Key:       "points",
		Operation: ">",
		Value:     9000,
	})
*/
package database
