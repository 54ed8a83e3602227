// Package entitysearch provides an embedded Go client for entity-aware span
// search with hit clustering.
//
// The client runs the same search pipeline as the HTTP server in-process,
// against a local bleve index or a Redis instance.
//
//	client, _ := entitysearch.New(ctx, entitysearch.WithBleve(""))
//	defer client.Close()
//
//	_, _ = client.Indices().Create(ctx, "news", entitysearch.WithFields("text", "person"))
//	_, _ = client.Documents("news").Index(ctx, docs)
//
//	res, _ := client.Search("news").
//	    Query("met #person").
//	    Size(20).
//	    Do(ctx)
//	for _, c := range res.Clusters {
//	    fmt.Println(c.Name, len(c.Members))
//	}
package entitysearch
