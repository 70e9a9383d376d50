// Package convsearch provides an embedded Go client for conversational
// document retrieval, wiring the same components the convsearch server uses
// without going through HTTP.
//
// A client pairs a query generator with a retrieval back end. The back end is
// either a local Indri index driven through its command line tools, or a
// Bing-style web search API:
//
//	client, _ := convsearch.New(ctx,
//	    convsearch.WithIndri("/opt/indri", "/data/index"),
//	    convsearch.WithResults(3),
//	    convsearch.WithBolt("convsearch.db"),
//	)
//	defer client.Close()
//
//	docs, _ := client.Ask(ctx, "who invented the telescope")
//
// Multi-turn conversations pass the full history, newest turn first:
//
//	docs, _ := client.Retrieve(ctx, []convsearch.Message{
//	    {UserID: "alice", Text: "when was it patented"},
//	    {UserID: "alice", Text: "who invented the telescope"},
//	})
package convsearch
