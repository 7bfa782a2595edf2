// Package arbiter provides a Go client for the arbiter decision analysis
// engine: structured comparison of competing options with progressive
// disclosure, from a cheap dominance scan to full framework-based scoring.
//
// # Quick start, no external services
//
// With no options the client runs entirely in memory. Analysis still
// works: without a generation backend every phase degrades to its
// deterministic fallback and the result says so in Meta.Backend.
//
//	client, _ := arbiter.New()
//	defer client.Close()
//
//	res, _ := client.Analyze(ctx, arbiter.Decision{
//	    Summary: "Choose a message broker for order events",
//	    Options: []arbiter.DecisionOption{
//	        {ID: "kafka", Name: "Apache Kafka"},
//	        {ID: "rabbitmq", Name: "RabbitMQ"},
//	    },
//	})
//	fmt.Println(res.Recommendation.OptionName)
//
// # Full configuration
//
//	client, _ := arbiter.New(
//	    arbiter.WithOpenAI(os.Getenv("OPENAI_API_KEY"), "gpt-4o-mini"),
//	    arbiter.WithSQLiteCorpus("decisions.db"),
//	    arbiter.WithBudget(200_000, 2_000_000),
//	)
//
// Recorded outcomes feed similarity search in later analyses:
//
//	rec, _ := client.RecordOutcome(ctx, d, "kafka", arbiter.OutcomeSuccess,
//	    []string{"partition rebalancing needed tuning"})
package arbiter
